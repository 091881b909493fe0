package repositories

import (
	"errors"

	"donorlink/internal/models"

	"gorm.io/gorm"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	Create(offer *models.Offer) error
	FindByID(id string) (*models.Offer, error)
	Save(offer *models.Offer) error
	Delete(id string) error
	ListByRequest(requestID string) ([]models.Offer, error)
	ListByDonor(donorID string) ([]models.Offer, error)
	ListByRecipient(recipientID string) ([]models.Offer, error)
	// RatingAggregate полностью пересчитывает средний рейтинг и количество
	// оценок пользователя в данной роли по всем офферам.
	RatingAggregate(userID string, role models.OfferRole) (models.RatingAggregate, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

func (r *offerRepository) FindByID(id string) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) Save(offer *models.Offer) error {
	return r.db.Save(offer).Error
}

func (r *offerRepository) Delete(id string) error {
	res := r.db.Delete(&models.Offer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *offerRepository) ListByRequest(requestID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByDonor(donorID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("donor_id = ?", donorID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByRecipient(recipientID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("recipient_id = ?", recipientID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *offerRepository) RatingAggregate(userID string, role models.OfferRole) (models.RatingAggregate, error) {
	var row struct {
		Avg   float64
		Count int64
	}

	q := r.db.Model(&models.Offer{})
	switch role {
	case models.OfferRoleDonor:
		// RatingByDonor - оценка, выставленная донору
		q = q.Where("donor_id = ? AND rating_by_donor >= 1", userID).
			Select("COALESCE(AVG(rating_by_donor), 0) AS avg, COUNT(*) AS count")
	case models.OfferRoleRecipient:
		q = q.Where("recipient_id = ? AND rating_by_recipient >= 1", userID).
			Select("COALESCE(AVG(rating_by_recipient), 0) AS avg, COUNT(*) AS count")
	default:
		return models.RatingAggregate{}, errors.New("unknown offer role")
	}

	if err := q.Scan(&row).Error; err != nil {
		return models.RatingAggregate{}, err
	}
	return models.RatingAggregate{Avg: row.Avg, Count: int(row.Count)}, nil
}
