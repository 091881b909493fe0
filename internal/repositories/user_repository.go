package repositories

import (
	"errors"

	"donorlink/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	ExistsByID(id string) (bool, error)
	UpdateRatingAggregate(userID string, role models.OfferRole, agg models.RatingAggregate) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByID(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateRatingAggregate пишет пересчитанный агрегат на карточку пользователя.
// Только рейтинг-сервис вызывает этот метод.
func (r *userRepository) UpdateRatingAggregate(userID string, role models.OfferRole, agg models.RatingAggregate) error {
	columns := map[string]interface{}{}
	switch role {
	case models.OfferRoleDonor:
		columns["rating_donor_avg"] = agg.Avg
		columns["rating_donor_count"] = agg.Count
	case models.OfferRoleRecipient:
		columns["rating_recipient_avg"] = agg.Avg
		columns["rating_recipient_count"] = agg.Count
	default:
		return errors.New("unknown offer role")
	}

	res := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
