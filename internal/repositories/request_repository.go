package repositories

import (
	"errors"

	"donorlink/internal/models"

	"gorm.io/gorm"
)

var ErrRequestNotFound = errors.New("donation request not found")

type RequestRepository interface {
	Create(request *models.DonationRequest) error
	FindByID(id string) (*models.DonationRequest, error)
	ListOpen(limit, offset int) ([]models.DonationRequest, int64, error)
	UpdateStatus(id string, status models.RequestStatus) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(request *models.DonationRequest) error {
	return r.db.Create(request).Error
}

func (r *requestRepository) FindByID(id string) (*models.DonationRequest, error) {
	var request models.DonationRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListOpen(limit, offset int) ([]models.DonationRequest, int64, error) {
	var requests []models.DonationRequest
	var total int64

	q := r.db.Model(&models.DonationRequest{}).Where("status = ?", models.RequestStatusOpen)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

func (r *requestRepository) UpdateStatus(id string, status models.RequestStatus) error {
	res := r.db.Model(&models.DonationRequest{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}
