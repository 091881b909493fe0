package services

import (
	"errors"

	"donorlink/internal/models"
	"donorlink/internal/repositories"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

// RequestService - заявки на донорство, ровно столько, сколько нужно
// для прохождения оффером полного цикла
type RequestService interface {
	Create(ownerID string, input *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	GetByID(requestID string) (*dto.RequestResponse, error)
	ListOpen(limit, offset int) (*dto.RequestListResponse, error)
	Close(ownerID, requestID string) error
}

type requestService struct {
	requestRepo repositories.RequestRepository
}

func NewRequestService(requestRepo repositories.RequestRepository) RequestService {
	return &requestService{requestRepo: requestRepo}
}

func (s *requestService) Create(ownerID string, input *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	kind := models.RequestKind(input.Kind)
	if !kind.IsValid() {
		return nil, apperrors.NewBadRequestError("unknown request kind")
	}
	if kind == models.RequestKindBlood && input.BloodType == "" {
		return nil, apperrors.NewBadRequestError("blood requests require a blood type")
	}

	request := &models.DonationRequest{
		OwnerID:     ownerID,
		Kind:        kind,
		Title:       input.Title,
		Description: input.Description,
		City:        input.City,
		BloodType:   input.BloodType,
		Status:      models.RequestStatusOpen,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewRequestResponse(request), nil
}

func (s *requestService) GetByID(requestID string) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewRequestResponse(request), nil
}

func (s *requestService) ListOpen(limit, offset int) (*dto.RequestListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	requests, total, err := s.requestRepo.ListOpen(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestResponse(&requests[i]))
	}
	return &dto.RequestListResponse{Requests: items, Total: total}, nil
}

// Close закрывает заявку владельца; новые офферы по ней отклоняются
func (s *requestService) Close(ownerID, requestID string) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return apperrors.InternalError(err)
	}
	if request.OwnerID != ownerID {
		return apperrors.NewForbiddenError("only the owner can close a request")
	}
	if request.Status == models.RequestStatusClosed {
		return nil
	}
	if err := s.requestRepo.UpdateStatus(requestID, models.RequestStatusClosed); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
