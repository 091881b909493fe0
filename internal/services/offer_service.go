package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"donorlink/internal/logger"
	"donorlink/internal/models"
	"donorlink/internal/repositories"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

// OfferService - машина состояний оффера:
// pending -> accepted -> fulfilled -> rated, отмена только из pending.
// Каждая мутация сверяет вызывающего с donor/recipient на записи;
// несовпадение - ошибка авторизации, а не not found.
type OfferService interface {
	Create(ctx context.Context, donorID, requestID string, input *dto.CreateOfferRequest) (*dto.OfferResponse, error)
	Accept(ctx context.Context, callerID, offerID string) (*dto.OfferResponse, error)
	Fulfill(ctx context.Context, callerID, offerID string) (*dto.OfferResponse, error)
	Rate(ctx context.Context, callerID, offerID string, rating int) (*dto.OfferResponse, error)
	Cancel(ctx context.Context, callerID, offerID string) error
	GetByID(callerID, offerID string) (*dto.OfferResponse, error)
	ListByRequest(requestID string) (*dto.OfferListResponse, error)
	ListSent(donorID string) (*dto.OfferListResponse, error)
	ListReceived(recipientID string) (*dto.OfferListResponse, error)
}

type offerService struct {
	offerRepo   repositories.OfferRepository
	requestRepo repositories.RequestRepository
	userRepo    repositories.UserRepository
	notifier    NotificationService
	ratings     RatingService
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	requestRepo repositories.RequestRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	ratings RatingService,
) OfferService {
	return &offerService{
		offerRepo:   offerRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		ratings:     ratings,
	}
}

// Create создает pending-оффер против открытой заявки.
// Владелец заявки не может офферить сам себе.
func (s *offerService) Create(ctx context.Context, donorID, requestID string, input *dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if request.Status != models.RequestStatusOpen {
		return nil, apperrors.ErrRequestClosed
	}
	if request.OwnerID == donorID {
		return nil, apperrors.ErrOwnRequestOffer
	}

	offer := &models.Offer{
		Kind:        request.Kind,
		RequestID:   request.ID,
		DonorID:     donorID,
		RecipientID: request.OwnerID,
		Message:     input.Message,
		ProposedAt:  input.ProposedAt,
		Method:      input.Method,
		Status:      models.OfferStatusPending,
	}
	if err := s.offerRepo.Create(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notify(ctx, offer.RecipientID, donorID, models.NotificationTypeForRequestKind(request.Kind),
		"New donation offer", fmt.Sprintf("You have a new offer on %q", request.Title), offer)

	logger.CtxInfo(ctx, "offer created", "offer_id", offer.ID, "request_id", request.ID, "donor_id", donorID)
	return dto.NewOfferResponse(offer), nil
}

// Accept переводит pending в accepted. Повторный вызов и вызов на
// уже продвинувшемся оффере - no-op с текущим состоянием в ответе.
func (s *offerService) Accept(ctx context.Context, callerID, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.findForParty(callerID, offerID, models.OfferRoleRecipient)
	if err != nil {
		return nil, err
	}

	if offer.Status != models.OfferStatusPending {
		return dto.NewOfferResponse(offer), nil
	}

	now := time.Now()
	offer.Status = models.OfferStatusAccepted
	offer.AcceptedAt = &now
	if err := s.offerRepo.Save(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notify(ctx, offer.DonorID, callerID, models.NotificationTypeOfferAccepted,
		"Offer accepted", "Your donation offer was accepted", offer)

	logger.CtxInfo(ctx, "offer accepted", "offer_id", offer.ID)
	return dto.NewOfferResponse(offer), nil
}

// Fulfill переводит pending или accepted в fulfilled.
// accepted - необязательная промежуточная отметка, прямой переход
// pending -> fulfilled равноправен.
func (s *offerService) Fulfill(ctx context.Context, callerID, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.findForParty(callerID, offerID, models.OfferRoleRecipient)
	if err != nil {
		return nil, err
	}

	if offer.Status != models.OfferStatusPending && offer.Status != models.OfferStatusAccepted {
		return nil, apperrors.ErrInvalidTransition("offer cannot be fulfilled", string(offer.Status))
	}

	now := time.Now()
	offer.Status = models.OfferStatusFulfilled
	offer.FulfilledAt = &now
	if err := s.offerRepo.Save(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notify(ctx, offer.DonorID, callerID, models.NotificationTypeOfferFulfilled,
		"Donation fulfilled", "Your donation offer was marked as fulfilled", offer)

	logger.CtxInfo(ctx, "offer fulfilled", "offer_id", offer.ID)
	return dto.NewOfferResponse(offer), nil
}

// Rate записывает оценку стороны по исполненному офферу. Каждая
// сторона пишет только свое поле: recipient оценивает донора
// (RatingByDonor), донор оценивает получателя (RatingByRecipient).
// Статус безусловно становится rated, после чего пересчитывается
// агрегат оцененной стороны.
func (s *offerService) Rate(ctx context.Context, callerID, offerID string, rating int) (*dto.OfferResponse, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewBadRequestError("rating must be between 1 and 5")
	}

	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if callerID != offer.DonorID && callerID != offer.RecipientID {
		return nil, apperrors.ErrOfferAccessDenied
	}

	if offer.Status != models.OfferStatusFulfilled && offer.Status != models.OfferStatusRated {
		return nil, apperrors.ErrInvalidTransition("offer cannot be rated before fulfillment", string(offer.Status))
	}

	var ratedUserID string
	var ratedRole models.OfferRole
	var counterpartID string
	if callerID == offer.RecipientID {
		offer.RatingByDonor = &rating
		ratedUserID = offer.DonorID
		ratedRole = models.OfferRoleDonor
		counterpartID = offer.DonorID
	} else {
		offer.RatingByRecipient = &rating
		ratedUserID = offer.RecipientID
		ratedRole = models.OfferRoleRecipient
		counterpartID = offer.RecipientID
	}
	offer.Status = models.OfferStatusRated

	if err := s.offerRepo.Save(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.ratings.Recompute(ratedUserID, ratedRole); err != nil {
		return nil, err
	}

	s.notify(ctx, counterpartID, callerID, models.NotificationTypeOfferRated,
		"You received a rating", fmt.Sprintf("You were rated %d out of 5", rating), offer)

	logger.CtxInfo(ctx, "offer rated", "offer_id", offer.ID, "rated_user_id", ratedUserID, "role", ratedRole)
	return dto.NewOfferResponse(offer), nil
}

// Cancel жестко удаляет pending-оффер. Доступен только донору;
// после любого другого статуса отмена - конфликт, повторная отмена
// удаленного оффера - not found.
func (s *offerService) Cancel(ctx context.Context, callerID, offerID string) error {
	offer, err := s.findForParty(callerID, offerID, models.OfferRoleDonor)
	if err != nil {
		return err
	}

	if offer.Status != models.OfferStatusPending {
		return apperrors.ErrInvalidTransition("only pending offers can be cancelled", string(offer.Status))
	}

	if err := s.offerRepo.Delete(offer.ID); err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return apperrors.ErrOfferNotFound
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "offer cancelled", "offer_id", offer.ID, "donor_id", callerID)
	return nil
}

func (s *offerService) GetByID(callerID, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if callerID != offer.DonorID && callerID != offer.RecipientID {
		return nil, apperrors.ErrOfferAccessDenied
	}
	return dto.NewOfferResponse(offer), nil
}

func (s *offerService) ListByRequest(requestID string) (*dto.OfferListResponse, error) {
	offers, err := s.offerRepo.ListByRequest(requestID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newOfferListResponse(offers), nil
}

func (s *offerService) ListSent(donorID string) (*dto.OfferListResponse, error) {
	offers, err := s.offerRepo.ListByDonor(donorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newOfferListResponse(offers), nil
}

func (s *offerService) ListReceived(recipientID string) (*dto.OfferListResponse, error) {
	offers, err := s.offerRepo.ListByRecipient(recipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return newOfferListResponse(offers), nil
}

// findForParty загружает оффер и требует, чтобы вызывающий был
// указанной стороной. Несовпадение - 403, не 404.
func (s *offerService) findForParty(callerID, offerID string, role models.OfferRole) (*models.Offer, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	switch role {
	case models.OfferRoleDonor:
		if callerID != offer.DonorID {
			return nil, apperrors.ErrOfferAccessDenied
		}
	case models.OfferRoleRecipient:
		if callerID != offer.RecipientID {
			return nil, apperrors.ErrOfferAccessDenied
		}
	}
	return offer, nil
}

func (s *offerService) notify(ctx context.Context, userID, senderID string, ntype models.NotificationType, title, body string, offer *models.Offer) {
	if _, err := s.notifier.Dispatch(ctx, &dto.DispatchInput{
		UserID:      userID,
		SenderID:    &senderID,
		Type:        ntype,
		Title:       title,
		Body:        body,
		ReferenceID: offer.ID,
		Data: map[string]interface{}{
			"offer_id":   offer.ID,
			"request_id": offer.RequestID,
			"status":     offer.Status,
		},
	}); err != nil {
		logger.CtxWarn(ctx, "offer notification dispatch failed", "offer_id", offer.ID, "type", ntype, "error", err)
	}
}

func newOfferListResponse(offers []models.Offer) *dto.OfferListResponse {
	items := make([]*dto.OfferResponse, 0, len(offers))
	for i := range offers {
		items = append(items, dto.NewOfferResponse(&offers[i]))
	}
	return &dto.OfferListResponse{Offers: items}
}
