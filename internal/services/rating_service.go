package services

import (
	"donorlink/internal/logger"
	"donorlink/internal/models"
	"donorlink/internal/repositories"
	"donorlink/pkg/apperrors"
)

// RatingService пересчитывает рейтинговые агрегаты пользователя.
// Полный пересчет по всем офферам, не инкрементальное среднее:
// события оценки редки, корректность важнее стоимости скана.
type RatingService interface {
	Recompute(userID string, role models.OfferRole) (models.RatingAggregate, error)
}

type ratingService struct {
	offerRepo repositories.OfferRepository
	userRepo  repositories.UserRepository
}

func NewRatingService(offerRepo repositories.OfferRepository, userRepo repositories.UserRepository) RatingService {
	return &ratingService{offerRepo: offerRepo, userRepo: userRepo}
}

func (s *ratingService) Recompute(userID string, role models.OfferRole) (models.RatingAggregate, error) {
	agg, err := s.offerRepo.RatingAggregate(userID, role)
	if err != nil {
		return models.RatingAggregate{}, apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateRatingAggregate(userID, role, agg); err != nil {
		return models.RatingAggregate{}, apperrors.InternalError(err)
	}

	logger.Debug("rating recomputed", "user_id", userID, "role", role, "avg", agg.Avg, "count", agg.Count)
	return agg, nil
}
