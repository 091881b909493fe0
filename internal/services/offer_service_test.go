package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorlink/internal/models"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

type offerFixture struct {
	donor     *models.User
	recipient *models.User
	request   *models.DonationRequest

	userRepo    *fakeUserRepo
	offerRepo   *fakeOfferRepo
	requestRepo *fakeRequestRepo
	pusher      *fakePusher

	offers        OfferService
	notifications NotificationService
}

func newOfferFixture(t *testing.T, kind models.RequestKind) *offerFixture {
	t.Helper()

	donor := &models.User{DisplayName: "Donor"}
	recipient := &models.User{DisplayName: "Recipient"}
	userRepo := newFakeUserRepo(donor, recipient)

	request := &models.DonationRequest{
		OwnerID: recipient.ID,
		Kind:    kind,
		Title:   "Need help",
		Status:  models.RequestStatusOpen,
	}
	requestRepo := newFakeRequestRepo(request)
	offerRepo := newFakeOfferRepo()
	pusher := newFakePusher(donor.ID, recipient.ID)

	notifications := NewNotificationService(newFakeNotificationRepo(), userRepo, pusher, nil, 2*time.Minute)
	ratings := NewRatingService(offerRepo, userRepo)
	offers := NewOfferService(offerRepo, requestRepo, userRepo, notifications, ratings)

	return &offerFixture{
		donor:         donor,
		recipient:     recipient,
		request:       request,
		userRepo:      userRepo,
		offerRepo:     offerRepo,
		requestRepo:   requestRepo,
		pusher:        pusher,
		offers:        offers,
		notifications: notifications,
	}
}

func (f *offerFixture) createOffer(t *testing.T) *dto.OfferResponse {
	t.Helper()
	resp, err := f.offers.Create(context.Background(), f.donor.ID, f.request.ID, &dto.CreateOfferRequest{
		Message: "happy to help",
	})
	require.NoError(t, err)
	return resp
}

func TestOfferCreate(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindBlood)

	resp := f.createOffer(t)

	assert.Equal(t, models.OfferStatusPending, resp.Status)
	assert.Equal(t, models.RequestKindBlood, resp.Kind)
	assert.Equal(t, f.donor.ID, resp.DonorID)
	assert.Equal(t, f.recipient.ID, resp.RecipientID)

	// владелец заявки получает уведомление типа, выведенного из вида заявки
	events := f.pusher.eventsFor(f.recipient.ID, "notification")
	require.Len(t, events, 1)
	notif := events[0].Data.(*dto.NotificationResponse)
	assert.Equal(t, models.NotificationTypeBloodOffer, notif.Type)
	assert.Equal(t, resp.ID, notif.ReferenceID)
}

func TestOfferCreateGeneralKindNotification(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)

	f.createOffer(t)

	events := f.pusher.eventsFor(f.recipient.ID, "notification")
	require.Len(t, events, 1)
	notif := events[0].Data.(*dto.NotificationResponse)
	assert.Equal(t, models.NotificationTypeGeneralOffer, notif.Type)
}

func TestOfferCreateOnOwnRequest(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)

	_, err := f.offers.Create(context.Background(), f.recipient.ID, f.request.ID, &dto.CreateOfferRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOwnRequestOffer)
}

func TestOfferCreateOnClosedRequest(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	require.NoError(t, f.requestRepo.UpdateStatus(f.request.ID, models.RequestStatusClosed))

	_, err := f.offers.Create(context.Background(), f.donor.ID, f.request.ID, &dto.CreateOfferRequest{})
	assert.ErrorIs(t, err, apperrors.ErrRequestClosed)
}

func TestOfferCreateRequestNotFound(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)

	_, err := f.offers.Create(context.Background(), f.donor.ID, "2b0e6f8c-0000-0000-0000-000000000000", &dto.CreateOfferRequest{})
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestOfferAcceptHappyPath(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	resp, err := f.offers.Accept(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, resp.Status)
	require.NotNil(t, resp.AcceptedAt)

	events := f.pusher.eventsFor(f.donor.ID, "notification")
	require.Len(t, events, 1)
	assert.Equal(t, models.NotificationTypeOfferAccepted, events[0].Data.(*dto.NotificationResponse).Type)
}

func TestOfferAcceptIsNoOpPastPending(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	first, err := f.offers.Accept(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	// повторный accept не ошибается и не двигает таймстемп
	second, err := f.offers.Accept(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, second.Status)
	assert.Equal(t, first.AcceptedAt.Unix(), second.AcceptedAt.Unix())

	// и ровно одно уведомление донору
	assert.Len(t, f.pusher.eventsFor(f.donor.ID, "notification"), 1)
}

func TestOfferAcceptByDonorIsForbidden(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Accept(context.Background(), f.donor.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrOfferAccessDenied)
}

func TestOfferFulfillDirectlyFromPending(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	// accepted - необязательная промежуточная остановка
	resp, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusFulfilled, resp.Status)
	require.NotNil(t, resp.FulfilledAt)
}

func TestOfferFulfillFromAccepted(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Accept(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	resp, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusFulfilled, resp.Status)
}

func TestOfferFulfillTwiceConflicts(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	_, err = f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestOfferRateByBothParties(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	// получатель оценивает донора
	resp, err := f.offers.Rate(context.Background(), f.recipient.ID, created.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRated, resp.Status)
	require.NotNil(t, resp.RatingByDonor)
	assert.Equal(t, 5, *resp.RatingByDonor)
	assert.Nil(t, resp.RatingByRecipient)

	// донор оценивает получателя, оффер уже rated - допустимо
	resp, err = f.offers.Rate(context.Background(), f.donor.ID, created.ID, 3)
	require.NoError(t, err)
	require.NotNil(t, resp.RatingByRecipient)
	assert.Equal(t, 3, *resp.RatingByRecipient)
	require.NotNil(t, resp.RatingByDonor)
	assert.Equal(t, 5, *resp.RatingByDonor)

	// агрегаты пересчитаны на пользователях
	donor, err := f.userRepo.FindByID(f.donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, donor.RatingAsDonor.Avg)
	assert.Equal(t, 1, donor.RatingAsDonor.Count)

	recipient, err := f.userRepo.FindByID(f.recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, recipient.RatingAsRecipient.Avg)
	assert.Equal(t, 1, recipient.RatingAsRecipient.Count)
}

func TestOfferRateBeforeFulfillmentConflicts(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Rate(context.Background(), f.recipient.ID, created.ID, 4)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestOfferRateByThirdPartyIsForbidden(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)
	_, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	stranger := &models.User{DisplayName: "Stranger"}
	require.NoError(t, f.userRepo.Create(stranger))

	_, err = f.offers.Rate(context.Background(), stranger.ID, created.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrOfferAccessDenied)
}

func TestOfferRateRangeValidation(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)
	_, err := f.offers.Fulfill(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.offers.Rate(context.Background(), f.recipient.ID, created.ID, rating)
		require.Error(t, err, "rating %d must be rejected", rating)
	}
}

func TestOfferCancel(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	require.NoError(t, f.offers.Cancel(context.Background(), f.donor.ID, created.ID))

	// оффер удален жестко, повторная отмена - not found
	err := f.offers.Cancel(context.Background(), f.donor.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrOfferNotFound)
}

func TestOfferCancelByRecipientIsForbidden(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	err := f.offers.Cancel(context.Background(), f.recipient.ID, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrOfferAccessDenied)
}

func TestOfferCancelPastPendingConflicts(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	_, err := f.offers.Accept(context.Background(), f.recipient.ID, created.ID)
	require.NoError(t, err)

	err = f.offers.Cancel(context.Background(), f.donor.ID, created.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 409, appErr.HTTPCode)

	// оффер остался на месте
	_, err = f.offers.GetByID(f.donor.ID, created.ID)
	assert.NoError(t, err)
}

func TestOfferListings(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	created := f.createOffer(t)

	sent, err := f.offers.ListSent(f.donor.ID)
	require.NoError(t, err)
	require.Len(t, sent.Offers, 1)
	assert.Equal(t, created.ID, sent.Offers[0].ID)

	received, err := f.offers.ListReceived(f.recipient.ID)
	require.NoError(t, err)
	require.Len(t, received.Offers, 1)

	byRequest, err := f.offers.ListByRequest(f.request.ID)
	require.NoError(t, err)
	require.Len(t, byRequest.Offers, 1)
}

func TestRatingRecomputeAveragesAcrossOffers(t *testing.T) {
	f := newOfferFixture(t, models.RequestKindGeneral)
	ratings := NewRatingService(f.offerRepo, f.userRepo)

	r1, r2 := 4, 2
	require.NoError(t, f.offerRepo.Create(&models.Offer{
		Kind: models.RequestKindGeneral, RequestID: f.request.ID,
		DonorID: f.donor.ID, RecipientID: f.recipient.ID,
		Status: models.OfferStatusRated, RatingByDonor: &r1,
	}))
	require.NoError(t, f.offerRepo.Create(&models.Offer{
		Kind: models.RequestKindGeneral, RequestID: f.request.ID,
		DonorID: f.donor.ID, RecipientID: f.recipient.ID,
		Status: models.OfferStatusRated, RatingByDonor: &r2,
	}))
	// неоцененный оффер в среднее не входит
	require.NoError(t, f.offerRepo.Create(&models.Offer{
		Kind: models.RequestKindGeneral, RequestID: f.request.ID,
		DonorID: f.donor.ID, RecipientID: f.recipient.ID,
		Status: models.OfferStatusFulfilled,
	}))

	agg, err := ratings.Recompute(f.donor.ID, models.OfferRoleDonor)
	require.NoError(t, err)
	assert.Equal(t, 3.0, agg.Avg)
	assert.Equal(t, 2, agg.Count)

	donor, err := f.userRepo.FindByID(f.donor.ID)
	require.NoError(t, err)
	assert.Equal(t, agg, donor.RatingAsDonor)
}
