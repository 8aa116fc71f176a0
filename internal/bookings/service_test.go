package bookings

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

type stubBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
	conflict *models.Booking
	created  []*models.Booking
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[uuid.UUID]*models.Booking)}
}

func (s *stubBookingRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubBookingRepo) Create(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	s.bookings[booking.ID] = booking
	s.created = append(s.created, booking)
	return booking, nil
}

func (s *stubBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, ok := s.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (s *stubBookingRepo) List(_ context.Context, _ pagination.Params, _ ListFilters) (*BookingList, error) {
	list := make([]models.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		list = append(list, *booking)
	}
	return &BookingList{Bookings: list}, nil
}

func (s *stubBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.BookingStatus) error {
	if booking, ok := s.bookings[id]; ok {
		booking.Status = status
	}
	return nil
}

func (s *stubBookingRepo) SetCheckoutSession(_ context.Context, id uuid.UUID, sessionID string) error {
	if booking, ok := s.bookings[id]; ok {
		booking.CheckoutSession = &sessionID
	}
	return nil
}

func (s *stubBookingRepo) FindConflict(_ context.Context, _ uuid.UUID, _ time.Time) (*models.Booking, error) {
	return s.conflict, nil
}

type stubTourFinder struct {
	tour *models.Tour
}

func (s *stubTourFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Tour, error) {
	if s.tour == nil || s.tour.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.tour, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubGiftCards struct {
	card        *models.GiftCard
	validateErr error
	redeemed    []decimal.Decimal
}

func (s *stubGiftCards) Validate(_ context.Context, code string) (*models.GiftCard, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return s.card, nil
}

func (s *stubGiftCards) Redeem(_ context.Context, _ *gorm.DB, _ string, amount decimal.Decimal, _ uuid.UUID) (*models.GiftCardTransaction, error) {
	s.redeemed = append(s.redeemed, amount)
	return &models.GiftCardTransaction{ID: uuid.New(), Amount: amount}, nil
}

func testTour(kind enums.TourKind, price string) *models.Tour {
	return &models.Tour{
		ID:              uuid.New(),
		Slug:            "test-tour",
		Title:           "Test Tour",
		City:            "Ghent",
		Kind:            kind,
		PricePerPerson:  decimal.RequireFromString(price),
		DurationMinutes: 120,
	}
}

func testBookingConfig() config.BookingConfig {
	return config.BookingConfig{B2BMinPeople: 15, FixedSlotMinima: 4}
}

func newTestService(t *testing.T, repo Repository, tour *models.Tour, cards GiftCardLedger) Service {
	t.Helper()
	if cards == nil {
		cards = &stubGiftCards{}
	}
	logg := logger.New(logger.Options{ServiceName: "bookings-test", Output: io.Discard})
	svc, err := NewService(repo, &stubTourFinder{tour: tour}, stubTxRunner{}, cards, testBookingConfig(), logg, nil)
	require.NoError(t, err)
	return svc
}

func validInput(tour *models.Tour) CreateInput {
	return CreateInput{
		TourID: tour.ID,
		Type:   enums.BookingTypeB2C,
		Date:   "2026-05-01",
		Time:   "14:00",
		People: 4,
		Invitee: types.Invitee{
			Name:     "Maya Peeters",
			Email:    "maya@example.com",
			Language: "nl",
		},
	}
}

func TestServiceCreateComputesTotalsAndWindow(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, repo, tour, nil)

	input := validInput(tour)
	input.People = 15

	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, result.Quote.Total.Equal(decimal.RequireFromString("299.25")))
	assert.True(t, result.Booking.Total.Equal(decimal.RequireFromString("299.25")))
	assert.Equal(t, enums.BookingStatusPending, result.Booking.Status)

	require.NotNil(t, result.Booking.TourDatetime)
	require.NotNil(t, result.Booking.TourEnd)
	assert.Equal(t, time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC), result.Booking.TourDatetime.UTC())
	assert.Equal(t, time.Date(2026, 5, 1, 16, 0, 0, 0, time.UTC), result.Booking.TourEnd.UTC())

	require.Len(t, result.Booking.Invitees, 1)
	assert.Equal(t, 15, result.Booking.Invitees[0].NumberOfPeople)
	assert.True(t, result.Booking.Invitees[0].Amount.Equal(decimal.RequireFromString("299.25")))
	assert.Nil(t, result.Conflict)
}

func TestServiceCreateParsesStartInConfiguredTimezone(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "19.95")
	cfg := testBookingConfig()
	cfg.Timezone = "Europe/Brussels"
	logg := logger.New(logger.Options{ServiceName: "bookings-test", Output: io.Discard})
	svc, err := NewService(repo, &stubTourFinder{tour: tour}, stubTxRunner{}, &stubGiftCards{}, cfg, logg, nil)
	require.NoError(t, err)

	result, err := svc.Create(context.Background(), validInput(tour))
	require.NoError(t, err)

	// 14:00 Brussels in May is CEST, two hours ahead of UTC.
	require.NotNil(t, result.Booking.TourDatetime)
	assert.Equal(t, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC), result.Booking.TourDatetime.UTC())
	assert.Equal(t, time.Date(2026, 5, 1, 14, 0, 0, 0, time.UTC), result.Booking.TourEnd.UTC())
}

func TestServiceCreateRejectsUnknownTimezone(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "bookings-test", Output: io.Discard})
	cfg := testBookingConfig()
	cfg.Timezone = "Mars/Olympus"
	_, err := NewService(newStubBookingRepo(), &stubTourFinder{tour: testTour(enums.TourKindRegular, "19.95")}, stubTxRunner{}, &stubGiftCards{}, cfg, logg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking timezone")
}

func TestServiceCreateExtraHourExtendsCustomTourEnd(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindCustomInterval, "50.00")
	svc := newTestService(t, repo, tour, nil)

	input := validInput(tour)
	input.People = 2
	input.Fees = pricing.FeeSelection{ExtraHour: true}

	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 5, 1, 17, 0, 0, 0, time.UTC), result.Booking.TourEnd.UTC())
	assert.True(t, result.Booking.ExtraHour)
	// 100 base + 150 extra hour
	assert.True(t, result.Quote.Total.Equal(decimal.RequireFromString("250.00")))
}

func TestServiceCreateEnforcesMinimums(t *testing.T) {
	t.Run("B2B requires fifteen", func(t *testing.T) {
		tour := testTour(enums.TourKindRegular, "19.95")
		svc := newTestService(t, newStubBookingRepo(), tour, nil)

		input := validInput(tour)
		input.Type = enums.BookingTypeB2B
		input.People = 14

		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	})

	t.Run("fixed slot requires four", func(t *testing.T) {
		tour := testTour(enums.TourKindFixedSlot, "24.95")
		svc := newTestService(t, newStubBookingRepo(), tour, nil)

		input := validInput(tour)
		input.People = 3

		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)
	})

	t.Run("B2C single guest is fine", func(t *testing.T) {
		tour := testTour(enums.TourKindRegular, "19.95")
		svc := newTestService(t, newStubBookingRepo(), tour, nil)

		input := validInput(tour)
		input.People = 1

		_, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
	})
}

func TestServiceCreateB2BStartsAsQuotePending(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, repo, tour, nil)

	input := validInput(tour)
	input.Type = enums.BookingTypeB2B
	input.People = 20

	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusQuotePending, result.Booking.Status)
}

func TestServiceCreateRedeemsGiftCard(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "20.00")
	cards := &stubGiftCards{card: &models.GiftCard{
		Code:           "GIFT-ABC",
		CurrentBalance: decimal.RequireFromString("30.00"),
		Status:         enums.GiftCardStatusActive,
	}}
	svc := newTestService(t, repo, tour, cards)

	input := validInput(tour)
	input.People = 1
	input.GiftCardCode = "GIFT-ABC"

	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, result.Quote.Discount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, result.Booking.Total.IsZero())
	require.NotNil(t, result.Booking.GiftCardCode)
	assert.Equal(t, "GIFT-ABC", *result.Booking.GiftCardCode)
	require.Len(t, cards.redeemed, 1)
	assert.True(t, cards.redeemed[0].Equal(decimal.RequireFromString("20.00")))
}

func TestServiceCreateRejectedGiftCardFailsCreation(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "20.00")
	cards := &stubGiftCards{validateErr: pkgerrors.New(pkgerrors.CodeGiftCard, "gift card expired")}
	svc := newTestService(t, repo, tour, cards)

	input := validInput(tour)
	input.GiftCardCode = "GIFT-OLD"

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeGiftCard, appErr.Code())
	assert.Empty(t, repo.created)
}

func TestServiceCreateSurfacesConflictWithoutBlocking(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "19.95")
	repo.conflict = &models.Booking{ID: uuid.New(), TourID: tour.ID}
	svc := newTestService(t, repo, tour, nil)

	result, err := svc.Create(context.Background(), validInput(tour))
	require.NoError(t, err, "same-day duplicate must not block creation")
	require.NotNil(t, result.Conflict)
	assert.Equal(t, repo.conflict.ID, result.Conflict.ID)
	assert.Len(t, repo.created, 1)
}

func TestServiceCreateUnknownTour(t *testing.T) {
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, newStubBookingRepo(), tour, nil)

	input := validInput(tour)
	input.TourID = uuid.New()

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceCreateInvalidDate(t *testing.T) {
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, newStubBookingRepo(), tour, nil)

	input := validInput(tour)
	input.Date = "01/05/2026"

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceCreateLanguageHandling(t *testing.T) {
	t.Run("defaults to Dutch", func(t *testing.T) {
		tour := testTour(enums.TourKindRegular, "19.95")
		svc := newTestService(t, newStubBookingRepo(), tour, nil)

		input := validInput(tour)
		input.Invitee.Language = ""

		result, err := svc.Create(context.Background(), input)
		require.NoError(t, err)
		require.Len(t, result.Booking.Invitees, 1)
		assert.Equal(t, enums.LanguageDutch.String(), result.Booking.Invitees[0].Language)
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		tour := testTour(enums.TourKindRegular, "19.95")
		svc := newTestService(t, newStubBookingRepo(), tour, nil)

		input := validInput(tour)
		input.Invitee.Language = "es"

		_, err := svc.Create(context.Background(), input)
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	})
}

func TestServiceUpdateStatusTransitions(t *testing.T) {
	repo := newStubBookingRepo()
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, repo, tour, nil)

	input := validInput(tour)
	input.Type = enums.BookingTypeB2B
	input.People = 20
	result, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	id := result.Booking.ID

	for _, status := range []enums.BookingStatus{
		enums.BookingStatusQuoteSent,
		enums.BookingStatusQuoteAccepted,
		enums.BookingStatusQuotePaid,
		enums.BookingStatusConfirmed,
	} {
		updated, err := svc.UpdateStatus(context.Background(), id, status)
		require.NoError(t, err, "transition to %s", status)
		assert.Equal(t, status, updated.Status)
	}

	// confirmed cannot go back to pending
	_, err = svc.UpdateStatus(context.Background(), id, enums.BookingStatusPending)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	// cancelling is always allowed
	updated, err := svc.UpdateStatus(context.Background(), id, enums.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusCancelled, updated.Status)
}

func TestServiceUpdateStatusRejectsUnknownStatus(t *testing.T) {
	tour := testTour(enums.TourKindRegular, "19.95")
	svc := newTestService(t, newStubBookingRepo(), tour, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.BookingStatus("teleported"))
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}
