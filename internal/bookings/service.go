package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/timeslots"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/metrics"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type tourFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
}

// GiftCardLedger validates cards at quote time and redeems them when a
// discounted booking is persisted.
type GiftCardLedger interface {
	Validate(ctx context.Context, code string) (*models.GiftCard, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, amount decimal.Decimal, bookingID uuid.UUID) (*models.GiftCardTransaction, error)
}

// Service defines booking operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*CreateResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) (*models.Booking, error)
	FindConflict(ctx context.Context, tourID uuid.UUID, day time.Time) (*models.Booking, error)
}

type service struct {
	repo      Repository
	tours     tourFinder
	tx        txRunner
	giftCards GiftCardLedger
	cfg       config.BookingConfig
	loc       *time.Location
	logg      *logger.Logger
	metrics   *metrics.BookingMetrics
}

// NewService builds a bookings service. The metrics handle may be nil.
func NewService(repo Repository, tours tourFinder, tx txRunner, giftCards GiftCardLedger, cfg config.BookingConfig, logg *logger.Logger, m *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tours == nil {
		return nil, fmt.Errorf("tour finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if giftCards == nil {
		return nil, fmt.Errorf("gift card ledger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &service{
		repo:      repo,
		tours:     tours,
		tx:        tx,
		giftCards: giftCards,
		cfg:       cfg,
		loc:       loc,
		logg:      logg,
		metrics:   m,
	}, nil
}

// Create prices the request, flags same-day duplicates and persists the
// booking with any gift card redemption in one transaction. A conflict is
// advisory only and never blocks creation.
func (s *service) Create(ctx context.Context, input CreateInput) (*CreateResult, error) {
	tour, err := s.tours.FindByID(ctx, input.TourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tour")
	}

	if minimum := s.minPeople(tour, input.Type); input.People < minimum {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("this booking requires at least %d people", minimum))
	}

	// Wall-clock input is read in the configured booking timezone, the same
	// location the availability checker resolves windows in.
	start, err := time.ParseInLocation("2006-01-02 15:04", input.Date+" "+input.Time, s.loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tour date or time")
	}

	if input.Invitee.Language == "" {
		input.Invitee.Language = enums.LanguageDutch.String()
	} else if _, err := enums.ParseLanguage(input.Invitee.Language); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported tour language")
	}

	duration := timeslots.AdjustDuration(tour.DurationMinutes, input.Fees.ExtraHour, tour.Kind)
	end := start.Add(time.Duration(duration) * time.Minute)

	var redemption *pricing.GiftCardRedemption
	if input.GiftCardCode != "" {
		card, err := s.giftCards.Validate(ctx, input.GiftCardCode)
		if err != nil {
			return nil, err
		}
		redemption = &pricing.GiftCardRedemption{Code: card.Code, Balance: card.CurrentBalance}
	}

	quote, err := pricing.ComputeTotal(pricing.TourPricingInput{
		Kind:           tour.Kind,
		PricePerPerson: tour.PricePerPerson,
		People:         input.People,
	}, input.Fees, input.Upsells, redemption)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPricingInput) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "pricing rejected the booking")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing booking")
	}

	conflict, err := s.repo.FindConflict(ctx, tour.ID, start)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking same-day bookings")
	}
	if conflict != nil {
		s.logg.Warn(s.logg.WithBookingID(ctx, conflict.ID.String()),
			"tour already booked on this day, proceeding anyway")
		if s.metrics != nil {
			s.metrics.IncConflict()
		}
	}

	invitee := input.Invitee
	invitee.NumberOfPeople = input.People
	invitee.Amount = quote.Total
	invitee.Currency = enums.CurrencyEUR.String()

	booking := &models.Booking{
		ID:           uuid.New(),
		TourID:       tour.ID,
		Status:       initialStatus(input.Type),
		Type:         input.Type,
		City:         &tour.City,
		TourDatetime: &start,
		TourEnd:      &end,
		RequestGuide: input.Fees.NamedGuide,
		WeekendFee:   input.Fees.Weekend,
		EveningFee:   input.Fees.Evening,
		ExtraHour:    input.Fees.ExtraHour,
		Subtotal:     quote.Subtotal,
		Discount:     quote.Discount,
		Total:        quote.Total,
		Currency:     enums.CurrencyEUR,
		Invitees:     types.Invitees{invitee},
		Upsells:      toSelections(input.Upsells),
	}
	if redemption != nil {
		code := redemption.Code
		booking.GiftCardCode = &code
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, booking); err != nil {
			return err
		}
		if redemption != nil && quote.Discount.IsPositive() {
			if _, err := s.giftCards.Redeem(ctx, tx, redemption.Code, quote.Discount, booking.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting booking")
	}

	if s.metrics != nil {
		s.metrics.IncCreated(input.Type.String())
	}
	s.logg.Info(s.logg.WithBookingID(ctx, booking.ID.String()), "booking created")

	return &CreateResult{Booking: booking, Quote: quote, Conflict: conflict}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading booking")
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing bookings")
	}
	return list, nil
}

// UpdateStatus moves a booking along its lifecycle. Illegal transitions are
// rejected so a paid quote can never silently fall back to pending.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) (*models.Booking, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown booking status %q", status))
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(booking.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating booking status")
	}
	booking.Status = status
	return booking, nil
}

func (s *service) FindConflict(ctx context.Context, tourID uuid.UUID, day time.Time) (*models.Booking, error) {
	conflict, err := s.repo.FindConflict(ctx, tourID, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking same-day bookings")
	}
	return conflict, nil
}

func (s *service) minPeople(tour *models.Tour, bookingType enums.BookingType) int {
	switch {
	case bookingType == enums.BookingTypeB2B:
		return s.cfg.B2BMinPeople
	case tour.IsFixedSlot():
		return s.cfg.FixedSlotMinima
	default:
		return 1
	}
}

func initialStatus(bookingType enums.BookingType) enums.BookingStatus {
	if bookingType == enums.BookingTypeB2B {
		return enums.BookingStatusQuotePending
	}
	return enums.BookingStatusPending
}

var allowedTransitions = map[enums.BookingStatus][]enums.BookingStatus{
	enums.BookingStatusPending:       {enums.BookingStatusConfirmed, enums.BookingStatusCancelled},
	enums.BookingStatusQuotePending:  {enums.BookingStatusQuoteSent, enums.BookingStatusCancelled},
	enums.BookingStatusQuoteSent:     {enums.BookingStatusQuoteAccepted, enums.BookingStatusCancelled},
	enums.BookingStatusQuoteAccepted: {enums.BookingStatusQuotePaid, enums.BookingStatusCancelled},
	enums.BookingStatusQuotePaid:     {enums.BookingStatusConfirmed, enums.BookingStatusCancelled},
	enums.BookingStatusConfirmed:     {enums.BookingStatusCancelled},
}

func transitionAllowed(from, to enums.BookingStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func toSelections(items []pricing.UpsellLineItem) types.UpsellSelections {
	selections := make(types.UpsellSelections, 0, len(items))
	for _, item := range items {
		selections = append(selections, types.UpsellSelection{
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return selections
}
