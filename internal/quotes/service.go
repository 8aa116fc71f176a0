package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/bookings"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

type bookingCreator interface {
	Create(ctx context.Context, input bookings.CreateInput) (*bookings.CreateResult, error)
}

type tourFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
}

// RequestInput carries a company's quote request for a group tour.
type RequestInput struct {
	TourID  uuid.UUID
	Date    string // 2006-01-02
	Time    string // 15:04
	People  int
	Contact types.Invitee
	Fees    pricing.FeeSelection
	Upsells []pricing.UpsellLineItem
}

// Preview is a non-binding price breakdown shown before the request is filed.
type Preview struct {
	Tour  *models.Tour  `json:"tour"`
	Quote pricing.Quote `json:"quote"`
}

// Service handles business-to-business quote requests. A filed request
// becomes a quote_pending booking that sales follows up on.
type Service interface {
	Preview(ctx context.Context, input RequestInput) (*Preview, error)
	Request(ctx context.Context, input RequestInput) (*bookings.CreateResult, error)
}

type service struct {
	creator bookingCreator
	tours   tourFinder
	cfg     config.BookingConfig
	logg    *logger.Logger
}

func NewService(creator bookingCreator, tours tourFinder, cfg config.BookingConfig, logg *logger.Logger) (Service, error) {
	if creator == nil {
		return nil, fmt.Errorf("booking creator required")
	}
	if tours == nil {
		return nil, fmt.Errorf("tour finder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{creator: creator, tours: tours, cfg: cfg, logg: logg}, nil
}

// Preview prices the request without persisting anything.
func (s *service) Preview(ctx context.Context, input RequestInput) (*Preview, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	tour, err := s.tours.FindByID(ctx, input.TourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tour")
	}

	quote, err := pricing.ComputeTotal(pricing.TourPricingInput{
		Kind:           tour.Kind,
		PricePerPerson: tour.PricePerPerson,
		People:         input.People,
	}, input.Fees, input.Upsells, nil)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidPricingInput) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "pricing rejected the request")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "pricing quote request")
	}

	return &Preview{Tour: tour, Quote: quote}, nil
}

// Request files the quote: the booking is created as quote_pending and sales
// picks it up from there.
func (s *service) Request(ctx context.Context, input RequestInput) (*bookings.CreateResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	result, err := s.creator.Create(ctx, bookings.CreateInput{
		TourID:  input.TourID,
		Type:    enums.BookingTypeB2B,
		Date:    input.Date,
		Time:    input.Time,
		People:  input.People,
		Invitee: input.Contact,
		Fees:    input.Fees,
		Upsells: input.Upsells,
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithBookingID(ctx, result.Booking.ID.String()), "quote request filed")
	return result, nil
}

func (s *service) validate(input RequestInput) error {
	if input.Contact.CompanyName == nil || strings.TrimSpace(*input.Contact.CompanyName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "company name is required for quote requests")
	}
	if input.People < s.cfg.B2BMinPeople {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quote requests require at least %d people", s.cfg.B2BMinPeople))
	}
	return nil
}
