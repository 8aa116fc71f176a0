package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/config"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

type bookingReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) (*models.Booking, error)
}

type sessionRecorder interface {
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
}

// Session is the slice of the hosted checkout session clients act on.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
}

// StartResult carries the booking and, when payment is due, the hosted
// checkout session the customer is redirected to. Session is nil for
// fully-discounted bookings, which pay nothing and settle immediately.
type StartResult struct {
	Booking *models.Booking `json:"booking"`
	Session *Session        `json:"session,omitempty"`
}

// Service drives payment for bookings through hosted checkout sessions.
type Service interface {
	Start(ctx context.Context, bookingID uuid.UUID) (*StartResult, error)
	Confirm(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
}

type service struct {
	sessions   StripeSessionClient
	bookings   bookingReader
	recorder   sessionRecorder
	successURL string
	cancelURL  string
	logg       *logger.Logger
}

func NewService(sessions StripeSessionClient, bookings bookingReader, recorder sessionRecorder, cfg config.StripeConfig, logg *logger.Logger) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session client required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking reader required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("session recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sessions:   sessions,
		bookings:   bookings,
		recorder:   recorder,
		successURL: strings.TrimSpace(cfg.SuccessURL),
		cancelURL:  strings.TrimSpace(cfg.CancelURL),
		logg:       logg,
	}, nil
}

// Start opens a checkout session for a payable booking and records the
// session id. A zero-total booking skips the payment provider entirely.
func (s *service) Start(ctx context.Context, bookingID uuid.UUID) (*StartResult, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	next, payable := paidStatus(booking.Status)
	if !payable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("booking in status %s cannot be paid", booking.Status))
	}

	if booking.Total.IsZero() {
		updated, err := s.bookings.UpdateStatus(ctx, booking.ID, next)
		if err != nil {
			return nil, err
		}
		s.logg.Info(s.logg.WithBookingID(ctx, booking.ID.String()), "zero-total booking settled without payment")
		return &StartResult{Booking: updated}, nil
	}

	sess, err := s.sessions.Create(ctx, s.buildSessionParams(booking))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating checkout session")
	}

	if err := s.recorder.SetCheckoutSession(ctx, booking.ID, sess.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording checkout session")
	}
	booking.CheckoutSession = &sess.ID

	s.logg.Info(s.logg.WithBookingID(ctx, booking.ID.String()), "checkout session created")
	return &StartResult{
		Booking: booking,
		Session: &Session{ID: sess.ID, URL: sess.URL, PaymentStatus: string(sess.PaymentStatus)},
	}, nil
}

// Confirm checks the stored session with the payment provider and advances
// the booking once the session reports paid.
func (s *service) Confirm(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CheckoutSession == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking has no checkout session")
	}

	next, payable := paidStatus(booking.Status)
	if !payable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("booking in status %s cannot be confirmed", booking.Status))
	}

	sess, err := s.sessions.Get(ctx, *booking.CheckoutSession, &stripe.CheckoutSessionParams{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching checkout session")
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("checkout session is %s, not paid", sess.PaymentStatus))
	}

	updated, err := s.bookings.UpdateStatus(ctx, booking.ID, next)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithBookingID(ctx, booking.ID.String()), "payment confirmed")
	return updated, nil
}

func (s *service) buildSessionParams(booking *models.Booking) *stripe.CheckoutSessionParams {
	title := "Tour booking"
	if booking.Tour != nil {
		title = booking.Tour.Title
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(booking.ID.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(booking.Currency.String()),
				UnitAmount: stripe.Int64(toCents(booking.Total)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(title),
				},
			},
		}},
	}
	params.AddMetadata("booking_id", booking.ID.String())
	params.AddMetadata("booking_type", booking.Type.String())

	if s.successURL != "" {
		params.SuccessURL = stripe.String(s.successURL)
	}
	if s.cancelURL != "" {
		params.CancelURL = stripe.String(s.cancelURL)
	}
	if len(booking.Invitees) > 0 && booking.Invitees[0].Email != "" {
		params.CustomerEmail = stripe.String(booking.Invitees[0].Email)
	}
	return params
}

// paidStatus maps a payable lifecycle state to the state a successful
// payment lands it in.
func paidStatus(current enums.BookingStatus) (enums.BookingStatus, bool) {
	switch current {
	case enums.BookingStatusPending:
		return enums.BookingStatusConfirmed, true
	case enums.BookingStatusQuoteAccepted:
		return enums.BookingStatusQuotePaid, true
	default:
		return "", false
	}
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
