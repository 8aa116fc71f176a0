package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookingsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/bookings"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	productsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/products"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

func testControllerLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

type stubBookingService struct {
	createInput  *bookingsvc.CreateInput
	createResult *bookingsvc.CreateResult
	createErr    error
	booking      *models.Booking
	statusSet    enums.BookingStatus
}

func (s *stubBookingService) Create(_ context.Context, input bookingsvc.CreateInput) (*bookingsvc.CreateResult, error) {
	s.createInput = &input
	return s.createResult, s.createErr
}

func (s *stubBookingService) Get(context.Context, uuid.UUID) (*models.Booking, error) {
	if s.booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	return s.booking, nil
}

func (s *stubBookingService) List(context.Context, pagination.Params, bookingsvc.ListFilters) (*bookingsvc.BookingList, error) {
	return &bookingsvc.BookingList{}, nil
}

func (s *stubBookingService) UpdateStatus(_ context.Context, _ uuid.UUID, status enums.BookingStatus) (*models.Booking, error) {
	s.statusSet = status
	if s.booking == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
	}
	s.booking.Status = status
	return s.booking, nil
}

func (s *stubBookingService) FindConflict(context.Context, uuid.UUID, time.Time) (*models.Booking, error) {
	return nil, nil
}

type stubProductService struct {
	items []pricing.UpsellLineItem
	err   error
}

func (s *stubProductService) List(context.Context) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductService) Get(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductService) ResolveSelections(context.Context, []productsvc.SelectionInput) ([]pricing.UpsellLineItem, error) {
	return s.items, s.err
}

func createBookingBody(tourID uuid.UUID) string {
	return `{
		"tour_id": "` + tourID.String() + `",
		"date": "2026-09-18",
		"time": "14:00",
		"people": 4,
		"contact": {"name": "Jan Peeters", "email": "jan@example.be"}
	}`
}

func TestCreateBooking(t *testing.T) {
	logg := testControllerLogger()
	tourID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubBookingService{
			createResult: &bookingsvc.CreateResult{
				Booking: &models.Booking{ID: uuid.New(), Status: enums.BookingStatusPending},
				Quote:   pricing.Quote{Total: decimal.RequireFromString("99.80")},
			},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(createBookingBody(tourID)))
		rec := httptest.NewRecorder()
		CreateBooking(stub, &stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.createInput == nil {
			t.Fatalf("expected service invocation")
		}
		if stub.createInput.Type != enums.BookingTypeB2C {
			t.Fatalf("expected default B2C type, got %s", stub.createInput.Type)
		}
		if stub.createInput.Invitee.Name != "Jan Peeters" {
			t.Fatalf("unexpected invitee %+v", stub.createInput.Invitee)
		}
	})

	t.Run("missing contact", func(t *testing.T) {
		body := `{"tour_id": "` + tourID.String() + `", "date": "2026-09-18", "time": "14:00", "people": 4, "contact": {"name": "Jan"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateBooking(&stubBookingService{}, &stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := `{"tour_id": "` + tourID.String() + `", "surprise": true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateBooking(&stubBookingService{}, &stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
	})

	t.Run("gift card rejection surfaces", func(t *testing.T) {
		stub := &stubBookingService{createErr: pkgerrors.New(pkgerrors.CodeGiftCard, "gift card has expired")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(createBookingBody(tourID)))
		rec := httptest.NewRecorder()
		CreateBooking(stub, &stubProductService{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		var payload types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("parse error response: %v", err)
		}
		if payload.Error.Code != string(pkgerrors.CodeGiftCard) {
			t.Fatalf("expected gift card code got %s", payload.Error.Code)
		}
		if payload.Error.Message != "gift card has expired" {
			t.Fatalf("expected passthrough message got %q", payload.Error.Message)
		}
	})

	t.Run("upsell resolution failure blocks creation", func(t *testing.T) {
		products := &stubProductService{err: pkgerrors.New(pkgerrors.CodeValidation, "product \"Retired Mug\" is no longer available")}
		stub := &stubBookingService{}
		body := `{
			"tour_id": "` + tourID.String() + `",
			"date": "2026-09-18",
			"time": "14:00",
			"people": 4,
			"contact": {"name": "Jan Peeters", "email": "jan@example.be"},
			"upsells": [{"product_id": "` + uuid.NewString() + `", "quantity": 1}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateBooking(stub, products, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if stub.createInput != nil {
			t.Fatalf("booking service must not run when upsells are invalid")
		}
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	logg := testControllerLogger()
	booking := &models.Booking{ID: uuid.New(), Status: enums.BookingStatusPending}
	stub := &stubBookingService{booking: booking}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("bookingID", booking.ID.String())
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/"+booking.ID.String()+"/status", strings.NewReader(`{"status":"confirmed"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	UpdateBookingStatus(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.statusSet != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed got %s", stub.statusSet)
	}
}

func TestGetBookingInvalidID(t *testing.T) {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("bookingID", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/not-a-uuid", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	GetBooking(&stubBookingService{}, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListBookingsRejectsBadFilters(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?status=unheard-of", nil)
	rec := httptest.NewRecorder()
	ListBookings(&stubBookingService{}, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
