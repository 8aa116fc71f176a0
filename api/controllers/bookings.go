package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	bookingsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/bookings"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	productsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/products"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

type contactRequest struct {
	Name            string               `json:"name" validate:"required"`
	Email           string               `json:"email" validate:"required,email"`
	Phone           *string              `json:"phone,omitempty"`
	Language        string               `json:"language,omitempty"`
	SpecialRequests *string              `json:"special_requests,omitempty"`
	CompanyName     *string              `json:"company_name,omitempty"`
	VATNumber       *string              `json:"vat_number,omitempty"`
	BillingAddress  *string              `json:"billing_address,omitempty"`
	CustomAnswers   *types.CustomAnswers `json:"custom_answers,omitempty"`
}

func (c contactRequest) toInvitee() types.Invitee {
	return types.Invitee{
		Name:            validators.SanitizeString(c.Name, 200),
		Email:           validators.SanitizeString(c.Email, 254),
		Phone:           c.Phone,
		Language:        c.Language,
		SpecialRequests: c.SpecialRequests,
		CompanyName:     c.CompanyName,
		VATNumber:       c.VATNumber,
		BillingAddress:  c.BillingAddress,
		CustomAnswers:   c.CustomAnswers,
	}
}

type feeSelectionRequest struct {
	NamedGuide bool `json:"named_guide"`
	ExtraHour  bool `json:"extra_hour"`
	Weekend    bool `json:"weekend"`
	Evening    bool `json:"evening"`
}

func (f feeSelectionRequest) toSelection() pricing.FeeSelection {
	return pricing.FeeSelection{
		NamedGuide: f.NamedGuide,
		ExtraHour:  f.ExtraHour,
		Weekend:    f.Weekend,
		Evening:    f.Evening,
	}
}

type upsellRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type createBookingRequest struct {
	TourID       string              `json:"tour_id" validate:"required,uuid"`
	Type         string              `json:"type" validate:"omitempty,oneof=B2C B2B"`
	Date         string              `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string              `json:"time" validate:"required,datetime=15:04"`
	People       int                 `json:"people" validate:"required,min=1"`
	Contact      contactRequest      `json:"contact" validate:"required"`
	Fees         feeSelectionRequest `json:"fees"`
	Upsells      []upsellRequest     `json:"upsells" validate:"omitempty,dive"`
	GiftCardCode string              `json:"gift_card_code,omitempty"`
}

// CreateBooking prices and stores a booking. Upsell prices always come from
// the catalog, never the request.
func CreateBooking(svc bookingsvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var payload createBookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tourID, err := uuid.Parse(payload.TourID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tour id"))
			return
		}

		bookingType := enums.BookingTypeB2C
		if payload.Type != "" {
			bookingType, err = enums.ParseBookingType(payload.Type)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking type"))
				return
			}
		}

		upsells, err := resolveUpsells(r, products, payload.Upsells)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), bookingsvc.CreateInput{
			TourID:       tourID,
			Type:         bookingType,
			Date:         payload.Date,
			Time:         payload.Time,
			People:       payload.People,
			Invitee:      payload.Contact.toInvitee(),
			Fees:         payload.Fees.toSelection(),
			Upsells:      upsells,
			GiftCardCode: payload.GiftCardCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func resolveUpsells(r *http.Request, products productsvc.Service, requested []upsellRequest) ([]pricing.UpsellLineItem, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable")
	}

	selections := make([]productsvc.SelectionInput, 0, len(requested))
	for _, item := range requested {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		selections = append(selections, productsvc.SelectionInput{ProductID: id, Quantity: item.Quantity})
	}
	return products.ResolveSelections(r.Context(), selections)
}

// ListBookings pages through bookings for the back office.
func ListBookings(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func parseListFilters(r *http.Request) (bookingsvc.ListFilters, error) {
	var filters bookingsvc.ListFilters

	if raw := r.URL.Query().Get("tourId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": "tourId"})
		}
		filters.TourID = &id
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := enums.BookingStatus(raw)
		if !status.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown booking status").WithDetails(map[string]any{"field": "status"})
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		bookingType, err := enums.ParseBookingType(raw)
		if err != nil {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "unknown booking type").WithDetails(map[string]any{"field": "type"})
		}
		filters.Type = &bookingType
	}

	return filters, nil
}

// GetBooking returns a single booking with its tour.
func GetBooking(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, booking)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus moves a booking along its lifecycle.
func UpdateBookingStatus(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.UpdateStatus(r.Context(), id, enums.BookingStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, booking)
	}
}
