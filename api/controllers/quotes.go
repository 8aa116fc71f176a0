package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	productsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/products"
	quotesvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/quotes"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

type quoteRequest struct {
	TourID  string              `json:"tour_id" validate:"required,uuid"`
	Date    string              `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string              `json:"time" validate:"required,datetime=15:04"`
	People  int                 `json:"people" validate:"required,min=1"`
	Contact contactRequest      `json:"contact" validate:"required"`
	Fees    feeSelectionRequest `json:"fees"`
	Upsells []upsellRequest     `json:"upsells" validate:"omitempty,dive"`
}

func (q quoteRequest) toInput(upsells []pricing.UpsellLineItem) (quotesvc.RequestInput, error) {
	tourID, err := uuid.Parse(q.TourID)
	if err != nil {
		return quotesvc.RequestInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tour id")
	}
	return quotesvc.RequestInput{
		TourID:  tourID,
		Date:    q.Date,
		Time:    q.Time,
		People:  q.People,
		Contact: q.Contact.toInvitee(),
		Fees:    q.Fees.toSelection(),
		Upsells: upsells,
	}, nil
}

// PreviewQuote prices a group request without filing it.
func PreviewQuote(svc quotesvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		input, err := decodeQuoteRequest(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, preview)
	}
}

// RequestQuote files a group booking request for sales follow-up.
func RequestQuote(svc quotesvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		input, err := decodeQuoteRequest(r, products)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Request(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func decodeQuoteRequest(r *http.Request, products productsvc.Service) (quotesvc.RequestInput, error) {
	var payload quoteRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return quotesvc.RequestInput{}, err
	}

	upsells, err := resolveUpsells(r, products, payload.Upsells)
	if err != nil {
		return quotesvc.RequestInput{}, err
	}

	return payload.toInput(upsells)
}
