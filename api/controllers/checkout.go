package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	checkoutsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/checkout"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

// StartCheckout opens a payment session for a booking.
func StartCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Start(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ConfirmCheckout verifies payment with the provider and advances the booking.
func ConfirmCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "bookingID"), "bookingID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Confirm(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, booking)
	}
}
