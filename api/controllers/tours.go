package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	toursvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/tours"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

// ListTours returns the active catalog, optionally narrowed by city.
func ListTours(svc toursvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		city := validators.SanitizeString(r.URL.Query().Get("city"), 120)
		tours, err := svc.List(r.Context(), city)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, tours)
	}
}

// GetTour resolves a tour by id, falling back to slug lookup for
// marketing URLs.
func GetTour(svc toursvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		raw := chi.URLParam(r, "tourID")
		if id, err := uuid.Parse(raw); err == nil {
			tour, err := svc.Get(r.Context(), id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, tour)
			return
		}

		tour, err := svc.GetBySlug(r.Context(), validators.SanitizeString(raw, 200))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tour)
	}
}

// TourSlots lists the selectable start times for a tour.
func TourSlots(svc toursvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tour service unavailable"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "tourID"), "tourID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		extraHour, err := validators.ParseQueryBool(r, "extraHour")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slots, err := svc.Slots(r.Context(), id, extraHour)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"slots": slots})
	}
}
