package controllers

import (
	"errors"
	"net/http"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	"github.com/r0892111/beroepsbelgWeb-sub000/internal/availability"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

type availabilityRequest struct {
	Date              string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time              string `json:"time" validate:"omitempty,datetime=15:04"`
	DurationMinutes   int    `json:"durationMinutes" validate:"omitempty,min=1"`
	RequestNamedGuide bool   `json:"requestNamedGuide"`
}

type availabilityResponse struct {
	availability.State
	Checked bool `json:"checked"`
}

// CheckAvailability consults the guide calendar for the requested window.
// Incomplete selections come back unchecked rather than as errors so the
// booking form can poll as the visitor fills it in. The named-guide flag
// is echoed back only when availability is known-true for this exact
// selection; the form drops the surcharge otherwise.
func CheckAvailability(checker *availability.Checker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability checker unavailable"))
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := availability.Params{
			Date:            payload.Date,
			Time:            payload.Time,
			DurationMinutes: payload.DurationMinutes,
		}

		// Stateless endpoint, so the tracker lives per request. Its selection
		// match is the invariant that matters when a caller holds one across
		// requests, as the booking form does.
		tracker := availability.NewTracker()
		tracker.SetSelection(params)

		result, err := checker.Check(r.Context(), params)
		if err != nil && !errors.Is(err, availability.ErrCheckFailed) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		// The calendar being down reads as unavailable, not as a 5xx.
		tracker.ApplyResult(result)
		tracker.RequestGuide(payload.RequestNamedGuide)

		responses.WriteSuccess(w, availabilityResponse{
			State:   tracker.Snapshot(),
			Checked: result.Checked,
		})
	}
}
