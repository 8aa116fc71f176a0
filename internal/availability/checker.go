package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/calendar"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/metrics"
)

// ErrCheckFailed marks lookups that could not be completed. Callers must
// treat the guide as unavailable until a later check succeeds.
var ErrCheckFailed = errors.New("availability check failed")

// FreeBusyClient is the calendar surface the checker consumes.
type FreeBusyClient interface {
	FreeBusy(ctx context.Context, windowStart, windowEnd time.Time) ([]calendar.BusyInterval, error)
}

// Params identifies one availability question. Results are only meaningful
// for the exact params they were requested with.
type Params struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (p Params) complete() bool {
	return p.Date != "" && p.Time != "" && p.DurationMinutes > 0
}

// Result is the outcome of one availability check.
type Result struct {
	Params    Params `json:"params"`
	Available bool   `json:"available"`
	// Checked is false when missing preconditions suppressed the lookup.
	Checked bool `json:"checked"`
}

// Checker answers whether the guide calendar is free for a requested window.
type Checker struct {
	client  FreeBusyClient
	loc     *time.Location
	logg    *logger.Logger
	metrics *metrics.BookingMetrics
}

// NewChecker wires the checker. The metrics handle may be nil.
func NewChecker(client FreeBusyClient, loc *time.Location, logg *logger.Logger, m *metrics.BookingMetrics) (*Checker, error) {
	if client == nil {
		return nil, errors.New("freebusy client is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{client: client, loc: loc, logg: logg, metrics: m}, nil
}

// Check resolves availability for the given params. Incomplete params skip
// the remote call and report unavailable without error. Any failure along
// the way also reports unavailable, wrapped in ErrCheckFailed.
func (c *Checker) Check(ctx context.Context, params Params) (Result, error) {
	result := Result{Params: params}
	if !params.complete() {
		return result, nil
	}
	result.Checked = true

	start, err := time.ParseInLocation("2006-01-02 15:04", params.Date+" "+params.Time, c.loc)
	if err != nil {
		c.observe("invalid_params", 0)
		return result, fmt.Errorf("%w: parse window start: %w", ErrCheckFailed, err)
	}
	end := start.Add(time.Duration(params.DurationMinutes) * time.Minute)

	began := time.Now()
	busy, err := c.client.FreeBusy(ctx, start, end)
	elapsed := time.Since(began)
	if err != nil {
		c.observe("error", elapsed)
		c.logg.Warn(ctx, fmt.Sprintf("freebusy lookup failed, treating window as busy: %v", err))
		return result, fmt.Errorf("%w: %w", ErrCheckFailed, err)
	}

	result.Available = true
	for _, interval := range busy {
		if interval.Overlaps(start, end) {
			result.Available = false
			break
		}
	}

	if result.Available {
		c.observe("available", elapsed)
	} else {
		c.observe("busy", elapsed)
	}
	return result, nil
}

func (c *Checker) observe(outcome string, elapsed time.Duration) {
	if c.metrics != nil {
		c.metrics.ObserveAvailabilityCheck(outcome, elapsed)
	}
}
