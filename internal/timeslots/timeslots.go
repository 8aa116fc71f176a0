package timeslots

import (
	"errors"
	"fmt"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// ErrInvalidDuration is returned for non-positive tour durations.
var ErrInvalidDuration = errors.New("duration must be positive")

// Minute offsets from midnight bounding each generation window.
const (
	fixedSlotStart     = 14 * 60
	customWindowStart  = 9 * 60
	customWindowEnd    = 20 * 60
	customStepMinutes  = 30
	regularWindowStart = 10 * 60
	regularWindowEnd   = 18 * 60
	extraHourMinutes   = 60
)

// Slot is one bookable start time within a day.
type Slot struct {
	StartOffsetMinutes int    `json:"startOffsetMinutes"`
	Label              string `json:"label"`
}

// AdjustDuration applies the extra-hour option. Only made-to-order tours can
// be extended; for every other kind the duration passes through unchanged.
func AdjustDuration(durationMinutes int, extraHour bool, kind enums.TourKind) int {
	if extraHour && kind == enums.TourKindCustomInterval {
		return durationMinutes + extraHourMinutes
	}
	return durationMinutes
}

// Generate returns the bookable start times for a tour kind and duration.
//
// Fixed-slot tours have a single schedule-fixed start. Made-to-order tours
// start on any half hour from 09:00 through 20:00 inclusive; the last start
// stays bookable regardless of duration. Regular tours run back to back from
// 10:00 and must finish by 18:00, which can legitimately yield no slots.
func Generate(kind enums.TourKind, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	switch kind {
	case enums.TourKindFixedSlot:
		return []Slot{{
			StartOffsetMinutes: fixedSlotStart,
			Label:              formatOffset(fixedSlotStart),
		}}, nil

	case enums.TourKindCustomInterval:
		slots := make([]Slot, 0, (customWindowEnd-customWindowStart)/customStepMinutes+1)
		for start := customWindowStart; start <= customWindowEnd; start += customStepMinutes {
			slots = append(slots, Slot{
				StartOffsetMinutes: start,
				Label:              fmt.Sprintf("%s - %s", formatOffset(start), formatOffset(start+durationMinutes)),
			})
		}
		return slots, nil

	case enums.TourKindRegular:
		slots := []Slot{}
		for start := regularWindowStart; start+durationMinutes <= regularWindowEnd; start += durationMinutes {
			slots = append(slots, Slot{
				StartOffsetMinutes: start,
				Label:              formatOffset(start),
			})
		}
		return slots, nil

	default:
		return nil, fmt.Errorf("unsupported tour kind %q", kind)
	}
}

func formatOffset(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
