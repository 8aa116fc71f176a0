package enums

import "fmt"

// TourKind distinguishes how start times are generated for a tour.
type TourKind string

const (
	// TourKindFixedSlot is a recurring community tour with a single
	// schedule-fixed start time.
	TourKindFixedSlot TourKind = "fixed_slot"
	// TourKindCustomInterval is a made-to-order tour bookable on any
	// half-hour start.
	TourKindCustomInterval TourKind = "custom_interval"
	// TourKindRegular is a fixed-catalog tour bookable back to back within
	// the business-hours window.
	TourKindRegular TourKind = "regular"
)

var validTourKinds = []TourKind{
	TourKindFixedSlot,
	TourKindCustomInterval,
	TourKindRegular,
}

// String implements fmt.Stringer.
func (k TourKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is recognized.
func (k TourKind) IsValid() bool {
	for _, candidate := range validTourKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTourKind converts a raw string into a TourKind.
func ParseTourKind(value string) (TourKind, error) {
	for _, candidate := range validTourKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tour kind %q", value)
}
