package enums

import "fmt"

// BookingType separates direct customer bookings from business quote requests.
type BookingType string

const (
	BookingTypeB2C BookingType = "B2C"
	BookingTypeB2B BookingType = "B2B"
)

var validBookingTypes = []BookingType{
	BookingTypeB2C,
	BookingTypeB2B,
}

// String implements fmt.Stringer.
func (t BookingType) String() string {
	return string(t)
}

// IsValid reports whether the type is recognized.
func (t BookingType) IsValid() bool {
	for _, candidate := range validBookingTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseBookingType converts a raw string into a BookingType.
func ParseBookingType(value string) (BookingType, error) {
	for _, candidate := range validBookingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking type %q", value)
}
