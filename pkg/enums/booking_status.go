package enums

import "fmt"

// BookingStatus tracks a booking through payment and the B2B quote flow.
type BookingStatus string

const (
	BookingStatusPending       BookingStatus = "pending"
	BookingStatusConfirmed     BookingStatus = "confirmed"
	BookingStatusCancelled     BookingStatus = "cancelled"
	BookingStatusQuotePending  BookingStatus = "quote_pending"
	BookingStatusQuoteSent     BookingStatus = "quote_sent"
	BookingStatusQuoteAccepted BookingStatus = "quote_accepted"
	BookingStatusQuotePaid     BookingStatus = "quote_paid"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusQuotePending,
	BookingStatusQuoteSent,
	BookingStatusQuoteAccepted,
	BookingStatusQuotePaid,
}

// String implements fmt.Stringer.
func (s BookingStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsQuote reports whether the status belongs to the B2B quote lifecycle.
func (s BookingStatus) IsQuote() bool {
	switch s {
	case BookingStatusQuotePending, BookingStatusQuoteSent, BookingStatusQuoteAccepted, BookingStatusQuotePaid:
		return true
	}
	return false
}

// ParseBookingStatus converts a raw string into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
