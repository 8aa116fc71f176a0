package enums

import "fmt"

// GiftCardStatus tracks a stored-value card through its lifecycle.
type GiftCardStatus string

const (
	GiftCardStatusActive   GiftCardStatus = "active"
	GiftCardStatusDepleted GiftCardStatus = "depleted"
	GiftCardStatusExpired  GiftCardStatus = "expired"
	GiftCardStatusDisabled GiftCardStatus = "disabled"
)

var validGiftCardStatuses = []GiftCardStatus{
	GiftCardStatusActive,
	GiftCardStatusDepleted,
	GiftCardStatusExpired,
	GiftCardStatusDisabled,
}

// String implements fmt.Stringer.
func (s GiftCardStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s GiftCardStatus) IsValid() bool {
	for _, candidate := range validGiftCardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseGiftCardStatus converts a raw string into a GiftCardStatus.
func ParseGiftCardStatus(value string) (GiftCardStatus, error) {
	for _, candidate := range validGiftCardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gift card status %q", value)
}
