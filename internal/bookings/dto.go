package bookings

import (
	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

// CreateInput carries everything needed to price and persist a booking.
type CreateInput struct {
	TourID       uuid.UUID
	Type         enums.BookingType
	Date         string // 2006-01-02
	Time         string // 15:04
	People       int
	Invitee      types.Invitee
	Fees         pricing.FeeSelection
	Upsells      []pricing.UpsellLineItem
	GiftCardCode string
}

// CreateResult bundles the stored booking with its price breakdown and the
// advisory same-day conflict, if one exists.
type CreateResult struct {
	Booking  *models.Booking `json:"booking"`
	Quote    pricing.Quote   `json:"quote"`
	Conflict *models.Booking `json:"conflict,omitempty"`
}
