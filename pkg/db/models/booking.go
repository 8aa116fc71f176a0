package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/types"
)

// Booking records a paid or quoted tour reservation.
type Booking struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TourID           uuid.UUID              `gorm:"column:tour_id;type:uuid;not null;index"`
	Status           enums.BookingStatus    `gorm:"column:status;not null;default:'pending';index"`
	Type             enums.BookingType      `gorm:"column:booking_type;not null;default:'B2C'"`
	City             *string                `gorm:"column:city"`
	TourDatetime     *time.Time             `gorm:"column:tour_datetime;index"`
	TourEnd          *time.Time             `gorm:"column:tour_end"`
	RequestGuide     bool                   `gorm:"column:request_guide;not null;default:false"`
	WeekendFee       bool                   `gorm:"column:weekend_fee;not null;default:false"`
	EveningFee       bool                   `gorm:"column:evening_fee;not null;default:false"`
	ExtraHour        bool                   `gorm:"column:extra_hour;not null;default:false"`
	Subtotal         decimal.Decimal        `gorm:"column:subtotal;type:numeric(10,2);not null;default:0"`
	Discount         decimal.Decimal        `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total            decimal.Decimal        `gorm:"column:total;type:numeric(10,2);not null;default:0"`
	Currency         enums.Currency         `gorm:"column:currency;not null;default:'eur'"`
	GiftCardCode     *string                `gorm:"column:gift_card_code"`
	CheckoutSession  *string                `gorm:"column:checkout_session_id;index"`
	Invitees         types.Invitees         `gorm:"column:invitees;type:jsonb;not null;default:'[]'"`
	Upsells          types.UpsellSelections `gorm:"column:upsells;type:jsonb;not null;default:'[]'"`
	Tour             *Tour                  `gorm:"foreignKey:TourID"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName avoids gorm's default pluralization clashing with the webshop orders table.
func (Booking) TableName() string {
	return "tour_bookings"
}

// IsCancelled reports whether the booking left the active set.
func (b Booking) IsCancelled() bool {
	return b.Status == enums.BookingStatusCancelled
}
