package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// GiftCard is a stored-value code redeemable against bookings and webshop orders.
type GiftCard struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string               `gorm:"column:code;not null;uniqueIndex"`
	InitialAmount  decimal.Decimal      `gorm:"column:initial_amount;type:numeric(10,2);not null"`
	CurrentBalance decimal.Decimal      `gorm:"column:current_balance;type:numeric(10,2);not null"`
	Currency       enums.Currency       `gorm:"column:currency;not null;default:'eur'"`
	Status         enums.GiftCardStatus `gorm:"column:status;not null;default:'active';index"`
	ExpiresAt      *time.Time           `gorm:"column:expires_at"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// IsExpired reports whether the card passed its expiry at the given instant.
func (g GiftCard) IsExpired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

// GiftCardTransaction is the ledger row written for every redemption.
type GiftCardTransaction struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GiftCardID    uuid.UUID       `gorm:"column:gift_card_id;type:uuid;not null;index"`
	BookingID     *uuid.UUID      `gorm:"column:booking_id;type:uuid"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"column:balance_before;type:numeric(10,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"column:balance_after;type:numeric(10,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
