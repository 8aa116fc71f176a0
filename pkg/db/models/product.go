package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// Product is a webshop item offered as a checkout upsell alongside a booking.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	Title       string          `gorm:"column:title;not null"`
	Description *string         `gorm:"column:description"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Currency    enums.Currency  `gorm:"column:currency;not null;default:'eur'"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true;index"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
