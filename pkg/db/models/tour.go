package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// Tour represents a catalog entry bookable by customers or quoted to businesses.
type Tour struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug            string          `gorm:"column:slug;not null;uniqueIndex"`
	Title           string          `gorm:"column:title;not null"`
	Description     *string         `gorm:"column:description"`
	City            string          `gorm:"column:city;not null;index"`
	Kind            enums.TourKind  `gorm:"column:kind;not null;default:'regular'"`
	PricePerPerson  decimal.Decimal `gorm:"column:price_per_person;type:numeric(10,2);not null"`
	DurationMinutes int             `gorm:"column:duration_minutes;not null;default:120"`
	Languages       pq.StringArray  `gorm:"column:languages;type:text[];not null;default:ARRAY['nl']::text[]"`
	MinPeople       int             `gorm:"column:min_people;not null;default:1"`
	MaxPeople       int             `gorm:"column:max_people;not null;default:50"`
	IsActive        bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsCustom reports whether the tour allows the made-to-order surcharges.
func (t Tour) IsCustom() bool {
	return t.Kind == enums.TourKindCustomInterval
}

// IsFixedSlot reports whether the tour runs on a single recurring slot.
func (t Tour) IsFixedSlot() bool {
	return t.Kind == enums.TourKindFixedSlot
}
