package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
)

// ListFilters narrows admin booking lists.
type ListFilters struct {
	TourID *uuid.UUID
	Status *enums.BookingStatus
	Type   *enums.BookingType
}

// BookingList is one cursor page of bookings.
type BookingList struct {
	Bookings   []models.Booking `json:"bookings"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Repository defines persistence operations for tour bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error
	FindConflict(ctx context.Context, tourID uuid.UUID, day time.Time) (*models.Booking, error)
}
