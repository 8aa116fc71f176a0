package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Tour").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*BookingList, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if filters.TourID != nil {
		query = query.Where("tour_id = ?", *filters.TourID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("booking_type = ?", *filters.Type)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Booking
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &BookingList{Bookings: rows}
	if len(rows) > limit {
		list.Bookings = rows[:limit]
		last := list.Bookings[limit-1]
		list.NextCursor = pagination.NextCursor(last.CreatedAt, last.ID)
	}
	return list, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) SetCheckoutSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("checkout_session_id", sessionID).Error
}

// FindConflict returns the earliest non-cancelled booking for the same tour on
// the same calendar day, or nil when the day is clear. The window is
// [00:00, next day 00:00) in the supplied day's location.
func (r *repository) FindConflict(ctx context.Context, tourID uuid.UUID, day time.Time) (*models.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("tour_id = ?", tourID).
		Where("status <> ?", enums.BookingStatusCancelled).
		Where("tour_datetime >= ? AND tour_datetime < ?", dayStart, dayEnd).
		Order("tour_datetime ASC").
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}
