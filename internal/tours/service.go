package tours

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/timeslots"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

// Service exposes catalog reads and slot generation for a tour.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tour, error)
	List(ctx context.Context, city string) ([]models.Tour, error)
	Slots(ctx context.Context, tourID uuid.UUID, extraHour bool) ([]timeslots.Slot, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the tour catalog service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tours repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tour")
	}
	return tour, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	tour, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading tour by slug")
	}
	return tour, nil
}

func (s *service) List(ctx context.Context, city string) ([]models.Tour, error) {
	list, err := s.repo.ListActive(ctx, city)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tours")
	}
	return list, nil
}

// Slots generates the bookable start times for a tour, applying the
// extra-hour option before generation so labels reflect the real end time.
func (s *service) Slots(ctx context.Context, tourID uuid.UUID, extraHour bool) ([]timeslots.Slot, error) {
	tour, err := s.Get(ctx, tourID)
	if err != nil {
		return nil, err
	}

	duration := timeslots.AdjustDuration(tour.DurationMinutes, extraHour, tour.Kind)
	slots, err := timeslots.Generate(tour.Kind, duration)
	if err != nil {
		if errors.Is(err, timeslots.ErrInvalidDuration) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tour has no valid duration")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating slots")
	}
	return slots, nil
}
