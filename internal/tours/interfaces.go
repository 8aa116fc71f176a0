package tours

import (
	"context"

	"github.com/google/uuid"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
)

// Repository defines persistence operations for the tour catalog. The
// catalog is maintained by migrations and back-office tooling, so the
// service surface is read only.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tour, error)
	ListActive(ctx context.Context, city string) ([]models.Tour, error)
}
