package tours

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tour catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var tour models.Tour
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *repository) ListActive(ctx context.Context, city string) ([]models.Tour, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var list []models.Tour
	if err := query.Order("title ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
