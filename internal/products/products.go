package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/internal/pricing"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

// ShippingFee is always zero for tour-attached upsells: products are handed
// over at the tour itself.
var ShippingFee = decimal.Zero

// SelectionInput is a product picked on the booking form.
type SelectionInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// Repository defines persistence operations for the upsell catalog. Like
// the tour catalog, products are maintained by migrations and back-office
// tooling, so the service surface is read only.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("title ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Service exposes catalog reads and selection pricing for upsells.
type Service interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ResolveSelections(ctx context.Context, selections []SelectionInput) ([]pricing.UpsellLineItem, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the product catalog service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.Product, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// ResolveSelections turns form selections into priced line items using the
// current catalog prices, never the prices sent by the client.
func (s *service) ResolveSelections(ctx context.Context, selections []SelectionInput) ([]pricing.UpsellLineItem, error) {
	items := make([]pricing.UpsellLineItem, 0, len(selections))
	for _, selection := range selections {
		if selection.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "upsell quantity must be at least 1")
		}
		product, err := s.Get(ctx, selection.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %q is no longer available", product.Title))
		}
		items = append(items, pricing.UpsellLineItem{
			ProductID: product.ID.String(),
			UnitPrice: product.UnitPrice,
			Quantity:  selection.Quantity,
		})
	}
	return items, nil
}
