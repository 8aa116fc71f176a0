package giftcards

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gift card repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.GiftCard, error) {
	var card models.GiftCard
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *repository) CompareAndSetBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.GiftCard{}).
		Where("id = ? AND current_balance = ?", id, expected).
		Update("current_balance", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.GiftCardStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.GiftCard{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.GiftCardTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}
