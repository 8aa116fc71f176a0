package giftcards

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// Repository defines persistence operations for gift cards and their ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.GiftCard, error)
	// CompareAndSetBalance updates the balance only when the stored value
	// still matches expected. Reports whether the swap won.
	CompareAndSetBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.GiftCardStatus) error
	CreateTransaction(ctx context.Context, txn *models.GiftCardTransaction) error
}
