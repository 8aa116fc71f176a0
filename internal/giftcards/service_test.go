package giftcards

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

func setupGiftCardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	cards := `
CREATE TABLE IF NOT EXISTS gift_cards (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  initial_amount TEXT NOT NULL,
  current_balance TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'eur',
  status TEXT NOT NULL DEFAULT 'active',
  expires_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	transactions := `
CREATE TABLE IF NOT EXISTS gift_card_transactions (
  id TEXT PRIMARY KEY,
  gift_card_id TEXT NOT NULL,
  booking_id TEXT,
  amount TEXT NOT NULL,
  balance_before TEXT NOT NULL,
  balance_after TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(cards).Error)
	require.NoError(t, db.Exec(transactions).Error)
	return db
}

func newCard(t *testing.T, db *gorm.DB, code, balance string, status enums.GiftCardStatus, expiresAt *time.Time) *models.GiftCard {
	t.Helper()

	card := &models.GiftCard{
		ID:             uuid.New(),
		Code:           code,
		InitialAmount:  decimal.RequireFromString(balance),
		CurrentBalance: decimal.RequireFromString(balance),
		Currency:       enums.CurrencyEUR,
		Status:         status,
		ExpiresAt:      expiresAt,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func newGiftCardService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "giftcards-test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), logg, nil)
	require.NoError(t, err)
	return svc
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "GIFT-ABC", NormalizeCode("  gift-abc  "))
	assert.Equal(t, "GIFTABC123", NormalizeCode("gift abc 123"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestValidateAcceptsActiveCard(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	newCard(t, db, "GIFT-OK", "50.00", enums.GiftCardStatusActive, nil)
	svc := newGiftCardService(t, db)

	// user-entered casing and spacing still resolves
	card, err := svc.Validate(context.Background(), " gift-ok ")
	require.NoError(t, err)
	assert.Equal(t, "GIFT-OK", card.Code)
	assert.True(t, card.CurrentBalance.Equal(decimal.RequireFromString("50.00")))
}

func TestValidateRejections(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)
	newCard(t, db, "GIFT-DISABLED", "50.00", enums.GiftCardStatusDisabled, nil)
	newCard(t, db, "GIFT-EXPIRED", "50.00", enums.GiftCardStatusActive, &past)
	newCard(t, db, "GIFT-EMPTY", "0.00", enums.GiftCardStatusActive, &future)
	svc := newGiftCardService(t, db)

	cases := []struct {
		name string
		code string
	}{
		{"unknown code", "GIFT-NOPE"},
		{"disabled card", "GIFT-DISABLED"},
		{"expired card", "GIFT-EXPIRED"},
		{"zero balance", "GIFT-EMPTY"},
		{"blank code", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Validate(context.Background(), tc.code)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeGiftCard, appErr.Code())
		})
	}
}

func TestRedeemWritesLedgerAndBalance(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	card := newCard(t, db, "GIFT-LEDGER", "50.00", enums.GiftCardStatusActive, nil)
	svc := newGiftCardService(t, db)
	bookingID := uuid.New()

	txn, err := svc.Redeem(context.Background(), nil, "gift-ledger", decimal.RequireFromString("20.00"), bookingID)
	require.NoError(t, err)

	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, txn.BalanceBefore.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, txn.BalanceAfter.Equal(decimal.RequireFromString("30.00")))
	require.NotNil(t, txn.BookingID)
	assert.Equal(t, bookingID, *txn.BookingID)

	var reloaded models.GiftCard
	require.NoError(t, db.Where("id = ?", card.ID).First(&reloaded).Error)
	assert.True(t, reloaded.CurrentBalance.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, enums.GiftCardStatusActive, reloaded.Status)
}

func TestRedeemToZeroMarksDepleted(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	card := newCard(t, db, "GIFT-LAST", "20.00", enums.GiftCardStatusActive, nil)
	svc := newGiftCardService(t, db)

	_, err := svc.Redeem(context.Background(), nil, "GIFT-LAST", decimal.RequireFromString("20.00"), uuid.New())
	require.NoError(t, err)

	var reloaded models.GiftCard
	require.NoError(t, db.Where("id = ?", card.ID).First(&reloaded).Error)
	assert.True(t, reloaded.CurrentBalance.IsZero())
	assert.Equal(t, enums.GiftCardStatusDepleted, reloaded.Status)

	// a second redemption now fails
	_, err = svc.Redeem(context.Background(), nil, "GIFT-LAST", decimal.RequireFromString("1.00"), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeGiftCard, appErr.Code())
}

func TestRedeemRejectsOverdraw(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	newCard(t, db, "GIFT-SMALL", "10.00", enums.GiftCardStatusActive, nil)
	svc := newGiftCardService(t, db)

	_, err := svc.Redeem(context.Background(), nil, "GIFT-SMALL", decimal.RequireFromString("10.01"), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeGiftCard, appErr.Code())
}

func TestRedeemRejectsNonPositiveAmount(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	svc := newGiftCardService(t, db)

	_, err := svc.Redeem(context.Background(), nil, "GIFT-ANY", decimal.Zero, uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestRedeemRetriesAfterLostSwap(t *testing.T) {
	db := setupGiftCardsTestDB(t)
	newCard(t, db, "GIFT-RACE", "50.00", enums.GiftCardStatusActive, nil)

	repo := &racingRepo{Repository: NewRepository(db), db: db}
	logg := logger.New(logger.Options{ServiceName: "giftcards-test", Output: io.Discard})
	svc, err := NewService(repo, logg, nil)
	require.NoError(t, err)

	txn, err := svc.Redeem(context.Background(), nil, "GIFT-RACE", decimal.RequireFromString("20.00"), uuid.New())
	require.NoError(t, err)

	// the concurrent spend of 10.00 landed first, so this redemption
	// started from 40.00
	assert.True(t, txn.BalanceBefore.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, txn.BalanceAfter.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, 1, repo.interfered)
}

// racingRepo simulates a concurrent redemption landing between the read and
// the first balance swap.
type racingRepo struct {
	Repository
	db         *gorm.DB
	interfered int
}

func (r *racingRepo) WithTx(tx *gorm.DB) Repository {
	return r
}

func (r *racingRepo) CompareAndSetBalance(ctx context.Context, id uuid.UUID, expected, next decimal.Decimal) (bool, error) {
	if r.interfered == 0 {
		r.interfered++
		err := r.db.Model(&models.GiftCard{}).
			Where("id = ?", id).
			Update("current_balance", expected.Sub(decimal.RequireFromString("10.00"))).Error
		if err != nil {
			return false, err
		}
	}
	return r.Repository.CompareAndSetBalance(ctx, id, expected, next)
}
