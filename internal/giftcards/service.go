package giftcards

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/db/models"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/metrics"
)

// casAttempts bounds the optimistic balance swap retries before giving up.
const casAttempts = 3

// Service validates and redeems gift cards.
type Service interface {
	Validate(ctx context.Context, code string) (*models.GiftCard, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, amount decimal.Decimal, bookingID uuid.UUID) (*models.GiftCardTransaction, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.BookingMetrics
	now     func() time.Time
}

// NewService builds the gift card service. The metrics handle may be nil.
func NewService(repo Repository, logg *logger.Logger, m *metrics.BookingMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("gift card repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, metrics: m, now: time.Now}, nil
}

// NormalizeCode canonicalizes user-entered codes: surrounding whitespace and
// inner spaces are dropped and letters are uppercased.
func NormalizeCode(code string) string {
	trimmed := strings.TrimSpace(code)
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	return strings.ToUpper(trimmed)
}

// Validate checks that a card can be applied to an order: it must exist, be
// active, hold a positive balance and not be past its expiry.
func (s *service) Validate(ctx context.Context, code string) (*models.GiftCard, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, s.reject("empty", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card code is required"))
	}

	card, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.reject("not_found", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card not found"))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading gift card")
	}

	if card.Status != enums.GiftCardStatusActive {
		return nil, s.reject("inactive", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card is not active").
			WithDetails(map[string]string{"status": card.Status.String()}))
	}
	if card.IsExpired(s.now()) {
		return nil, s.reject("expired", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card has expired"))
	}
	if !card.CurrentBalance.IsPositive() {
		return nil, s.reject("depleted", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card has no remaining balance"))
	}

	return card, nil
}

// Redeem deducts amount from the card balance with an optimistic swap and
// writes a ledger row. A concurrent redemption triggers a re-read; the
// amount must still fit the remaining balance.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string, amount decimal.Decimal, bookingID uuid.UUID) (*models.GiftCardTransaction, error) {
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redemption amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	normalized := NormalizeCode(code)

	for attempt := 0; attempt < casAttempts; attempt++ {
		card, err := repo.FindByCode(ctx, normalized)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, s.reject("not_found", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card not found"))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading gift card")
		}
		if card.Status != enums.GiftCardStatusActive {
			return nil, s.reject("inactive", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card is not active"))
		}
		if amount.GreaterThan(card.CurrentBalance) {
			return nil, s.reject("insufficient", pkgerrors.New(pkgerrors.CodeGiftCard, "gift card balance is insufficient").
				WithDetails(map[string]string{"balance": card.CurrentBalance.String()}))
		}

		next := card.CurrentBalance.Sub(amount)
		won, err := repo.CompareAndSetBalance(ctx, card.ID, card.CurrentBalance, next)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating gift card balance")
		}
		if !won {
			// lost the race, re-read and retry
			continue
		}

		if next.IsZero() {
			if err := repo.UpdateStatus(ctx, card.ID, enums.GiftCardStatusDepleted); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking gift card depleted")
			}
		}

		txn := &models.GiftCardTransaction{
			ID:            uuid.New(),
			GiftCardID:    card.ID,
			BookingID:     &bookingID,
			Amount:        amount,
			BalanceBefore: card.CurrentBalance,
			BalanceAfter:  next,
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			// one ledger row per card and booking
			if db.IsUniqueViolation(err, "uq_gift_card_txn_booking") {
				return nil, s.reject("duplicate", pkgerrors.New(pkgerrors.CodeConflict, "gift card already redeemed for this booking"))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing gift card ledger")
		}

		if s.metrics != nil {
			s.metrics.IncRedemption("accepted")
		}
		s.logg.Info(ctx, fmt.Sprintf("gift card redeemed for %s", amount.StringFixed(2)))
		return txn, nil
	}

	return nil, pkgerrors.New(pkgerrors.CodeConflict, "gift card is being redeemed concurrently, try again")
}

func (s *service) reject(outcome string, err *pkgerrors.Error) error {
	if s.metrics != nil {
		s.metrics.IncRedemption("rejected_" + outcome)
	}
	return err
}
