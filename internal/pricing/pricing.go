package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/enums"
)

// ErrInvalidPricingInput marks inputs the engine refuses to price rather than clamp.
var ErrInvalidPricingInput = errors.New("invalid pricing input")

// TourPricingInput carries the tour attributes pricing depends on.
type TourPricingInput struct {
	Kind           enums.TourKind
	PricePerPerson decimal.Decimal
	People         int
}

// FeeSelection holds the surcharge toggles chosen on the booking form.
// Selection alone does not charge a fee; the tour kind must also be eligible.
type FeeSelection struct {
	NamedGuide bool
	ExtraHour  bool
	Weekend    bool
	Evening    bool
}

// UpsellLineItem is one webshop product attached to the booking.
type UpsellLineItem struct {
	ProductID string
	UnitPrice decimal.Decimal
	Quantity  int
}

// GiftCardRedemption is a validated gift card applied at quote time.
type GiftCardRedemption struct {
	Code    string
	Balance decimal.Decimal
}

// FeeLine is one charged surcharge on the quote.
type FeeLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Quote is the deterministic price breakdown for a booking.
type Quote struct {
	Base        decimal.Decimal `json:"base"`
	Fees        []FeeLine       `json:"fees"`
	FeeTotal    decimal.Decimal `json:"feeTotal"`
	UpsellTotal decimal.Decimal `json:"upsellTotal"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Fee names as they appear on quote breakdowns and stored bookings.
const (
	FeeNamedGuide = "named_guide"
	FeeExtraHour  = "extra_hour"
	FeeWeekend    = "weekend"
	FeeEvening    = "evening"
)

type feeRule struct {
	name     string
	amount   decimal.Decimal
	selected func(FeeSelection) bool
	eligible func(enums.TourKind) bool
}

// Fee amounts mirror the published rate card. Extra hours and evening
// starts only exist for made-to-order tours; community tours run on a
// fixed schedule and carry no weekend or evening surcharge.
var feeRules = []feeRule{
	{
		name:     FeeNamedGuide,
		amount:   decimal.NewFromInt(125),
		selected: func(f FeeSelection) bool { return f.NamedGuide },
		eligible: func(enums.TourKind) bool { return true },
	},
	{
		name:     FeeExtraHour,
		amount:   decimal.NewFromInt(150),
		selected: func(f FeeSelection) bool { return f.ExtraHour },
		eligible: func(k enums.TourKind) bool { return k == enums.TourKindCustomInterval },
	},
	{
		name:     FeeWeekend,
		amount:   decimal.NewFromInt(25),
		selected: func(f FeeSelection) bool { return f.Weekend },
		eligible: func(k enums.TourKind) bool { return k != enums.TourKindFixedSlot },
	},
	{
		name:     FeeEvening,
		amount:   decimal.NewFromInt(25),
		selected: func(f FeeSelection) bool { return f.Evening },
		eligible: func(k enums.TourKind) bool { return k == enums.TourKindCustomInterval },
	},
}

// round2 rounds to cents, half away from zero.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ComputeTotal prices a booking: per-person base, eligible surcharges,
// upsell lines and an optional gift card discount. The result is pure and
// deterministic; invalid inputs return ErrInvalidPricingInput instead of
// being clamped.
func ComputeTotal(input TourPricingInput, fees FeeSelection, upsells []UpsellLineItem, giftCard *GiftCardRedemption) (Quote, error) {
	if input.People < 1 {
		return Quote{}, fmt.Errorf("%w: people must be at least 1, got %d", ErrInvalidPricingInput, input.People)
	}
	if input.PricePerPerson.IsNegative() {
		return Quote{}, fmt.Errorf("%w: price per person must not be negative", ErrInvalidPricingInput)
	}

	base := round2(input.PricePerPerson.Mul(decimal.NewFromInt(int64(input.People))))

	feeLines := make([]FeeLine, 0, len(feeRules))
	feeTotal := decimal.Zero
	for _, rule := range feeRules {
		if !rule.selected(fees) || !rule.eligible(input.Kind) {
			continue
		}
		feeLines = append(feeLines, FeeLine{Name: rule.name, Amount: rule.amount})
		feeTotal = feeTotal.Add(rule.amount)
	}

	upsellTotal := decimal.Zero
	for _, item := range upsells {
		if item.Quantity < 0 {
			return Quote{}, fmt.Errorf("%w: upsell quantity must not be negative", ErrInvalidPricingInput)
		}
		if item.UnitPrice.IsNegative() {
			return Quote{}, fmt.Errorf("%w: upsell unit price must not be negative", ErrInvalidPricingInput)
		}
		line := round2(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		upsellTotal = upsellTotal.Add(line)
	}

	subtotal := base.Add(feeTotal).Add(upsellTotal)

	discount := decimal.Zero
	if giftCard != nil && giftCard.Balance.IsPositive() {
		discount = decimal.Min(giftCard.Balance, subtotal)
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Base:        base,
		Fees:        feeLines,
		FeeTotal:    feeTotal,
		UpsellTotal: upsellTotal,
		Subtotal:    round2(subtotal),
		Discount:    round2(discount),
		Total:       round2(total),
	}, nil
}
