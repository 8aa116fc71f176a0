package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/r0892111/beroepsbelgWeb-sub000/api/responses"
	"github.com/r0892111/beroepsbelgWeb-sub000/api/validators"
	giftcardsvc "github.com/r0892111/beroepsbelgWeb-sub000/internal/giftcards"
	pkgerrors "github.com/r0892111/beroepsbelgWeb-sub000/pkg/errors"
	"github.com/r0892111/beroepsbelgWeb-sub000/pkg/logger"
)

type validateGiftCardRequest struct {
	Code string `json:"code" validate:"required"`
}

type giftCardBalance struct {
	Code     string          `json:"code"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// ValidateGiftCard checks a code at checkout and returns the spendable
// balance. The stored card value is never exposed beyond that.
func ValidateGiftCard(svc giftcardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gift card service unavailable"))
			return
		}

		var payload validateGiftCardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		card, err := svc.Validate(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, giftCardBalance{
			Code:     card.Code,
			Balance:  card.CurrentBalance,
			Currency: card.Currency.String(),
		})
	}
}
