package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Invitee captures the contact attached to a booking, including the B2B
// billing fields and any custom-tour answers supplied later.
type Invitee struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           *string         `json:"phone,omitempty"`
	NumberOfPeople  int             `json:"number_of_people"`
	Language        string          `json:"language"`
	SpecialRequests *string         `json:"special_requests,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	CompanyName     *string         `json:"company_name,omitempty"`
	VATNumber       *string         `json:"vat_number,omitempty"`
	BillingAddress  *string         `json:"billing_address,omitempty"`
	CustomAnswers   *CustomAnswers  `json:"custom_answers,omitempty"`
}

// CustomAnswers holds the made-to-order tour questionnaire.
type CustomAnswers struct {
	StartLocation string `json:"start_location,omitempty"`
	EndLocation   string `json:"end_location,omitempty"`
	CityPart      string `json:"city_part,omitempty"`
	Subjects      string `json:"subjects,omitempty"`
	SpecialWishes string `json:"special_wishes,omitempty"`
	ExtraHour     bool   `json:"extra_hour,omitempty"`
}

// Invitees is a slice marshaled as JSONB.
type Invitees []Invitee

// Value serializes the invitees to JSON.
func (i Invitees) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

// Scan decodes JSONB into the invitee slice.
func (i *Invitees) Scan(value interface{}) error {
	if value == nil {
		*i = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded Invitees
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*i = decoded
	return nil
}

// UpsellSelection records one upsell product attached to a booking.
type UpsellSelection struct {
	ProductID string          `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// UpsellSelections persist the selected add-on products as JSONB.
type UpsellSelections []UpsellSelection

// Value serializes the selections to JSON.
func (u UpsellSelections) Value() (driver.Value, error) {
	if u == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(u)
}

// Scan decodes JSONB into the selection slice.
func (u *UpsellSelections) Scan(value interface{}) error {
	if value == nil {
		*u = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded UpsellSelections
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*u = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
