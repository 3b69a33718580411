package entity

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const itemIDTag = "itemid"

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation(itemIDTag, isItemIDChars); err != nil {
		panic(err)
	}
	return v
}

// isItemIDChars: латиница, цифры, '-' и '_'.
func isItemIDChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// ValidItemID проверяет формат идентификатора предмета tarkov.dev.
func ValidItemID(id string) bool {
	return validate.Var(id, "required,max=64,"+itemIDTag) == nil
}

// NormalizeName повторяет формат normalizedName апстрима: "Flea Market" -> "flea-market".
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// PriceSide показывает, в каком списке предмета лежит предложение.
type PriceSide string

const (
	PriceSideBuy  PriceSide = "buy"
	PriceSideSell PriceSide = "sell"
)

type Item struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	ShortName      string      `json:"short_name"`
	NormalizedName string      `json:"normalized_name"`
	BuyFor         []ItemPrice `json:"buy_for"`
	SellFor        []ItemPrice `json:"sell_for"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// FirstBuyOffer возвращает первое предложение покупки в порядке источника.
func (i Item) FirstBuyOffer() (ItemPrice, bool) {
	if len(i.BuyFor) == 0 {
		return ItemPrice{}, false
	}
	return i.BuyFor[0], true
}

type Vendor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
}

type ItemPrice struct {
	ID       int64     `json:"id"`
	ItemID   string    `json:"item_id"`
	Side     PriceSide `json:"side"`
	Vendor   Vendor    `json:"vendor"`
	Price    int64     `json:"price"`
	Currency string    `json:"currency"`
	PriceRUB int64     `json:"price_rub"`
	// CurrencyItemID задан, когда цена выражена в предмете-валюте.
	CurrencyItemID *string `json:"currency_item_id,omitempty"`
}
