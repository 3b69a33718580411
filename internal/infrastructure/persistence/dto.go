package persistence

import (
	"database/sql"
	"time"

	"barter_market/internal/domain/entity"
)

// itemSchema — строка таблицы items.
type itemSchema struct {
	ID             string    `db:"id"`
	Name           string    `db:"name"`
	ShortName      string    `db:"short_name"`
	NormalizedName string    `db:"normalized_name"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func fromItem(e entity.Item, now time.Time) itemSchema {
	return itemSchema{
		ID:             e.ID,
		Name:           e.Name,
		ShortName:      e.ShortName,
		NormalizedName: e.NormalizedName,
		UpdatedAt:      now,
	}
}

func (s itemSchema) toDomain() *entity.Item {
	return &entity.Item{
		ID:             s.ID,
		Name:           s.Name,
		ShortName:      s.ShortName,
		NormalizedName: s.NormalizedName,
		UpdatedAt:      s.UpdatedAt,
	}
}

type vendorSchema struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	NormalizedName string `db:"normalized_name"`
}

func (s vendorSchema) toDomain() entity.Vendor {
	return entity.Vendor{
		ID:             s.ID,
		Name:           s.Name,
		NormalizedName: s.NormalizedName,
	}
}

// itemPriceSchema — строка item_prices для вставки.
type itemPriceSchema struct {
	ItemID         string         `db:"item_id"`
	VendorID       int64          `db:"vendor_id"`
	Side           string         `db:"side"`
	Price          int64          `db:"price"`
	Currency       string         `db:"currency"`
	PriceRUB       int64          `db:"price_rub"`
	CurrencyItemID sql.NullString `db:"currency_item_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

func fromItemPrice(itemID string, p entity.ItemPrice, now time.Time) itemPriceSchema {
	s := itemPriceSchema{
		ItemID:    itemID,
		VendorID:  p.Vendor.ID,
		Side:      string(p.Side),
		Price:     p.Price,
		Currency:  p.Currency,
		PriceRUB:  p.PriceRUB,
		CreatedAt: now,
	}
	if p.CurrencyItemID != nil {
		s.CurrencyItemID = sql.NullString{String: *p.CurrencyItemID, Valid: true}
	}
	return s
}

// itemPriceRow: строка item_prices вместе с торговцем.
type itemPriceRow struct {
	ID                   int64          `db:"id"`
	ItemID               string         `db:"item_id"`
	Side                 string         `db:"side"`
	Price                int64          `db:"price"`
	Currency             string         `db:"currency"`
	PriceRUB             int64          `db:"price_rub"`
	CurrencyItemID       sql.NullString `db:"currency_item_id"`
	VendorID             int64          `db:"vendor_id"`
	VendorName           string         `db:"vendor_name"`
	VendorNormalizedName string         `db:"vendor_normalized_name"`
}

func (r itemPriceRow) toDomain() entity.ItemPrice {
	p := entity.ItemPrice{
		ID:     r.ID,
		ItemID: r.ItemID,
		Side:   entity.PriceSide(r.Side),
		Vendor: entity.Vendor{
			ID:             r.VendorID,
			Name:           r.VendorName,
			NormalizedName: r.VendorNormalizedName,
		},
		Price:    r.Price,
		Currency: r.Currency,
		PriceRUB: r.PriceRUB,
	}
	if r.CurrencyItemID.Valid {
		id := r.CurrencyItemID.String
		p.CurrencyItemID = &id
	}
	return p
}
