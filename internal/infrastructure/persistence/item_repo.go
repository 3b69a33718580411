package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/pkg/errcodes"
)

// ItemRepository читает локальный снимок каталога.
type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// GetByID возвращает предмет с предложениями в порядке записи.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `
		SELECT id, name, short_name, normalized_name, updated_at
		FROM items
		WHERE id = $1`

	var schema itemSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ItemNotFound, "item not found")
		}
		return nil, domain.NewStoreError(err, "failed to get item")
	}

	pricesQuery := `
		SELECT p.id, p.item_id, p.side, p.price, p.currency, p.price_rub, p.currency_item_id,
			v.id AS vendor_id, v.name AS vendor_name, v.normalized_name AS vendor_normalized_name
		FROM item_prices p
		JOIN vendors v ON v.id = p.vendor_id
		WHERE p.item_id = $1
		ORDER BY p.id`

	var rows []itemPriceRow
	if err := r.db.SelectContext(ctx, &rows, pricesQuery, id); err != nil {
		return nil, domain.NewStoreError(err, "failed to get item prices")
	}

	item := schema.toDomain()
	for _, row := range rows {
		price := row.toDomain()
		switch price.Side {
		case entity.PriceSideBuy:
			item.BuyFor = append(item.BuyFor, price)
		case entity.PriceSideSell:
			item.SellFor = append(item.SellFor, price)
		}
	}

	return item, nil
}

// Count возвращает число предметов и торговцев в снимке.
func (r *ItemRepository) Count(ctx context.Context) (items, vendors int, err error) {
	if err := r.db.GetContext(ctx, &items, `SELECT COUNT(*) FROM items`); err != nil {
		return 0, 0, domain.NewStoreError(err, "failed to count items")
	}
	if err := r.db.GetContext(ctx, &vendors, `SELECT COUNT(*) FROM vendors`); err != nil {
		return 0, 0, domain.NewStoreError(err, "failed to count vendors")
	}
	return items, vendors, nil
}
