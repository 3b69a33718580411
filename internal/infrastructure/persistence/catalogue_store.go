package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/pkg/errcodes"
)

// CatalogueStore пишет каталог предметов, по транзакции на пачку.
type CatalogueStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewCatalogueStore создаёт новый экземпляр хранилища.
func NewCatalogueStore(db *sqlx.DB) *CatalogueStore {
	return &CatalogueStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// InTx выполняет fn в одной транзакции. Ошибка или паника fn откатывают её.
func (s *CatalogueStore) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.CatalogueTx) error) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return fn(ctx, &catalogueTx{tx: tx, now: s.now()})
	})
}

// withTx выполняет функцию в транзакции.
func (s *CatalogueStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStoreError(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.NewStoreError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError(err, "failed to commit")
	}

	return nil
}

type catalogueTx struct {
	tx  *sqlx.Tx
	now time.Time
}

func (t *catalogueTx) FindItemByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `
		SELECT id, name, short_name, normalized_name, updated_at
		FROM items
		WHERE id = $1`

	var schema itemSchema
	if err := t.tx.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ItemNotFound, "item not found")
		}
		return nil, domain.NewStoreError(err, "failed to get item")
	}

	return schema.toDomain(), nil
}

// FindOrCreateVendorByName не трогает существующего торговца; второй флаг
// сообщает, была ли запись создана этим вызовом.
func (t *catalogueTx) FindOrCreateVendorByName(ctx context.Context, vendor entity.Vendor) (entity.Vendor, bool, error) {
	insert := `
		INSERT INTO vendors (name, normalized_name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`

	res, err := t.tx.ExecContext(ctx, insert, vendor.Name, vendor.NormalizedName)
	if err != nil {
		return entity.Vendor{}, false, domain.NewStoreError(err, "failed to insert vendor")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return entity.Vendor{}, false, domain.NewStoreError(err, "failed to check affected rows")
	}

	query := `
		SELECT id, name, normalized_name
		FROM vendors
		WHERE name = $1`

	var schema vendorSchema
	if err := t.tx.GetContext(ctx, &schema, query, vendor.Name); err != nil {
		return entity.Vendor{}, false, domain.NewStoreError(err, "failed to get vendor")
	}

	return schema.toDomain(), rows > 0, nil
}

func (t *catalogueTx) UpsertItemWithPrices(
	ctx context.Context,
	item entity.Item,
	prices []entity.ItemPrice,
	policy entity.PricePolicy,
) error {
	upsert := `
		INSERT INTO items (id, name, short_name, normalized_name, updated_at)
		VALUES (:id, :name, :short_name, :normalized_name, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			short_name = excluded.short_name,
			normalized_name = excluded.normalized_name,
			updated_at = excluded.updated_at`

	if _, err := t.tx.NamedExecContext(ctx, upsert, fromItem(item, t.now)); err != nil {
		return domain.NewStoreError(err, "failed to upsert item")
	}

	if policy != entity.PricePolicyAppend {
		if _, err := t.tx.ExecContext(ctx, `DELETE FROM item_prices WHERE item_id = $1`, item.ID); err != nil {
			return domain.NewStoreError(err, "failed to delete item prices")
		}
	}

	if len(prices) == 0 {
		return nil
	}

	rows := make([]itemPriceSchema, 0, len(prices))
	for _, p := range prices {
		if p.Vendor.ID == 0 {
			return domain.NewStoreError(
				fmt.Errorf("vendor %q is not resolved", p.Vendor.Name),
				"failed to insert item prices",
			)
		}
		rows = append(rows, fromItemPrice(item.ID, p, t.now))
	}

	insert := `
		INSERT INTO item_prices (item_id, vendor_id, side, price, currency, price_rub, currency_item_id, created_at)
		VALUES (:item_id, :vendor_id, :side, :price, :currency, :price_rub, :currency_item_id, :created_at)`

	if _, err := t.tx.NamedExecContext(ctx, insert, rows); err != nil {
		return domain.NewStoreError(err, "failed to insert item prices")
	}

	return nil
}
