package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/domain/service/catalogue"
	"barter_market/internal/infrastructure/persistence"
	"barter_market/pkg/dbtest"
	"barter_market/pkg/errcodes"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Skipf("sqlite is unavailable: %v", err)
	}
	// у каждого соединения с :memory: своя база
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		t.Skipf("sqlite is unavailable: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "testdata/schema_sqlite.sql"))

	return db
}

func ptr[T any](v T) *T {
	return &v
}

func snapshot(ids ...string) entity.ItemSnapshot {
	s := entity.ItemSnapshot{}
	for _, id := range ids {
		s.Items = append(s.Items, entity.CatalogueItem{
			ID:        id,
			Name:      ptr("Item " + id),
			ShortName: ptr(id),
			BuyFor: []entity.CatalogueOffer{
				{
					Price:    ptr(int64(100)),
					Currency: ptr("RUB"),
					PriceRUB: ptr(int64(100)),
					Vendor:   &entity.CatalogueVendor{Name: ptr("Prapor"), NormalizedName: ptr("prapor")},
				},
			},
			SellFor: []entity.CatalogueOffer{
				{
					Price:    ptr(int64(90)),
					Currency: ptr("RUB"),
					PriceRUB: ptr(int64(90)),
					Vendor:   &entity.CatalogueVendor{Name: ptr("Therapist")},
				},
				{
					Price:          ptr(int64(1)),
					Currency:       ptr("item"),
					PriceRUB:       ptr(int64(150)),
					CurrencyItemID: ptr("currency-item"),
					Vendor:         &entity.CatalogueVendor{Name: ptr("Flea Market")},
				},
			},
		})
	}
	return s
}

func TestCatalogueStoreSynchronizeIdempotent(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	store := persistence.NewCatalogueStore(db)
	items := persistence.NewItemRepository(db)
	sync := catalogue.NewSynchronizer(store).WithBatchSize(2)

	first, err := sync.Synchronize(ctx, snapshot("a", "b", "c"))
	rq.NoError(err)
	rq.Equal(2, first.Batches)
	rq.Equal(3, first.Created)
	rq.Equal(3, first.VendorsCreated)

	second, err := sync.Synchronize(ctx, snapshot("a", "b", "c"))
	rq.NoError(err)
	rq.Equal(0, second.Created)
	rq.Equal(3, second.Updated)
	rq.Equal(0, second.VendorsCreated)

	itemCount, vendorCount, err := items.Count(ctx)
	rq.NoError(err)
	rq.Equal(3, itemCount)
	rq.Equal(3, vendorCount)

	var prices int
	rq.NoError(db.Get(&prices, `SELECT COUNT(*) FROM item_prices`))
	rq.Equal(9, prices)

	item, err := items.GetByID(ctx, "b")
	rq.NoError(err)
	rq.Equal("Item b", item.Name)
	rq.Len(item.BuyFor, 1)
	rq.Equal("Prapor", item.BuyFor[0].Vendor.Name)
	rq.Len(item.SellFor, 2)
	rq.Equal("therapist", item.SellFor[0].Vendor.NormalizedName)
	rq.NotNil(item.SellFor[1].CurrencyItemID)
	rq.Equal("currency-item", *item.SellFor[1].CurrencyItemID)
	rq.Nil(item.SellFor[0].CurrencyItemID)
}

func TestCatalogueStoreAppendPolicy(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	sync := catalogue.NewSynchronizer(persistence.NewCatalogueStore(db)).
		WithPricePolicy(entity.PricePolicyAppend)

	for range 2 {
		_, err := sync.Synchronize(ctx, snapshot("a"))
		rq.NoError(err)
	}

	var prices int
	rq.NoError(db.Get(&prices, `SELECT COUNT(*) FROM item_prices WHERE item_id = 'a'`))
	rq.Equal(6, prices)
}

func TestCatalogueStoreRollback(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	db := newTestDB(t)
	store := persistence.NewCatalogueStore(db)

	boom := errors.New("boom")
	err := store.InTx(ctx, func(ctx context.Context, tx domain.CatalogueTx) error {
		vendor, created, err := tx.FindOrCreateVendorByName(ctx, entity.Vendor{Name: "Prapor", NormalizedName: "prapor"})
		rq.NoError(err)
		rq.True(created)
		rq.NotZero(vendor.ID)

		again, created, err := tx.FindOrCreateVendorByName(ctx, entity.Vendor{Name: "Prapor"})
		rq.NoError(err)
		rq.False(created)
		rq.Equal(vendor.ID, again.ID)

		err = tx.UpsertItemWithPrices(ctx, entity.Item{ID: "a", Name: "A"}, []entity.ItemPrice{
			{Side: entity.PriceSideBuy, Vendor: vendor, Price: 10, Currency: "RUB", PriceRUB: 10},
		}, entity.PricePolicyReplace)
		rq.NoError(err)

		return boom
	})
	rq.ErrorIs(err, boom)

	items := persistence.NewItemRepository(db)
	itemCount, vendorCount, err := items.Count(ctx)
	rq.NoError(err)
	rq.Zero(itemCount)
	rq.Zero(vendorCount)

	_, err = items.GetByID(ctx, "a")
	rq.True(domain.HasCode(err, errcodes.ItemNotFound))
}

func TestCatalogueStoreUnresolvedVendor(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := persistence.NewCatalogueStore(newTestDB(t))

	err := store.InTx(ctx, func(ctx context.Context, tx domain.CatalogueTx) error {
		_, err := tx.FindItemByID(ctx, "missing")
		rq.True(domain.HasCode(err, errcodes.ItemNotFound))

		return tx.UpsertItemWithPrices(ctx, entity.Item{ID: "a"}, []entity.ItemPrice{
			{Side: entity.PriceSideBuy, Vendor: entity.Vendor{Name: "Nobody"}},
		}, entity.PricePolicyReplace)
	})
	rq.True(domain.IsStoreError(err))
}
