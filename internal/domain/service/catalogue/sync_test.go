package catalogue_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"testing"

	"github.com/stretchr/testify/require"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/domain/service/catalogue"
	"barter_market/pkg/errcodes"
)

// memoryStore — хранилище в памяти: транзакция работает на копии и
// применяется только при успехе fn.
type memoryStore struct {
	items        map[string]entity.Item
	vendors      map[string]entity.Vendor
	prices       map[string][]entity.ItemPrice
	nextVendorID int64

	transactions [][]string // id предметов, записанных в каждой транзакции
	vendorCalls  int
	failOnItem   string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		items:   make(map[string]entity.Item),
		vendors: make(map[string]entity.Vendor),
		prices:  make(map[string][]entity.ItemPrice),
	}
}

type memoryTx struct {
	store   *memoryStore
	items   map[string]entity.Item
	vendors map[string]entity.Vendor
	prices  map[string][]entity.ItemPrice
	nextID  int64
	written []string
}

func (s *memoryStore) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.CatalogueTx) error) error {
	tx := &memoryTx{
		store:   s,
		items:   maps.Clone(s.items),
		vendors: maps.Clone(s.vendors),
		prices:  maps.Clone(s.prices),
		nextID:  s.nextVendorID,
	}

	err := fn(ctx, tx)
	s.transactions = append(s.transactions, tx.written)
	if err != nil {
		return err
	}

	s.items, s.vendors, s.prices, s.nextVendorID = tx.items, tx.vendors, tx.prices, tx.nextID
	return nil
}

func (t *memoryTx) FindItemByID(_ context.Context, id string) (*entity.Item, error) {
	item, ok := t.items[id]
	if !ok {
		return nil, domain.NewError(errcodes.ItemNotFound, "item not found")
	}
	return &item, nil
}

func (t *memoryTx) FindOrCreateVendorByName(_ context.Context, v entity.Vendor) (entity.Vendor, bool, error) {
	t.store.vendorCalls++

	if existing, ok := t.vendors[v.Name]; ok {
		return existing, false, nil
	}

	t.nextID++
	v.ID = t.nextID
	t.vendors[v.Name] = v
	return v, true, nil
}

func (t *memoryTx) UpsertItemWithPrices(_ context.Context, item entity.Item, prices []entity.ItemPrice, policy entity.PricePolicy) error {
	t.written = append(t.written, item.ID)

	if item.ID == t.store.failOnItem {
		return domain.NewStoreError(errors.New("constraint violation"), "failed to upsert item")
	}

	for _, p := range prices {
		if p.Vendor.ID == 0 {
			return fmt.Errorf("price for %s has unresolved vendor %q", item.ID, p.Vendor.Name)
		}
	}

	t.items[item.ID] = item

	if policy == entity.PricePolicyAppend {
		t.prices[item.ID] = append(append([]entity.ItemPrice(nil), t.prices[item.ID]...), prices...)
	} else {
		t.prices[item.ID] = prices
	}

	return nil
}

func ptr[T any](v T) *T {
	return &v
}

func catalogueItem(id string, vendors ...string) entity.CatalogueItem {
	item := entity.CatalogueItem{
		ID:             id,
		Name:           ptr("Item " + id),
		ShortName:      ptr(id),
		NormalizedName: ptr("item-" + id),
	}

	for i, v := range vendors {
		offer := entity.CatalogueOffer{
			Price:    ptr(int64(100 * (i + 1))),
			Currency: ptr("RUB"),
			PriceRUB: ptr(int64(100 * (i + 1))),
			Vendor:   &entity.CatalogueVendor{Name: ptr(v)},
		}
		item.BuyFor = append(item.BuyFor, offer)
		item.SellFor = append(item.SellFor, offer)
	}

	return item
}

func snapshotOf(n int) entity.ItemSnapshot {
	snapshot := entity.ItemSnapshot{}
	for i := range n {
		snapshot.Items = append(snapshot.Items, catalogueItem(fmt.Sprintf("item-%02d", i), "Prapor", "Flea Market"))
	}
	return snapshot
}

func TestSynchronizeBatches(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name      string
		items     int
		batchSize int
		sizes     []int
	}{
		{name: "23 items by 10", items: 23, batchSize: 10, sizes: []int{10, 10, 3}},
		{name: "Exact multiple", items: 20, batchSize: 5, sizes: []int{5, 5, 5, 5}},
		{name: "Single batch", items: 4, batchSize: 10, sizes: []int{4}},
		{name: "Empty snapshot", items: 0, batchSize: 10, sizes: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			store := newMemoryStore()
			sync := catalogue.NewSynchronizer(store).WithBatchSize(tc.batchSize)

			report, err := sync.Synchronize(context.Background(), snapshotOf(tc.items))
			rq.NoError(err)

			sizes := make([]int, 0, len(store.transactions))
			for _, tx := range store.transactions {
				sizes = append(sizes, len(tx))
			}

			if tc.sizes == nil {
				rq.Empty(sizes)
			} else {
				rq.Equal(tc.sizes, sizes)
			}

			rq.Equal(len(tc.sizes), report.Batches)
			rq.Equal(tc.items, report.Items)
			rq.Equal(tc.items, report.Created)
		})
	}
}

func TestSynchronizeKeepsSourceOrder(t *testing.T) {
	rq := require.New(t)

	store := newMemoryStore()
	snapshot := snapshotOf(7)

	_, err := catalogue.NewSynchronizer(store).WithBatchSize(3).Synchronize(context.Background(), snapshot)
	rq.NoError(err)

	var written []string
	for _, tx := range store.transactions {
		written = append(written, tx...)
	}

	for i, item := range snapshot.Items {
		rq.Equal(item.ID, written[i])
	}
}

func TestSynchronizeIdempotent(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := newMemoryStore()
	sync := catalogue.NewSynchronizer(store).WithBatchSize(10)
	snapshot := snapshotOf(12)

	first, err := sync.Synchronize(ctx, snapshot)
	rq.NoError(err)
	rq.Equal(12, first.Created)
	rq.Equal(2, first.VendorsCreated)

	second, err := sync.Synchronize(ctx, snapshot)
	rq.NoError(err)
	rq.Equal(0, second.Created)
	rq.Equal(12, second.Updated)
	rq.Equal(0, second.VendorsCreated)

	rq.Len(store.items, 12)
	rq.Len(store.vendors, 2)
	rq.Len(store.prices["item-00"], 4)
}

func TestSynchronizeVendorsResolvedOncePerName(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := newMemoryStore()
	sync := catalogue.NewSynchronizer(store).WithBatchSize(5)

	_, err := sync.Synchronize(ctx, snapshotOf(10))
	rq.NoError(err)
	// по одному разу на торговца в первой пачке, вторая берёт id из кэша
	rq.Equal(2, store.vendorCalls)

	_, err = sync.Synchronize(ctx, snapshotOf(10))
	rq.NoError(err)
	rq.Equal(2, store.vendorCalls)

	prapor := store.vendors["Prapor"]
	for _, p := range store.prices["item-09"] {
		if p.Vendor.Name == "Prapor" {
			rq.Equal(prapor.ID, p.Vendor.ID)
		}
	}
}

func TestSynchronizeAppendPolicyAccumulates(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := newMemoryStore()
	sync := catalogue.NewSynchronizer(store).WithPricePolicy(entity.PricePolicyAppend)

	_, err := sync.Synchronize(ctx, snapshotOf(1))
	rq.NoError(err)
	_, err = sync.Synchronize(ctx, snapshotOf(1))
	rq.NoError(err)

	rq.Len(store.items, 1)
	rq.Len(store.prices["item-00"], 8)
}

func TestSynchronizeBatchFailure(t *testing.T) {
	rq := require.New(t)

	store := newMemoryStore()
	store.failOnItem = "item-14"

	report, err := catalogue.NewSynchronizer(store).WithBatchSize(10).Synchronize(context.Background(), snapshotOf(23))
	rq.Error(err)

	var batchErr *domain.SyncBatchError
	rq.ErrorAs(err, &batchErr)
	rq.Equal(1, batchErr.Index)
	rq.Equal(10, batchErr.Size)
	rq.True(domain.IsStoreError(err))

	// третья пачка не запускалась
	rq.Len(store.transactions, 2)

	// первая пачка закоммичена, вторая откатилась целиком
	rq.Equal(1, report.Batches)
	rq.Equal(10, report.Items)
	rq.Len(store.items, 10)
	_, ok := store.items["item-10"]
	rq.False(ok)
}

func TestSynchronizeFailedBatchDoesNotCacheVendors(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store := newMemoryStore()
	store.failOnItem = "item-00"
	sync := catalogue.NewSynchronizer(store)

	_, err := sync.Synchronize(ctx, snapshotOf(1))
	rq.Error(err)
	rq.Empty(store.vendors)

	store.failOnItem = ""
	_, err = sync.Synchronize(ctx, snapshotOf(1))
	rq.NoError(err)
	rq.Len(store.vendors, 2)
	rq.Len(store.prices["item-00"], 4)
}
