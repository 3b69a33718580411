package catalogue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/pkg/errcodes"
	"barter_market/pkg/logx"
)

const DefaultBatchSize = 10

type SyncMetrics interface {
	ObserveBatch(size int, err error)
}

// Synchronizer пишет нормализованный каталог в хранилище пачками. Каждая
// пачка — одна транзакция, пачки идут строго по очереди.
type Synchronizer struct {
	store     domain.CatalogueStore
	batchSize int
	policy    entity.PricePolicy
	metrics   SyncMetrics

	// name -> vendor id, только из закоммиченных пачек. Торговцы не удаляются,
	// поэтому id не протухают.
	vendors *cache.Cache
}

func NewSynchronizer(store domain.CatalogueStore) *Synchronizer {
	return &Synchronizer{
		store:     store,
		batchSize: DefaultBatchSize,
		policy:    entity.PricePolicyReplace,
		vendors:   cache.New(cache.NoExpiration, 0),
	}
}

func (s *Synchronizer) WithBatchSize(size int) *Synchronizer {
	if size > 0 {
		s.batchSize = size
	}
	return s
}

func (s *Synchronizer) WithPricePolicy(policy entity.PricePolicy) *Synchronizer {
	s.policy = policy
	return s
}

func (s *Synchronizer) WithMetrics(m SyncMetrics) *Synchronizer {
	s.metrics = m
	return s
}

type batchResult struct {
	created        int
	updated        int
	offers         int
	vendorsCreated int
	// торговцы, найденные или созданные внутри транзакции пачки
	resolved map[string]int64
}

// Synchronize применяет снапшот. При ошибке пачки возвращает SyncBatchError
// и отчёт по уже закоммиченным пачкам; оставшиеся пачки не выполняются.
func (s *Synchronizer) Synchronize(ctx context.Context, snapshot entity.ItemSnapshot) (entity.SyncReport, error) {
	start := time.Now()
	report := entity.SyncReport{StartedAt: start}

	batches := lo.Chunk(Normalize(snapshot), s.batchSize)

	for i, batch := range batches {
		res, err := s.applyBatch(ctx, batch)
		s.observeBatch(len(batch), err)

		if err != nil {
			report.Duration = time.Since(start)

			logger(ctx).Error("sync batch failed",
				slog.Int(logx.FieldBatchIndex, i),
				slog.Int(logx.FieldBatchSize, len(batch)),
				slog.Int("committed-batches", report.Batches),
				logx.Error(err),
			)

			return report, domain.NewSyncBatchError(i, len(batch), err)
		}

		report.Batches++
		report.Items += len(batch)
		report.Created += res.created
		report.Updated += res.updated
		report.Offers += res.offers
		report.VendorsCreated += res.vendorsCreated

		logger(ctx).Debug("sync batch committed",
			slog.Int(logx.FieldBatchIndex, i),
			slog.Int(logx.FieldBatchSize, len(batch)),
		)
	}

	report.Duration = time.Since(start)

	logger(ctx).Info("catalogue sync finished",
		slog.Int("batches", report.Batches),
		slog.Int("items", report.Items),
		slog.Int("created", report.Created),
		slog.Int("updated", report.Updated),
		slog.Int("offers", report.Offers),
		slog.Int("vendors-created", report.VendorsCreated),
		slog.Int64(logx.FieldDurationMs, report.Duration.Milliseconds()),
	)

	return report, nil
}

func (s *Synchronizer) applyBatch(ctx context.Context, batch []entity.Item) (batchResult, error) {
	var res batchResult

	err := s.store.InTx(ctx, func(ctx context.Context, tx domain.CatalogueTx) error {
		res = batchResult{resolved: make(map[string]int64)}

		for _, item := range batch {
			if err := s.syncItem(ctx, tx, item, &res); err != nil {
				return fmt.Errorf("item %s: %w", item.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return batchResult{}, err
	}

	for name, id := range res.resolved {
		s.vendors.Set(name, id, cache.NoExpiration)
	}

	return res, nil
}

func (s *Synchronizer) syncItem(ctx context.Context, tx domain.CatalogueTx, item entity.Item, res *batchResult) error {
	exists := true
	if _, err := tx.FindItemByID(ctx, item.ID); err != nil {
		if !domain.HasCode(err, errcodes.ItemNotFound) {
			return fmt.Errorf("find item: %w", err)
		}
		exists = false
	}

	prices := make([]entity.ItemPrice, 0, len(item.BuyFor)+len(item.SellFor))

	for _, offers := range [][]entity.ItemPrice{item.BuyFor, item.SellFor} {
		for _, p := range offers {
			vendor, err := s.resolveVendor(ctx, tx, p.Vendor, res)
			if err != nil {
				return fmt.Errorf("resolve vendor %q: %w", p.Vendor.Name, err)
			}

			p.ItemID = item.ID
			p.Vendor = vendor
			prices = append(prices, p)
		}
	}

	if err := tx.UpsertItemWithPrices(ctx, item, prices, s.policy); err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	if exists {
		res.updated++
	} else {
		res.created++
	}
	res.offers += len(prices)

	return nil
}

func (s *Synchronizer) resolveVendor(ctx context.Context, tx domain.CatalogueTx, v entity.Vendor, res *batchResult) (entity.Vendor, error) {
	if id, ok := res.resolved[v.Name]; ok {
		v.ID = id
		return v, nil
	}

	if cached, ok := s.vendors.Get(v.Name); ok {
		v.ID = cached.(int64) //nolint:forcetypeassert
		return v, nil
	}

	vendor, created, err := tx.FindOrCreateVendorByName(ctx, v)
	if err != nil {
		return entity.Vendor{}, err
	}

	res.resolved[v.Name] = vendor.ID
	if created {
		res.vendorsCreated++
	}

	return vendor, nil
}

func (s *Synchronizer) observeBatch(size int, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveBatch(size, err)
}
