package catalogue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/internal/domain/service/catalogue"
)

type fetcherFunc func(ctx context.Context) (entity.ItemSnapshot, error)

func (f fetcherFunc) FetchItemCatalogue(ctx context.Context) (entity.ItemSnapshot, error) {
	return f(ctx)
}

type recordingMetrics struct {
	reports []entity.SyncReport
	errs    []error
}

func (m *recordingMetrics) ObserveSync(report entity.SyncReport, err error) {
	m.reports = append(m.reports, report)
	m.errs = append(m.errs, err)
}

func TestServiceSync(t *testing.T) {
	rq := require.New(t)

	store := newMemoryStore()
	metrics := &recordingMetrics{}

	svc := catalogue.NewService(
		fetcherFunc(func(context.Context) (entity.ItemSnapshot, error) {
			return snapshotOf(23), nil
		}),
		catalogue.NewSynchronizer(store).WithBatchSize(10),
	).WithMetrics(metrics)

	report, err := svc.Sync(context.Background())
	rq.NoError(err)
	rq.NotEmpty(report.RunID)
	rq.Equal(3, report.Batches)
	rq.Equal(23, report.Items)
	rq.Len(store.transactions, 3)

	rq.Len(metrics.reports, 1)
	rq.NoError(metrics.errs[0])
}

func TestServiceSyncFetchErrorOpensNoTransaction(t *testing.T) {
	rq := require.New(t)

	store := newMemoryStore()
	metrics := &recordingMetrics{}

	svc := catalogue.NewService(
		fetcherFunc(func(context.Context) (entity.ItemSnapshot, error) {
			return entity.ItemSnapshot{}, domain.NewExternalSourceError("graphql errors", errors.New("rate limited"))
		}),
		catalogue.NewSynchronizer(store),
	).WithMetrics(metrics)

	report, err := svc.Sync(context.Background())
	rq.Error(err)
	rq.True(domain.IsExternalSourceError(err))
	rq.Empty(store.transactions)
	rq.Zero(report.Batches)

	rq.Len(metrics.errs, 1)
	rq.Error(metrics.errs[0])
}
