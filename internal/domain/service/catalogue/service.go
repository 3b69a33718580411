package catalogue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rs/xid"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/contextx"
	"barter_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Fetcher interface {
	FetchItemCatalogue(ctx context.Context) (entity.ItemSnapshot, error)
}

type RunMetrics interface {
	ObserveSync(report entity.SyncReport, err error)
}

// Service — полный прогон синхронизации: загрузка каталога, нормализация,
// запись пачками.
type Service struct {
	fetcher      Fetcher
	synchronizer *Synchronizer
	metrics      RunMetrics
}

func NewService(fetcher Fetcher, synchronizer *Synchronizer) *Service {
	return &Service{
		fetcher:      fetcher,
		synchronizer: synchronizer,
	}
}

func (s *Service) WithMetrics(m RunMetrics) *Service {
	s.metrics = m
	return s
}

// Sync выполняет один прогон. Если загрузка каталога упала, транзакции не
// открываются.
func (s *Service) Sync(ctx context.Context) (entity.SyncReport, error) {
	runID := xid.New().String()
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldRunID, runID)))

	logger(ctx).Info("catalogue sync started")

	report, err := s.sync(ctx)
	report.RunID = runID

	if s.metrics != nil {
		s.metrics.ObserveSync(report, err)
	}

	return report, err
}

func (s *Service) sync(ctx context.Context) (entity.SyncReport, error) {
	snapshot, err := s.fetcher.FetchItemCatalogue(ctx)
	if err != nil {
		return entity.SyncReport{}, fmt.Errorf("fetch catalogue: %w", err)
	}

	logger(ctx).Info("catalogue fetched", slog.Int("items", len(snapshot.Items)))

	report, err := s.synchronizer.Synchronize(ctx, snapshot)
	if err != nil {
		return report, fmt.Errorf("synchronize: %w", err)
	}

	return report, nil
}
