package profit

import (
	"context"
	"fmt"
	"time"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type BarterFetcher interface {
	FetchBarters(ctx context.Context) ([]entity.Barter, error)
}

type Metrics interface {
	ObserveProfitQuery(barters, profitable int, duration time.Duration, err error)
}

// Service отдаёт бартеры и выгодные сделки. Результат не кэшируется:
// каждый вызов заново ходит в апстрим.
type Service struct {
	fetcher    BarterFetcher
	calculator *Calculator
	metrics    Metrics
}

func NewService(fetcher BarterFetcher, calculator *Calculator) *Service {
	return &Service{
		fetcher:    fetcher,
		calculator: calculator,
	}
}

func (s *Service) WithMetrics(m Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) Barters(ctx context.Context) ([]entity.Barter, error) {
	barters, err := s.fetcher.FetchBarters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch barters: %w", err)
	}

	return barters, nil
}

func (s *Service) Profit(ctx context.Context) ([]entity.ProfitItem, error) {
	start := time.Now()

	barters, err := s.fetcher.FetchBarters(ctx)
	if err != nil {
		s.observe(0, 0, start, err)
		return nil, fmt.Errorf("fetch barters: %w", err)
	}

	items := s.calculator.Compute(barters)

	logger(ctx).Debug("profit computed",
		"barters", len(barters),
		"profitable", len(items),
	)
	s.observe(len(barters), len(items), start, nil)

	return items, nil
}

func (s *Service) observe(barters, profitable int, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveProfitQuery(barters, profitable, time.Since(start), err)
}
