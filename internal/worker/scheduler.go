package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/contextx"
	"barter_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const DefaultSyncInterval = 15 * time.Minute

// Источники запуска синхронизации.
const (
	TriggerStartup = "startup"
	TriggerTicker  = "ticker"
	TriggerManual  = "manual"
	TriggerQueue   = "queue"
)

type Syncer interface {
	Sync(ctx context.Context) (entity.SyncReport, error)
}

// RunLock — блокировка прогона между репликами. ok=false, если её держит
// кто-то другой.
type RunLock interface {
	Acquire(ctx context.Context) (release func(context.Context), ok bool, err error)
}

type SkipMetrics interface {
	ObserveSkippedRun(trigger string)
}

// AfterRunHook вызывается после каждого выполненного прогона.
type AfterRunHook func(ctx context.Context, report entity.SyncReport, err error)

// SyncScheduler запускает синхронизацию сразу и затем раз в interval.
// Одновременно выполняется не больше одного прогона: запуск, пришедший во
// время активного прогона, пропускается.
type SyncScheduler struct {
	syncer   Syncer
	interval time.Duration
	lock     RunLock
	metrics  SkipMetrics
	hooks    []AfterRunHook

	running sync.Mutex
	wg      sync.WaitGroup

	baseMu  sync.Mutex
	baseCtx context.Context //nolint:containedctx
}

func NewSyncScheduler(syncer Syncer, interval time.Duration) *SyncScheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	return &SyncScheduler{
		syncer:   syncer,
		interval: interval,
	}
}

func (s *SyncScheduler) WithRunLock(lock RunLock) *SyncScheduler {
	s.lock = lock
	return s
}

func (s *SyncScheduler) WithMetrics(m SkipMetrics) *SyncScheduler {
	s.metrics = m
	return s
}

func (s *SyncScheduler) WithAfterRun(hook AfterRunHook) *SyncScheduler {
	s.hooks = append(s.hooks, hook)
	return s
}

// Run блокируется до отмены ctx. Ошибка прогона логируется, цикл продолжается.
func (s *SyncScheduler) Run(ctx context.Context) error {
	s.baseMu.Lock()
	s.baseCtx = ctx
	s.baseMu.Unlock()

	logger(ctx).Info("sync scheduler started", slog.Duration("interval", s.interval))

	s.RunOnce(ctx, TriggerStartup)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger(ctx).Info("sync scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunOnce(ctx, TriggerTicker)
		}
	}
}

// RunOnce выполняет прогон в текущей горутине. ran=false, если прогон
// пропущен из-за уже идущего.
func (s *SyncScheduler) RunOnce(ctx context.Context, trigger string) (report entity.SyncReport, ran bool, err error) {
	if !s.running.TryLock() {
		s.skip(ctx, trigger, "run in progress")
		return entity.SyncReport{}, false, nil
	}
	defer s.running.Unlock()

	return s.run(ctx, trigger)
}

// TriggerNow запускает внеочередной прогон в фоне и сообщает, был ли он принят.
func (s *SyncScheduler) TriggerNow(ctx context.Context) bool {
	if !s.running.TryLock() {
		s.skip(ctx, TriggerManual, "run in progress")
		return false
	}

	runCtx := s.runContext(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Unlock()

		_, _, _ = s.run(runCtx, TriggerManual)
	}()

	return true
}

// Wait ждёт завершения фоновых прогонов, запущенных через TriggerNow.
func (s *SyncScheduler) Wait() {
	s.wg.Wait()
}

// run ожидает, что running уже захвачен.
func (s *SyncScheduler) run(ctx context.Context, trigger string) (entity.SyncReport, bool, error) {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTrigger, trigger)))

	if s.lock != nil {
		release, ok, err := s.lock.Acquire(ctx)
		if err != nil {
			logger(ctx).Error("sync lock acquire failed", logx.Error(err))
			return entity.SyncReport{}, false, err
		}
		if !ok {
			s.skip(ctx, trigger, "lock held by another instance")
			return entity.SyncReport{}, false, nil
		}
		defer release(context.WithoutCancel(ctx))
	}

	report, err := s.syncer.Sync(ctx)
	if err != nil {
		logger(ctx).Error("catalogue sync failed",
			slog.String(logx.FieldRunID, report.RunID),
			logx.Error(err),
		)
	}

	for _, hook := range s.hooks {
		hook(ctx, report, err)
	}

	return report, true, err
}

func (s *SyncScheduler) skip(ctx context.Context, trigger, reason string) {
	logger(ctx).Warn("catalogue sync skipped",
		slog.String(logx.FieldTrigger, trigger),
		slog.String("reason", reason),
	)

	if s.metrics != nil {
		s.metrics.ObserveSkippedRun(trigger)
	}
}

// runContext не зависит от вызвавшего запроса, но отменяется вместе с
// планировщиком.
func (s *SyncScheduler) runContext(ctx context.Context) context.Context {
	s.baseMu.Lock()
	defer s.baseMu.Unlock()

	if s.baseCtx != nil {
		return contextx.WithLogger(s.baseCtx, logger(ctx))
	}
	return context.WithoutCancel(ctx)
}
