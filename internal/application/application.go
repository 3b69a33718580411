package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"barter_market/internal/config"
	"barter_market/internal/domain/service/catalogue"
	"barter_market/internal/domain/service/profit"
	"barter_market/internal/infrastructure/metrics"
	"barter_market/internal/infrastructure/notifier"
	"barter_market/internal/infrastructure/persistence"
	"barter_market/internal/infrastructure/tarkovdev"
	"barter_market/internal/server"
	"barter_market/internal/transport/bot"
	"barter_market/internal/transport/bot/handler"
	"barter_market/internal/worker"
	"barter_market/pkg/application/connectors"
	"barter_market/pkg/application/modules"
	"barter_market/pkg/contextx"
	"barter_market/pkg/logx"
	"barter_market/pkg/middlewarex"
)

const httpServerReadHeaderTimeout = 5 * time.Second

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run собирает зависимости и блокируется до отмены ctx или падения модуля.
func Run(ctx context.Context, cfg config.Config) error { //nolint:funlen
	g, ctx := errgroup.WithContext(ctx)

	// 1. Database
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	store := persistence.NewCatalogueStore(db)
	itemRepo := persistence.NewItemRepository(db)

	// 2. Metrics
	collector := metrics.NewCollector()
	if err := collector.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("collector.Register: %w", err)
	}

	// 3. Upstream
	tarkov := tarkovdev.NewClient(
		cfg.Tarkov.APIURL,
		cfg.Tarkov.LogFieldMaxLen,
		tarkovdev.WithTimeout(cfg.Tarkov.Timeout),
		tarkovdev.WithRateLimit(cfg.Tarkov.RatePerSecond),
	)

	// 4. Services
	synchronizer := catalogue.NewSynchronizer(store).
		WithBatchSize(cfg.Sync.BatchSize).
		WithPricePolicy(cfg.Sync.Policy()).
		WithMetrics(collector)
	catalogueService := catalogue.NewService(tarkov, synchronizer).
		WithMetrics(collector)

	calculator := profit.NewCalculator().
		WithExcludedVendor(cfg.Profit.ExcludedVendor).
		WithRequireCompletePrices(cfg.Profit.RequireCompletePrices)
	profitService := profit.NewService(tarkov, calculator).
		WithMetrics(collector)

	// 5. Scheduler
	scheduler := worker.NewSyncScheduler(catalogueService, cfg.Sync.Interval).
		WithMetrics(collector)

	if cfg.Bot.Enabled() {
		digest, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, profitService)
		if err != nil {
			return fmt.Errorf("notifier bot: %w", err)
		}
		scheduler.WithAfterRun(digest.WithDigestSize(cfg.Bot.DigestSize).AfterSync)

		logger(ctx).Info("telegram digest enabled", slog.Int64("chat-id", cfg.Bot.ChatID))

		if cfg.Bot.Commands {
			commands := handler.New(profitService, itemRepo, scheduler).WithPageSize(cfg.Bot.DigestSize)
			scheduler.WithAfterRun(commands.RecordRun)

			commandBot, err := bot.New(cfg.Bot.Token, cfg.Bot.ChatID, commands)
			if err != nil {
				return fmt.Errorf("command bot: %w", err)
			}

			g.Go(func() error {
				return commandBot.Run(ctx)
			})
		}
	}

	syncServer := server.NewSyncServer(scheduler)

	// 6. Queue and distributed lock
	if cfg.Redis.Enabled() {
		rc := &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DB,
		}
		redisClient := rc.Client(ctx)
		defer rc.Close(ctx)

		scheduler.WithRunLock(worker.NewRedisLock(redisClient, worker.DefaultLockKey, cfg.Sync.LockTTL))

		asynqClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Address,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger(ctx).Error("asynqClient.Close", logx.Error(err))
			}
		}()

		syncServer = syncServer.WithEnqueuer(worker.NewSyncEnqueuer(asynqClient, cfg.Sync.Interval))

		modules.AsynqServer{
			RedisUsername: cfg.Redis.Username,
			RedisPassword: cfg.Redis.Password,
			RedisAddress:  cfg.Redis.Address,
			RedisDB:       cfg.Redis.DB,
		}.Run(ctx, g, modules.AsynqQueues{worker.QueueDefault: 1}, worker.SyncTaskHandler(scheduler))
	}

	// 7. HTTP
	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.ContextLogger(logger(ctx)),
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, cfg.HTTP.LogFieldMaxLen),
		middlewarex.ResponseLogging(masker, cfg.HTTP.LogFieldMaxLen),
	)

	server.NewServer(
		server.NewBarterServer(profitService),
		server.NewItemServer(itemRepo),
		syncServer,
	).RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	g.Go(func() error {
		return scheduler.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	logger(ctx).Info("application stopped")

	return nil
}
