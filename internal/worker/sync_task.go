package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"barter_market/pkg/application/modules"
)

const (
	TaskCatalogueSync = "catalogue:sync"
	QueueDefault      = "default"
)

// SyncEnqueuer ставит ручной прогон в очередь asynq.
type SyncEnqueuer struct {
	client *asynq.Client
	unique time.Duration
}

// NewSyncEnqueuer: пока задача с тем же типом ждёт в очереди дольше unique,
// повторная постановка отклоняется.
func NewSyncEnqueuer(client *asynq.Client, unique time.Duration) *SyncEnqueuer {
	return &SyncEnqueuer{
		client: client,
		unique: unique,
	}
}

// Enqueue возвращает false, если такая задача уже в очереди.
func (e *SyncEnqueuer) Enqueue(ctx context.Context) (bool, error) {
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(0)}
	if e.unique > 0 {
		opts = append(opts, asynq.Unique(e.unique))
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(TaskCatalogueSync, nil), opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrDuplicateTask) {
			return false, nil
		}
		return false, fmt.Errorf("asynqClient.Enqueue: %w", err)
	}

	logger(ctx).Info("catalogue sync enqueued", slog.String("task-id", info.ID))

	return true, nil
}

// SyncTaskHandler выполняет задачу синхронизации из очереди. Пропуск из-за
// идущего прогона не считается ошибкой: задача не повторяется.
func SyncTaskHandler(scheduler *SyncScheduler) modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskCatalogueSync,
		Handle: func(ctx context.Context, _ *asynq.Task) error {
			_, _, err := scheduler.RunOnce(ctx, TriggerQueue)
			if err != nil {
				return fmt.Errorf("catalogue sync: %w", err)
			}
			return nil
		},
	}
}
