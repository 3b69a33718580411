package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"barter_market/pkg/httpx/reply"
	"barter_market/pkg/httpx/req"
	"barter_market/pkg/rest"
)

type syncTrigger interface {
	TriggerNow(ctx context.Context) bool
}

type syncEnqueuer interface {
	Enqueue(ctx context.Context) (bool, error)
}

// SyncServer принимает запросы ручной синхронизации. С очередью задача
// уходит в asynq, без неё запускается прямо в процессе.
type SyncServer struct {
	trigger  syncTrigger
	enqueuer syncEnqueuer
}

func NewSyncServer(trigger syncTrigger) SyncServer {
	return SyncServer{
		trigger: trigger,
	}
}

func (s SyncServer) WithEnqueuer(enqueuer syncEnqueuer) SyncServer {
	s.enqueuer = enqueuer
	return s
}

func (s SyncServer) postV1Sync(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	// тело необязательно
	var request rest.SyncRequest
	if r.ContentLength > 0 {
		if err := req.Read(r, &request); err != nil {
			return fmt.Errorf("req.Read: %w", err)
		}
	}

	var accepted bool
	if s.enqueuer != nil {
		ok, err := s.enqueuer.Enqueue(ctx)
		if err != nil {
			return fmt.Errorf("enqueuer.Enqueue: %w", err)
		}
		accepted = ok
	} else {
		accepted = s.trigger.TriggerNow(ctx)
	}

	logger(ctx).Info("manual sync requested",
		slog.Bool("accepted", accepted),
		slog.String("reason", request.Reason),
	)

	reply.JSON(ctx, w, http.StatusAccepted, rest.SyncResponse{Accepted: accepted})

	return nil
}
