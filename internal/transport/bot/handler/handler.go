package handler

import (
	"context"
	"sync"
	"time"

	"barter_market/internal/domain/entity"
)

const DefaultPageSize = 5

type ProfitSource interface {
	Profit(ctx context.Context) ([]entity.ProfitItem, error)
}

type ItemReader interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

type SyncTrigger interface {
	TriggerNow(ctx context.Context) bool
}

// LastRun — итог последнего прогона синхронизации.
type LastRun struct {
	Report     entity.SyncReport
	Err        error
	FinishedAt time.Time
}

type Handler struct {
	profit   ProfitSource
	items    ItemReader
	trigger  SyncTrigger
	pageSize int

	mu      sync.RWMutex
	lastRun *LastRun
	now     func() time.Time
}

func New(profit ProfitSource, items ItemReader, trigger SyncTrigger) *Handler {
	return &Handler{
		profit:   profit,
		items:    items,
		trigger:  trigger,
		pageSize: DefaultPageSize,
		now:      time.Now,
	}
}

func (h *Handler) WithPageSize(size int) *Handler {
	if size > 0 {
		h.pageSize = size
	}
	return h
}

// RecordRun подходит как хук планировщика; результат показывает /status.
func (h *Handler) RecordRun(_ context.Context, report entity.SyncReport, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastRun = &LastRun{
		Report:     report,
		Err:        err,
		FinishedAt: h.now(),
	}
}

func (h *Handler) LastRun() (LastRun, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.lastRun == nil {
		return LastRun{}, false
	}
	return *h.lastRun, true
}
