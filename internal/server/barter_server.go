package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"barter_market/internal/domain/entity"
	"barter_market/pkg/httpx/reply"
	"barter_market/pkg/rest"
)

type profitService interface {
	Barters(ctx context.Context) ([]entity.Barter, error)
	Profit(ctx context.Context) ([]entity.ProfitItem, error)
}

// BarterServer отдаёт бартеры и расчёт прибыли. Каждый запрос идёт в апстрим.
type BarterServer struct {
	profitService profitService
}

func NewBarterServer(profitService profitService) BarterServer {
	return BarterServer{
		profitService: profitService,
	}
}

func (s BarterServer) getV1Barters(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	barters, err := s.profitService.Barters(ctx)
	if err != nil {
		return fmt.Errorf("profitService.Barters: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(barters, func(b entity.Barter, _ int) rest.Barter {
		return newRESTBarter(b)
	}))

	return nil
}

func (s BarterServer) getV1Profit(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	items, err := s.profitService.Profit(ctx)
	if err != nil {
		return fmt.Errorf("profitService.Profit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, lo.Map(items, func(item entity.ProfitItem, _ int) rest.ProfitItem {
		return newRESTProfitItem(item)
	}))

	return nil
}
