package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"barter_market/internal/domain"
	"barter_market/internal/domain/entity"
	"barter_market/pkg/errcodes"
	"barter_market/pkg/httpx/reply"
)

type itemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}

// ItemServer читает локальный снимок каталога.
type ItemServer struct {
	itemRepository itemRepository
}

func NewItemServer(itemRepository itemRepository) ItemServer {
	return ItemServer{
		itemRepository: itemRepository,
	}
}

func (s ItemServer) getV1Item(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if !entity.ValidItemID(id) {
		return domain.NewError(errcodes.InvalidItemID, "invalid item id")
	}

	item, err := s.itemRepository.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("itemRepository.GetByID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTItem(*item))

	return nil
}
