package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"barter_market/internal/domain"
	"barter_market/pkg/errcodes"
	"barter_market/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/barters", handler(s.getV1Barters))
			r.Get("/profit", handler(s.getV1Profit))
			r.Get("/items/{id}", handler(s.getV1Item))
			r.Post("/sync", handler(s.postV1Sync))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			replyError(r.Context(), w, err)
		}
	}
}

// replyError отвечает по коду доменной ошибки; остальные уходят в reply.Error.
func replyError(ctx context.Context, w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		reply.Error(ctx, w, err)
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case errcodes.ItemNotFound, errcodes.NotFound:
		status = http.StatusNotFound
	case errcodes.InvalidItemID, errcodes.ValidationError:
		status = http.StatusBadRequest
	case errcodes.ExternalSourceError:
		status = http.StatusBadGateway
	}

	reply.ErrorStatus(ctx, w, status, appErr.Code, appErr.Message, err)
}
