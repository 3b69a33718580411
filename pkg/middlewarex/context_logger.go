package middlewarex

import (
	"log/slog"
	"net/http"

	"barter_market/pkg/contextx"
	"barter_market/pkg/logx"
)

// ContextLogger кладёт в контекст запроса логгер с trace id. Ставится после TraceID.
func ContextLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			l := log
			if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
				l = l.With(logx.Stringer(logx.FieldTraceID, traceID))
			}

			next.ServeHTTP(w, r.WithContext(contextx.WithLogger(ctx, l)))
		})
	}
}
