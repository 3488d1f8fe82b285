package middleware

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/httpapi"
)

// WithTransaction wraps the request in a transaction that commits after the
// handler returns a non-error status. Requests without a pool pass through.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			tx, err := pool.Begin(r.Context())
			if err != nil {
				httpapi.WriteAPIError(w, r, http.StatusInternalServerError, "DB_UNAVAILABLE", "database unavailable", nil)
				return
			}
			defer func() {
				if err := tx.Rollback(r.Context()); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
					composables.UseLogger(r.Context()).WithError(err).Error("failed to rollback transaction")
				}
			}()

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r.WithContext(composables.WithTx(r.Context(), tx)))
			if sw.Status() >= http.StatusBadRequest {
				return
			}
			if err := tx.Commit(r.Context()); err != nil {
				composables.UseLogger(r.Context()).WithError(err).Error("failed to commit transaction")
			}
		})
	}
}
