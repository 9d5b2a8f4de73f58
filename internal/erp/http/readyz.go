package http

import (
	"context"
	"net/http"
	"time"

	"github.com/OolalaDXB/outrenational/internal/erp/store"
	"github.com/OolalaDXB/outrenational/pkg/erpsdk"
	"github.com/OolalaDXB/outrenational/pkg/httpx"
	"github.com/OolalaDXB/outrenational/pkg/jwtx"
)

// Pinger is the part of a cache backend readiness cares about.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database, the token signer and the cache. Any failure answers 503.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	erpsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	erpsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	cache Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &erpsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		if cache != nil {
			checks.Cache = "ok"
			if err := cache.Ping(ctx); err != nil {
				checks.Cache = "error: " + err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, erpsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
