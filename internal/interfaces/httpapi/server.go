package httpapi

import (
	"net/http"

	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerInsightRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /{$}", handler.Dashboard)
}

func registerInsightRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{name}/matches", handler.GetPlayerMatches)
	mux.HandleFunc("GET /v1/players/{name}/matches/sample", handler.GetPlayerMatchSample)
	mux.HandleFunc("DELETE /v1/players/{name}/matches", handler.InvalidatePlayerMatches)
	mux.HandleFunc("DELETE /v1/cache", handler.FlushCache)
	mux.HandleFunc("GET /v1/reference/patches", handler.ListPatches)
	mux.HandleFunc("GET /v1/runs", handler.ListRuns)
	mux.HandleFunc("GET /v1/runs/{runID}", handler.GetRun)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
