package httpapi

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/dota-match-insight/internal/domain/match"
	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
	"github.com/riskibarqy/dota-match-insight/internal/usecase"
)

type Handler struct {
	insightService *usecase.InsightService
	logger         *logging.Logger
	validator      *validator.Validate

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewHandler(insightService *usecase.InsightService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	seed := uint64(time.Now().UnixNano())
	return &Handler{
		insightService: insightService,
		logger:         logger,
		validator:      validator.New(),
		rng:            rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status: "ok",
		Cache:  toCacheStatsDTO(h.insightService.CacheStats()),
	})
}

// sample picks one row of result; rand.Rand is not safe for concurrent use.
func (h *Handler) sample(result usecase.RunResult) (match.CleanRow, bool) {
	h.rngMu.Lock()
	defer h.rngMu.Unlock()
	return result.Sample(h.rng)
}
