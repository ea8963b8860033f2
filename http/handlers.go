package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"urbanflux/prediction"
	"urbanflux/route"
)

// RouteAnalyzer summarises the configured delivery route.
type RouteAnalyzer interface {
	Analyze(ctx context.Context) (*route.Analysis, error)
}

const capabilityRoute = "route"

// API serves the dispatch endpoints.
type API struct {
	service  string
	services *prediction.Services
	routes   RouteAnalyzer
	logger   *zap.Logger
	now      func() time.Time
}

func NewAPI(service string, services *prediction.Services, routes RouteAnalyzer, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		service:  service,
		services: services,
		routes:   routes,
		logger:   logger,
		now:      time.Now,
	}
}

func (a *API) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("POST /ai/freshness", a.handleFreshness)
	mux.HandleFunc("POST /ai/spoilage-risk", a.handleSpoilage)
	mux.HandleFunc("POST /ai/priority-score", a.handlePriority)
	mux.HandleFunc("POST /ai/route-analysis", a.handleRouteAnalysis)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// healthTimeLayout is UTC with microseconds.
const healthTimeLayout = "2006-01-02T15:04:05.000000Z"

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Service:   a.service,
		Timestamp: a.now().UTC().Format(healthTimeLayout),
	})
}

func (a *API) handleFreshness(w http.ResponseWriter, r *http.Request) {
	var payload freshnessPayload
	if err := decodePayload(r, &payload); err != nil {
		a.respondInvalid(w, err)
		return
	}
	out, err := a.services.Freshness.Predict(payload.request())
	respondPrediction(a, w, prediction.CapabilityFreshness, out, err)
}

func (a *API) handleSpoilage(w http.ResponseWriter, r *http.Request) {
	var payload spoilagePayload
	if err := decodePayload(r, &payload); err != nil {
		a.respondInvalid(w, err)
		return
	}
	out, err := a.services.Spoilage.Predict(payload.request())
	respondPrediction(a, w, prediction.CapabilitySpoilage, out, err)
}

func (a *API) handlePriority(w http.ResponseWriter, r *http.Request) {
	var payload priorityPayload
	if err := decodePayload(r, &payload); err != nil {
		a.respondInvalid(w, err)
		return
	}
	out, err := a.services.Priority.Predict(payload.request())
	respondPrediction(a, w, prediction.CapabilityPriority, out, err)
}

// handleRouteAnalysis ignores the request body.
func (a *API) handleRouteAnalysis(w http.ResponseWriter, r *http.Request) {
	if a.routes == nil {
		a.fail(w, capabilityRoute, errors.New("route analyzer not configured"))
		return
	}
	analysis, err := a.routes.Analyze(r.Context())
	if err != nil {
		a.fail(w, capabilityRoute, err)
		return
	}
	predictionsTotal.WithLabelValues(capabilityRoute, outcomeOK).Inc()
	respondJSON(w, http.StatusOK, analysis)
}

func respondPrediction[T any](a *API, w http.ResponseWriter, capability string, out prediction.Outcome[T], err error) {
	if err != nil {
		a.fail(w, capability, err)
		return
	}
	outcome := outcomeOK
	if out.Degraded {
		outcome = outcomeDegraded
	}
	predictionsTotal.WithLabelValues(capability, outcome).Inc()
	respondJSON(w, http.StatusOK, out)
}

func (a *API) fail(w http.ResponseWriter, capability string, err error) {
	predictionsTotal.WithLabelValues(capability, outcomeError).Inc()
	a.logger.Error("request failed", zap.String("capability", capability), zap.Error(err))
	respondFailure(w, http.StatusInternalServerError, err.Error())
}

func (a *API) respondInvalid(w http.ResponseWriter, err error) {
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		a.logger.Error("payload validation failed", zap.Error(err))
		respondFailure(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusUnprocessableEntity, map[string][]FieldError{"detail": invalid.Fields})
}

func respondFailure(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
