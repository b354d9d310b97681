// Package server exposes the debt payoff and affordability engines over
// HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"affordability-engine/internal/cache"
	"affordability-engine/pkg/affordability"
	"affordability-engine/pkg/constants"
	"affordability-engine/pkg/debt"
	"affordability-engine/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type handler struct {
	logger       *zap.Logger
	simulator    *debt.Simulator
	maxBodyBytes int64
	maxMonths    int
	version      string
}

// Options configures the HTTP handler.
type Options struct {
	Store          cache.Store
	RateLimiter    *RateLimiter
	MaxBodyBytes   int64
	MaxMonths      int
	IdempotencyTTL time.Duration
	Version        string
}

// NewHandler constructs the HTTP handler that serves the decision API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	if opts.MaxMonths <= 0 {
		opts.MaxMonths = constants.DefaultMaxMonths
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:       logger,
		simulator:    debt.NewSimulator(logger),
		maxBodyBytes: opts.MaxBodyBytes,
		maxMonths:    opts.MaxMonths,
		version:      trimmedVersion,
	}

	mux := http.NewServeMux()

	// Debt payoff API
	mux.HandleFunc("/api/debt/simulate", h.handleSimulate)
	mux.HandleFunc("/api/debt/compare", h.handleCompare)
	mux.HandleFunc("/api/debt/insights", h.handleInsights)

	// Affordability API
	mux.HandleFunc("/api/affordability", h.handleAffordability)

	// Operational endpoints
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	var wrapped http.Handler = mux
	wrapped = IdempotencyMiddleware(opts.Store, opts.IdempotencyTTL, logger, wrapped)
	wrapped = RateLimitMiddleware(opts.RateLimiter, wrapped)
	wrapped = MetricsMiddleware(wrapped)
	wrapped = RequestIDMiddleware(wrapped)

	return wrapped
}

type simulateRequest struct {
	Debts        []debt.Account `json:"debts"`
	Strategy     debt.Strategy  `json:"strategy"`
	ExtraPayment float64        `json:"extra_payment"`
	MaxMonths    int            `json:"max_months"`
}

type compareRequest struct {
	Debts        []debt.Account `json:"debts"`
	ExtraPayment float64        `json:"extra_payment"`
	MaxMonths    int            `json:"max_months"`
}

type simulateResponse struct {
	Result   debt.Result `json:"result"`
	Duration string      `json:"duration"`
}

type compareResponse struct {
	Comparison debt.Comparison `json:"comparison"`
	Duration   string          `json:"duration"`
}

type insightsResponse struct {
	Insights debt.Insights `json:"insights"`
	Duration string        `json:"duration"`
}

type affordabilityRequest struct {
	Profile  affordability.Profile  `json:"profile"`
	Purchase affordability.Purchase `json:"purchase"`
}

type affordabilityResponse struct {
	Metrics    affordability.Metrics    `json:"metrics"`
	Impact     affordability.Impact     `json:"impact"`
	Evaluation affordability.Evaluation `json:"evaluation"`
	Duration   string                   `json:"duration"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req simulateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	errs := validation.ValidateSimulationRequest(req.Debts, req.ExtraPayment, req.MaxMonths)
	errs = append(errs, validation.ValidateStrategy(req.Strategy)...)
	if len(errs) > 0 {
		h.respondValidationErrors(w, errs, op)
		return
	}

	result := h.simulator.SimulateStrategy(req.Debts, req.Strategy, req.ExtraPayment, h.resolveMaxMonths(req.MaxMonths))
	elapsed := time.Since(start)

	h.logger.Info("payoff simulation computed",
		zap.String("op", op),
		zap.String("strategy", string(req.Strategy)),
		zap.Int("debts", len(req.Debts)),
		zap.Int("months", result.TotalMonths),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, simulateResponse{Result: result, Duration: elapsed.String()})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req compareRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	if errs := validation.ValidateSimulationRequest(req.Debts, req.ExtraPayment, req.MaxMonths); len(errs) > 0 {
		h.respondValidationErrors(w, errs, op)
		return
	}

	comparison := h.simulator.CompareStrategies(req.Debts, req.ExtraPayment, h.resolveMaxMonths(req.MaxMonths))
	elapsed := time.Since(start)

	h.logger.Info("strategy comparison computed",
		zap.String("op", op),
		zap.Int("debts", len(req.Debts)),
		zap.String("recommended", string(comparison.Recommended)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, compareResponse{Comparison: comparison, Duration: elapsed.String()})
}

func (h *handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInsights"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req compareRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	if errs := validation.ValidateSimulationRequest(req.Debts, req.ExtraPayment, req.MaxMonths); len(errs) > 0 {
		h.respondValidationErrors(w, errs, op)
		return
	}

	comparison := h.simulator.CompareStrategies(req.Debts, req.ExtraPayment, h.resolveMaxMonths(req.MaxMonths))
	insights := debt.GenerateDebtInsights(req.Debts, comparison)
	elapsed := time.Since(start)

	h.logger.Info("debt insights computed",
		zap.String("op", op),
		zap.Int("debts", len(req.Debts)),
		zap.Int("quickWins", len(insights.QuickWins)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, insightsResponse{Insights: insights, Duration: elapsed.String()})
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var req affordabilityRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	errs := validation.ValidateProfile(req.Profile)
	errs = append(errs, validation.ValidatePurchase(req.Purchase)...)
	if len(errs) > 0 {
		h.respondValidationErrors(w, errs, op)
		return
	}

	metrics := affordability.CalculateMetrics(req.Profile)
	impact := affordability.CalculatePurchaseImpact(metrics, req.Purchase, req.Profile)
	evaluation := affordability.EvaluateAffordabilityRules(metrics, impact, req.Purchase.Amount)
	elapsed := time.Since(start)

	h.logger.Info("affordability evaluated",
		zap.String("op", op),
		zap.String("method", string(req.Purchase.PaymentMethod)),
		zap.String("decision", string(evaluation.Decision)),
		zap.Float64("score", evaluation.WeightedScore),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, affordabilityResponse{
		Metrics:    metrics,
		Impact:     impact,
		Evaluation: evaluation,
		Duration:   elapsed.String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) resolveMaxMonths(requested int) int {
	if requested <= 0 || requested > h.maxMonths {
		return h.maxMonths
	}
	return requested
}

// decodeJSON reads a bounded JSON body into dst; a false return means the
// error response was already written.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodyBytes), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondValidationErrors(w http.ResponseWriter, errs validation.Errors, op string) {
	h.logger.Warn("request failed validation",
		zap.String("op", op),
		zap.Int("fieldErrors", len(errs)),
		zap.String("error", errs.Error()),
	)

	h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": errs,
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
