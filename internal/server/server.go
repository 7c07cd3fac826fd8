// Package server exposes the affordability engine over a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/home-affordability/internal/config"
	"github.com/iwvelando/home-affordability/internal/metrics"
	"github.com/iwvelando/home-affordability/internal/projection"
	"github.com/iwvelando/home-affordability/internal/solver"
	"github.com/iwvelando/home-affordability/pkg/constants"
	"github.com/iwvelando/home-affordability/pkg/thresholds"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger       *zap.Logger
	maxBodyBytes int64
	version      string
}

// NewHandler constructs the HTTP handler serving the affordability API.
func NewHandler(logger *zap.Logger, maxBodyBytes int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodyBytes <= 0 {
		maxBodyBytes = constants.DefaultMaxBodyBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodyBytes: maxBodyBytes, version: trimmedVersion}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/metrics", h.handleMetrics)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/projection", h.handleProjection)
	mux.HandleFunc("/api/options", h.handleOptions)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

// metricsRequest carries a profile snapshot. Absent fields keep the default
// snapshot's values so clients may send only what they changed.
type metricsRequest struct {
	Profile config.Inputs `json:"profile"`
}

type metricsResponse struct {
	Metrics  metrics.Metrics `json:"metrics"`
	Warnings []string        `json:"warnings,omitempty"`
	Duration string          `json:"duration"`
}

type solveRequest struct {
	Profile    config.Inputs `json:"profile"`
	Target     string        `json:"target"`
	CashTarget float64       `json:"cashTarget,omitempty"`
}

type solveResponse struct {
	Target   string                  `json:"target"`
	Results  []solver.ScenarioResult `json:"results"`
	Warnings []string                `json:"warnings,omitempty"`
	Duration string                  `json:"duration"`
}

type projectionRequest struct {
	Profile     config.Inputs          `json:"profile"`
	Assumptions projection.Assumptions `json:"assumptions"`
}

type projectionResponse struct {
	Start    projection.StartState     `json:"start"`
	Years    []projection.YearSnapshot `json:"years"`
	Duration string                    `json:"duration"`
}

type exportRequest struct {
	Profile    config.Inputs           `json:"profile"`
	Projection config.ProjectionConfig `json:"projection"`
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := "server.handleMetrics"

	req := metricsRequest{Profile: config.DefaultInputs()}
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	cfg := config.Configuration{Profile: req.Profile}
	m := metrics.Compute(req.Profile)

	response := metricsResponse{
		Metrics:  m,
		Warnings: cfg.ValidateConfiguration(),
		Duration: time.Since(start).String(),
	}

	h.logger.Info("metrics computed",
		zap.String("op", op),
		zap.Float64("homePrice", req.Profile.HomePrice),
		zap.Float64("piti", m.PITI),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := "server.handleSolve"

	req := solveRequest{Profile: config.DefaultInputs()}
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	target, err := solver.ParseTarget(req.Target)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if target == solver.TargetNone {
		h.respondError(w, http.StatusBadRequest, "no solve target designated", op)
		return
	}

	s := solver.New(h.logger)
	if req.CashTarget > 0 {
		s = solver.NewWithCashTarget(h.logger, req.CashTarget)
	}

	results, err := s.SolveScenarios(req.Profile, target, thresholds.Tiers())
	if err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	cfg := config.Configuration{Profile: req.Profile}
	response := solveResponse{
		Target:   target.String(),
		Results:  results,
		Warnings: cfg.ValidateConfiguration(),
		Duration: time.Since(start).String(),
	}

	h.logger.Info("scenarios solved",
		zap.String("op", op),
		zap.String("target", target.String()),
		zap.Int("results", len(results)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := "server.handleProjection"

	req := projectionRequest{
		Profile:     config.DefaultInputs(),
		Assumptions: projection.AssumptionsFromConfig(config.DefaultProjection()),
	}
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	m := metrics.Compute(req.Profile)
	startState := projection.StartFromMetrics(req.Profile, m)
	years := projection.Project(h.logger, startState, req.Assumptions)

	response := projectionResponse{
		Start:    startState,
		Years:    years,
		Duration: time.Since(start).String(),
	}

	h.logger.Info("projection computed",
		zap.String("op", op),
		zap.Int("horizonYears", req.Assumptions.HorizonYears),
	)
	h.writeJSON(w, http.StatusOK, response)
}

type optionsResponse struct {
	FractionOptions []solver.DownPaymentOption `json:"fractionOptions"`
	PriceOptions    []solver.DownPaymentOption `json:"priceOptions"`
	Closest         *solver.DownPaymentOption  `json:"closest,omitempty"`
	Duration        string                     `json:"duration"`
}

// handleOptions returns both what-if grids for the posted profile: the
// fraction ladder at the current price, and the price ladder for the current
// down-payment dollar amount.
func (h *handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := "server.handleOptions"

	req := metricsRequest{Profile: config.DefaultInputs()}
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	s := solver.New(h.logger)
	fractionOptions := s.DownPaymentOptions(req.Profile)
	priceOptions := s.PriceOptionsForDownPayment(req.Profile)

	response := optionsResponse{
		FractionOptions: fractionOptions,
		PriceOptions:    priceOptions,
		Duration:        time.Since(start).String(),
	}
	if closest, ok := solver.ClosestOption(fractionOptions, req.Profile.DownPaymentFraction); ok {
		response.Closest = &closest
	}

	h.logger.Info("options computed",
		zap.String("op", op),
		zap.Int("rows", len(fractionOptions)+len(priceOptions)),
	)
	h.writeJSON(w, http.StatusOK, response)
}

// handleExport serializes the posted profile as a YAML configuration file so
// an API client can reproduce its session on the command line.
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	op := "server.handleExport"

	req := exportRequest{
		Profile:    config.DefaultInputs(),
		Projection: config.DefaultProjection(),
	}
	if !h.decodeRequest(w, r, &req, op) {
		return
	}

	cfg := config.Configuration{
		Profile:    req.Profile,
		Projection: req.Projection,
	}
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
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

// decodeRequest enforces the method and body limit, then decodes JSON into
// dst. It writes the error response itself and reports whether the handler
// should proceed.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodyBytes), op)
			return false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
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
