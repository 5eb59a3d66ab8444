package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/batch"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/cache"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/pipeline"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	serviceName         = "housing-api"
	defaultPreviewLimit = 5
)

type PredictResponse struct {
	Predictions []float64  `json:"predictions"`
	Actuals     []*float64 `json:"actuals,omitempty"`
}

type Handler struct {
	orchestrator *pipeline.Orchestrator
	loader       *artifacts.Loader
	refs         artifacts.Refs
	runner       *batch.Runner
	cache        cache.ResponseCache
	cacheTTL     int
	cacheScope   string
}

type HandlerOption func(*Handler)

// WithResponseCache serves repeated request bodies from c for ttlSec seconds.
func WithResponseCache(c cache.ResponseCache, ttlSec int) HandlerOption {
	return func(h *Handler) {
		h.cache = c
		h.cacheTTL = ttlSec
	}
}

func NewHandler(o *pipeline.Orchestrator, loader *artifacts.Loader, refs artifacts.Refs, runner *batch.Runner, opts ...HandlerOption) *Handler {
	h := &Handler{
		orchestrator: o,
		loader:       loader,
		refs:         refs,
		runner:       runner,
		cacheScope:   cacheScope(o, refs),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// cacheScope ties cached responses to the artifacts and the alignment tolerances.
func cacheScope(o *pipeline.Orchestrator, refs artifacts.Refs) string {
	return refs.Model.Path + "|" + refs.Schema.Path + "|" + o.AlignOptions().Fingerprint()
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Housing Price Prediction API is running"})
}

func (h *Handler) Health(c *gin.Context) {
	status := gin.H{
		"status":     "healthy",
		"model_path": h.refs.Model.Path,
		"service":    serviceName,
	}
	if _, err := os.Stat(h.refs.Model.Path); err != nil {
		status["status"] = "unhealthy"
		status["error"] = "Model not found"
		log.Error().Str("model_path", h.refs.Model.Path).Msg("Health check failed: model not found")
		c.JSON(http.StatusOK, status)
		return
	}
	if reg, err := h.loader.Schema(c.Request.Context(), h.refs.Schema); err == nil {
		status["n_features_expected"] = reg.Len()
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) Predict(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	key := cache.Key(h.cacheScope, body)
	if h.cache != nil {
		if cached, err := h.cache.Get(key); err == nil {
			metric.Incr(metric.ResponseCacheHitCount, nil)
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
		metric.Incr(metric.ResponseCacheMissCount, nil)
	}

	var records []map[string]any
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON array of records"})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	out, err := h.orchestrator.RunRefs(c.Request.Context(), frame.FromRecords(records), h.loader, h.refs)
	if err != nil {
		writeError(c, err)
		return
	}
	if out.Empty {
		writeError(c, ierrors.ErrNoRows)
		return
	}
	resp := PredictResponse{Predictions: out.Predictions}
	if out.HasActuals() {
		resp.Actuals = out.Actuals
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		writeError(c, &ierrors.PredictionError{Cause: err})
		return
	}
	if h.cache != nil {
		if err := h.cache.SetEx(key, payload, h.cacheTTL); err != nil {
			log.Warn().Err(err).Msg("caching prediction response failed")
		}
	}
	log.Info().Int("num_predictions", len(resp.Predictions)).Msg("Prediction completed")
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *Handler) RunBatch(c *gin.Context) {
	res, err := h.runner.Run(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"rows_predicted": res.Rows,
		"output_dir":     res.Output,
		"file":           res.Path,
	})
}

func (h *Handler) LatestPredictions(c *gin.Context) {
	limit := defaultPreviewLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	p, err := batch.Latest(h.runner.OutputDir(), limit)
	if errors.Is(err, batch.ErrNoPredictions) {
		c.JSON(http.StatusOK, gin.H{"error": "No predictions found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// statusFor maps an error kind to the HTTP status returned for it.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ierrors.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ierrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ierrors.ErrSchemaDrift):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	code := statusFor(err)
	msg := err.Error()
	switch {
	case errors.Is(err, ierrors.ErrNoRows):
		msg = "no rows to predict"
	case code == http.StatusInternalServerError:
		msg = "Prediction failed"
	}
	c.JSON(code, gin.H{"error": msg, "kind": ierrors.Kind(err)})
}
