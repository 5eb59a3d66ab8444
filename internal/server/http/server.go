package http

import (
	"sync"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	router *gin.Engine
	once   sync.Once
)

func Init(cfg config.Configs, h *Handler) {
	once.Do(func() {
		router = NewRouter(cfg.AppEnv, cfg.ApiKey, h)
	})
}

func Instance() *gin.Engine {
	if router == nil {
		log.Fatal().Msg("Router not initialized")
	}
	return router
}

// NewRouter wires every route onto a fresh engine. Only /predict requires the API key.
func NewRouter(env, apiKey string, h *Handler) *gin.Engine {
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(HTTPLogger())

	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/health/self", h.Health)
	r.POST("/predict", APIKeyAuth(apiKey), h.Predict)
	r.POST("/run_batch", h.RunBatch)
	r.GET("/latest_predictions", h.LatestPredictions)
	return r
}
