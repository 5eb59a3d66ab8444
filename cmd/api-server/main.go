package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/app"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/batch"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/cache"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/config"
	httpserver "github.com/Meesho/BharatMLStack/housing-inference/internal/server/http"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/logger"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/rs/zerolog/log"
)

func main() {
	appConfig := config.GetAppConfig()
	config.InitConfig(appConfig)
	cfg := appConfig.Configs
	logger.Init()
	metric.Init(metric.Options{
		AppName:      cfg.AppName,
		AppEnv:       cfg.AppEnv,
		Address:      fmt.Sprintf("%s:%d", cfg.TelegrafHost, cfg.TelegrafPort),
		SamplingRate: cfg.AppMetricSampling,
	})

	o, err := app.NewOrchestrator(&cfg)
	if err != nil {
		log.Panic().Err(err).Msg("Invalid pipeline configuration")
	}
	store, err := app.NewStore(&cfg)
	if err != nil {
		log.Panic().Err(err).Msg("Failed to create artifact store")
	}
	loader := artifacts.NewLoader(store)
	refs := cfg.Refs()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// warm the artifact memo; failures are reported per request
	if _, err := loader.Load(ctx, refs); err != nil {
		log.Error().Err(err).Msg("Artifacts not available at startup")
	}

	var opts []httpserver.HandlerOption
	if c := cache.NewV1("predictions", cfg.CacheSizeInBytes); c != nil {
		defer c.Close()
		opts = append(opts, httpserver.WithResponseCache(c, cfg.CacheTTLSec))
	}
	runner := batch.NewRunner(o, loader, refs, cfg.BatchInputPath(), cfg.PredictionsPath())
	httpserver.Init(cfg, httpserver.NewHandler(o, loader, refs, runner, opts...))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: httpserver.Instance(),
	}
	go func() {
		log.Info().Msgf("Starting housing inference http server on port :%d", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panic().Err(err).Msg("Error running http server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
