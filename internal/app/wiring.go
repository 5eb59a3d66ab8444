// Package app builds the shared pipeline objects from static configuration.
package app

import (
	"fmt"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/cleaning"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/config"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/features"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/pipeline"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/pruner"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/tabular"
	"github.com/rs/zerolog/log"
)

func NewOrchestrator(cfg *config.Configs) (*pipeline.Orchestrator, error) {
	dateFeatures, err := features.ParseFeatures(cfg.DateFeatureList())
	if err != nil {
		return nil, err
	}
	var cleanerOpts []cleaning.Option
	if path := cfg.ReferenceBatchPath(); path != "" {
		reference, err := tabular.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading reference batch: %w", err)
		}
		log.Info().Str("path", path).Int("rows", reference.Len()).Msg("merging reference batch into every run")
		cleanerOpts = append(cleanerOpts, cleaning.WithReference(reference))
	}
	return pipeline.NewOrchestrator(
		pipeline.WithCleaner(cleaning.NewCleaner(cfg.OutlierPolicy(), cleanerOpts...)),
		pipeline.WithEnricher(features.NewEnricher(dateFeatures...)),
		pipeline.WithPruner(pruner.NewPruner(cfg.PruneColumnList()...)),
		pipeline.WithAlignOptions(cfg.AlignOptions()),
	), nil
}

// NewStore returns an S3 backed store when S3_ENABLED is set, and a local one otherwise.
func NewStore(cfg *config.Configs) (*artifacts.Store, error) {
	if !cfg.S3Enabled {
		log.Info().Msg("S3 disabled, artifacts are read from local paths only")
		return artifacts.NewLocalStore(), nil
	}
	fetcher, err := artifacts.NewS3Fetcher(cfg.AwsRegion)
	if err != nil {
		return nil, fmt.Errorf("creating s3 client: %w", err)
	}
	log.Info().Str("bucket", cfg.S3Bucket).Str("region", cfg.AwsRegion).Msg("S3 artifact store enabled")
	return artifacts.NewStore(cfg.S3Bucket, fetcher), nil
}
