package config

import (
	"path/filepath"
	"strings"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/cleaning"
)

var (
	appConfig AppConfig
)

type AppConfig struct {
	Configs Configs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

type Configs struct {
	AppName            string  `mapstructure:"app_name"`
	AppEnv             string  `mapstructure:"app_env"`
	AppLogLevel        string  `mapstructure:"app_log_level"`
	AppPort            int     `mapstructure:"app_port"`
	AppMetricSampling  float64 `mapstructure:"app_metric_sampling_rate"`
	TelegrafHost       string  `mapstructure:"telegraf_host"`
	TelegrafPort       int     `mapstructure:"telegraf_port"`
	ApiKey             string  `mapstructure:"api_key"`
	AwsRegion          string  `mapstructure:"aws_region"`
	S3Bucket           string  `mapstructure:"s3_bucket"`
	S3Enabled          bool    `mapstructure:"s3_enabled"`
	ProjectRoot        string  `mapstructure:"project_root"`
	ModelsDir          string  `mapstructure:"models_dir"`
	DataDir            string  `mapstructure:"data_dir"`
	PredictionsDir     string  `mapstructure:"predictions_dir"`
	ModelName          string  `mapstructure:"model_name"`
	FreqEncoderName    string  `mapstructure:"freq_encoder_name"`
	TargetEncoderName  string  `mapstructure:"target_encoder_name"`
	TrainFeaturesFile  string  `mapstructure:"train_features_file"`
	BatchInputFile     string  `mapstructure:"batch_input_file"`
	ReferenceBatchFile string  `mapstructure:"reference_batch_file"`
	AlignStrict        bool    `mapstructure:"align_strict"`
	AlignMaxMissing    int     `mapstructure:"align_max_missing_columns"`
	AlignMaxExtra      int     `mapstructure:"align_max_extra_columns"`
	PruneColumns       string  `mapstructure:"prune_columns"`
	DateFeatures       string  `mapstructure:"date_features"`
	OutlierBedroomsMin float64 `mapstructure:"outlier_bedrooms_min"`
	OutlierBedroomsMax float64 `mapstructure:"outlier_bedrooms_max"`
	OutlierBathsMin    float64 `mapstructure:"outlier_bathrooms_min"`
	OutlierBathsMax    float64 `mapstructure:"outlier_bathrooms_max"`
	OutlierSqftMin     float64 `mapstructure:"outlier_sqft_living_min"`
	OutlierSqftMax     float64 `mapstructure:"outlier_sqft_living_max"`
	OutlierPriceMin    float64 `mapstructure:"outlier_price_min"`
	CacheSizeInBytes   int     `mapstructure:"prediction_cache_size_in_bytes"`
	CacheTTLSec        int     `mapstructure:"prediction_cache_ttl_sec"`
}

func (c *Configs) root(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.ProjectRoot, dir)
}

func (c *Configs) ModelPath() string {
	return filepath.Join(c.root(c.ModelsDir), c.ModelName)
}

func (c *Configs) FreqEncoderPath() string {
	return filepath.Join(c.root(c.ModelsDir), c.FreqEncoderName)
}

func (c *Configs) TargetEncoderPath() string {
	return filepath.Join(c.root(c.ModelsDir), c.TargetEncoderName)
}

func (c *Configs) TrainFeaturesPath() string {
	return filepath.Join(c.root(c.DataDir), "processed", c.TrainFeaturesFile)
}

func (c *Configs) PredictionsPath() string {
	return c.root(c.PredictionsDir)
}

func (c *Configs) BatchInputPath() string {
	return c.root(c.BatchInputFile)
}

// ReferenceBatchPath is empty when no secondary source is merged into each batch.
func (c *Configs) ReferenceBatchPath() string {
	if c.ReferenceBatchFile == "" {
		return ""
	}
	return c.root(c.ReferenceBatchFile)
}

// Refs maps the configured artifact names to their object-store keys and local paths.
func (c *Configs) Refs() artifacts.Refs {
	return artifacts.Refs{
		Model:         artifacts.Ref{Key: "models/" + c.ModelName, Path: c.ModelPath()},
		FreqEncoder:   artifacts.Ref{Key: "models/" + c.FreqEncoderName, Path: c.FreqEncoderPath()},
		TargetEncoder: artifacts.Ref{Key: "models/" + c.TargetEncoderName, Path: c.TargetEncoderPath()},
		Schema:        artifacts.Ref{Key: "processed/" + c.TrainFeaturesFile, Path: c.TrainFeaturesPath()},
	}
}

// AlignOptions leaves the tolerances at zero unless they are configured.
func (c *Configs) AlignOptions() aligner.Options {
	return aligner.Options{
		Strict:     c.AlignStrict,
		MaxMissing: c.AlignMaxMissing,
		MaxExtra:   c.AlignMaxExtra,
	}
}

func (c *Configs) OutlierPolicy() cleaning.OutlierPolicy {
	policy := cleaning.DefaultOutlierPolicy()
	for i, b := range policy.Bounds {
		switch b.Column {
		case "bedrooms":
			policy.Bounds[i].Min, policy.Bounds[i].Max = c.OutlierBedroomsMin, c.OutlierBedroomsMax
		case "bathrooms":
			policy.Bounds[i].Min, policy.Bounds[i].Max = c.OutlierBathsMin, c.OutlierBathsMax
		case "sqft_living":
			policy.Bounds[i].Min, policy.Bounds[i].Max = c.OutlierSqftMin, c.OutlierSqftMax
		case "price":
			policy.Bounds[i].Min = c.OutlierPriceMin
		}
	}
	return policy
}

func (c *Configs) PruneColumnList() []string {
	return splitList(c.PruneColumns)
}

func (c *Configs) DateFeatureList() []string {
	return splitList(c.DateFeatures)
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
