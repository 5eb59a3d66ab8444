package config

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	initialized = false
	once        sync.Once
)

type ConfigHolder interface {
	GetStaticConfig() interface{}
}

func InitEnv() {
	if initialized {
		log.Debug().Msg("Env already initialized!")
		return
	}
	once.Do(func() {
		viper.AutomaticEnv()
		initialized = true
		log.Info().Msg("Env initialized!")
	})
}

// InitConfig populates the holder's static config from the environment.
func InitConfig(configHolder ConfigHolder) {
	InitEnv()
	cfg, ok := configHolder.GetStaticConfig().(*Configs)
	if !ok {
		log.Fatal().Msg("Failed to cast static config to *Configs")
	}
	if err := Load(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to unmarshal config from environment")
	}
}

// Load binds every key and unmarshals the current viper state into cfg.
func Load(cfg *Configs) error {
	setDefaults()
	bindEnvVars()
	return viper.Unmarshal(cfg)
}

func setDefaults() {
	viper.SetDefault("app_name", "housing-api")
	viper.SetDefault("app_env", "development")
	viper.SetDefault("app_log_level", "INFO")
	viper.SetDefault("app_port", 8000)
	viper.SetDefault("app_metric_sampling_rate", 1.0)
	viper.SetDefault("telegraf_host", "localhost")
	viper.SetDefault("telegraf_port", 8125)
	viper.SetDefault("aws_region", "ap-south-1")
	viper.SetDefault("s3_bucket", "housing-data-artifacts")
	viper.SetDefault("project_root", ".")
	viper.SetDefault("models_dir", "models")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("predictions_dir", "data/predictions")
	viper.SetDefault("model_name", "model.json")
	viper.SetDefault("freq_encoder_name", "freq_encoder.json")
	viper.SetDefault("target_encoder_name", "target_encoder.json")
	viper.SetDefault("train_features_file", "feature_engineered_train.csv")
	viper.SetDefault("batch_input_file", "data/raw/holdout.csv")
	viper.SetDefault("outlier_bedrooms_min", 1)
	viper.SetDefault("outlier_bedrooms_max", 20)
	viper.SetDefault("outlier_bathrooms_min", 0.25)
	viper.SetDefault("outlier_bathrooms_max", 10)
	viper.SetDefault("outlier_sqft_living_min", 100)
	viper.SetDefault("outlier_sqft_living_max", 20000)
	viper.SetDefault("outlier_price_min", 0)
	viper.SetDefault("prediction_cache_ttl_sec", 300)
}

func bindEnvVars() {
	// App configuration
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("api_key", "API_KEY")

	// Metrics configuration
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")

	// Artifact store configuration
	viper.BindEnv("aws_region", "AWS_REGION")
	viper.BindEnv("s3_bucket", "S3_BUCKET")
	viper.BindEnv("s3_enabled", "S3_ENABLED")
	viper.BindEnv("project_root", "PROJECT_ROOT")
	viper.BindEnv("models_dir", "MODELS_DIR")
	viper.BindEnv("data_dir", "DATA_DIR")
	viper.BindEnv("predictions_dir", "PREDICTIONS_DIR")
	viper.BindEnv("model_name", "MODEL_NAME")
	viper.BindEnv("freq_encoder_name", "FREQ_ENCODER_NAME")
	viper.BindEnv("target_encoder_name", "TARGET_ENCODER_NAME")
	viper.BindEnv("train_features_file", "TRAIN_FEATURES_FILE")
	viper.BindEnv("batch_input_file", "BATCH_INPUT_FILE")
	viper.BindEnv("reference_batch_file", "REFERENCE_BATCH_FILE")

	// Pipeline configuration
	viper.BindEnv("align_strict", "ALIGN_STRICT")
	viper.BindEnv("align_max_missing_columns", "ALIGN_MAX_MISSING_COLUMNS")
	viper.BindEnv("align_max_extra_columns", "ALIGN_MAX_EXTRA_COLUMNS")
	viper.BindEnv("prune_columns", "PRUNE_COLUMNS")
	viper.BindEnv("date_features", "DATE_FEATURES")
	viper.BindEnv("outlier_bedrooms_min", "OUTLIER_BEDROOMS_MIN")
	viper.BindEnv("outlier_bedrooms_max", "OUTLIER_BEDROOMS_MAX")
	viper.BindEnv("outlier_bathrooms_min", "OUTLIER_BATHROOMS_MIN")
	viper.BindEnv("outlier_bathrooms_max", "OUTLIER_BATHROOMS_MAX")
	viper.BindEnv("outlier_sqft_living_min", "OUTLIER_SQFT_LIVING_MIN")
	viper.BindEnv("outlier_sqft_living_max", "OUTLIER_SQFT_LIVING_MAX")
	viper.BindEnv("outlier_price_min", "OUTLIER_PRICE_MIN")

	// Response cache configuration
	viper.BindEnv("prediction_cache_size_in_bytes", "PREDICTION_CACHE_SIZE_IN_BYTES")
	viper.BindEnv("prediction_cache_ttl_sec", "PREDICTION_CACHE_TTL_SEC")
}
