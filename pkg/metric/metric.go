package metric

import (
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

const (
	ApiRequestCount          = "api_request_count"
	ApiRequestLatency        = "api_request_latency"
	PipelineRunLatency       = "pipeline_run_latency"
	PipelineRowsIn           = "pipeline_rows_in"
	PipelineRowsOut          = "pipeline_rows_out"
	PipelineStageSkipped     = "pipeline_stage_skipped"
	SchemaColumnsSynthesized = "schema_columns_synthesized"
	SchemaColumnsDropped     = "schema_columns_dropped"
	PredictionErrorCount     = "prediction_error_count"
	ArtifactDownloadCount    = "artifact_download_count"
	ArtifactDownloadLatency  = "artifact_download_latency"
	ResponseCacheHitCount    = "response_cache_hit_count"
	ResponseCacheMissCount   = "response_cache_miss_count"
)

var (
	// it is safe to use one client from multiple goroutines simultaneously
	statsDClient = getDefaultClient()
	// by default full sampling
	samplingRate = 1.0
	appName      = ""
	initialized  = false
	once         sync.Once
)

type Options struct {
	AppName      string
	AppEnv       string
	Address      string
	SamplingRate float64
}

// Init initializes the metrics client
func Init(opts Options) {
	if initialized {
		log.Debug().Msgf("Metrics already initialized!")
		return
	}
	once.Do(func() {
		appName = opts.AppName
		if opts.SamplingRate > 0 {
			samplingRate = opts.SamplingRate
		}
		globalTags := []string{
			TagAsString(TagEnv, opts.AppEnv),
			TagAsString(TagService, opts.AppName),
		}
		client, err := statsd.New(opts.Address, statsd.WithTags(globalTags))
		if err != nil {
			// telegraf is not always present locally, keep the default client
			log.Error().Err(err).Msg("StatsD client initialization failed, metrics will be unavailable")
			initialized = true
			return
		}
		statsDClient = client
		log.Info().Msgf("Metrics client initialized with telegraf address - %s, global tags - %v, and "+
			"sampling rate - %f", opts.Address, globalTags, samplingRate)
		initialized = true
	})
}

func getDefaultClient() *statsd.Client {
	client, err := statsd.New("localhost:8125")
	if err != nil {
		client, _ = statsd.New("localhost:8125", statsd.WithoutTelemetry())
	}
	return client
}

// Timing sends timing information
func Timing(name string, value time.Duration, tags []string) {
	if statsDClient == nil {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Timing(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd timing", err)
	}
}

// Count increases metric counter by value
func Count(name string, value int64, tags []string) {
	if statsDClient == nil {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Count(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd count", err)
	}
}

// Incr increases metric counter by 1
func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Gauge(name string, value float64, tags []string) {
	if statsDClient == nil {
		return
	}
	tags = append(tags, TagAsString(TagService, appName))
	if err := statsDClient.Gauge(name, value, tags, samplingRate); err != nil {
		log.Warn().AnErr("Error occurred while doing statsd gauge", err)
	}
}
