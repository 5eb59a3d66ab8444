package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTag(t *testing.T) {
	tags := BuildTag(NewTag(TagStage, "align"), NewTag(TagReason, "no_artifact"))

	assert.Equal(t, []string{"stage:align", "reason:no_artifact"}, tags)
	assert.Empty(t, BuildTag())
}

func TestTagAsString_NormalizesValue(t *testing.T) {
	assert.Equal(t, "path:/predict_a_b_c_d", TagAsString(TagPath, "/predict:a,b|c#d"))
	assert.Equal(t, "path:_x_y_z", TagAsString(TagPath, "@x y\\z"))
	assert.Equal(t, "path:/latest_predictions", TagAsString(TagPath, "/latest_predictions"))
}

func TestCountWithoutInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Incr(PipelineStageSkipped, BuildTag(NewTag(TagStage, "prune")))
		Timing(PipelineRunLatency, 0, nil)
		Gauge("prediction_cache_hit_rate", 0.5, nil)
	})
}
