package pipeline

import (
	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/rs/zerolog/log"
)

const (
	PredictedPriceColumn = "predicted_price"
	ActualPriceColumn    = "actual_price"
)

// Output is owned by the caller of Run. Actuals is nil when the input carried no price
// and otherwise aligned 1:1 with Predictions; a nil entry is a row without a price.
type Output struct {
	Predictions []float64
	Actuals     []*float64
	Empty       bool
	Features    *aligner.Matrix
	Drift       aligner.Report
	Decisions   []Decision
}

func (o *Output) HasActuals() bool {
	return o.Actuals != nil
}

func (o *Output) record(d Decision, b *frame.Batch) {
	o.Decisions = append(o.Decisions, d)
	if !d.Applied {
		metric.Incr(metric.PipelineStageSkipped, metric.BuildTag(
			metric.NewTag(metric.TagStage, string(d.Stage)),
			metric.NewTag(metric.TagReason, d.Reason),
		))
	}
	log.Debug().Str("stage", string(d.Stage)).Bool("applied", d.Applied).Str("reason", d.Reason).
		Int("rows", b.Len()).Int("columns", b.Width()).Msg("pipeline stage")
}

// Frame renders the scored rows as the aligned features followed by predicted_price and,
// when present, actual_price.
func (o *Output) Frame() *frame.Batch {
	var features []string
	if o.Features != nil {
		features = o.Features.Columns()
	}
	columns := append(append([]string(nil), features...), PredictedPriceColumn)
	if o.HasActuals() {
		columns = append(columns, ActualPriceColumn)
	}
	rows := make([]frame.Record, len(o.Predictions))
	for i, p := range o.Predictions {
		r := frame.Record{PredictedPriceColumn: p}
		for j, c := range features {
			r[c] = o.Features.At(i, j)
		}
		if o.HasActuals() && o.Actuals[i] != nil {
			r[ActualPriceColumn] = *o.Actuals[i]
		}
		rows[i] = r
	}
	return frame.New(columns, rows)
}
