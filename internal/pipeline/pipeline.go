// Package pipeline sequences the inference stages over one batch.
//
// The order is fixed: clean, date features, frequency encoding, target encoding, prune,
// extract actuals, align, predict. Optional stages are gated by an explicit capability
// check and record a Decision instead of failing.
package pipeline

import (
	"context"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/cleaning"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/encoders"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/features"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/predictor"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/pruner"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/metric"
	"github.com/rs/zerolog/log"
)

// Orchestrator holds only immutable stage configuration and is safe for concurrent runs.
type Orchestrator struct {
	cleaner  *cleaning.Cleaner
	enricher *features.Enricher
	pruner   *pruner.Pruner
	align    aligner.Options
}

type Option func(*Orchestrator)

func WithCleaner(c *cleaning.Cleaner) Option {
	return func(o *Orchestrator) {
		o.cleaner = c
	}
}

func WithEnricher(e *features.Enricher) Option {
	return func(o *Orchestrator) {
		o.enricher = e
	}
}

func WithPruner(p *pruner.Pruner) Option {
	return func(o *Orchestrator) {
		o.pruner = p
	}
}

func WithAlignOptions(opts aligner.Options) Option {
	return func(o *Orchestrator) {
		o.align = opts
	}
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cleaner:  cleaning.NewCleaner(cleaning.DefaultOutlierPolicy()),
		enricher: features.NewEnricher(),
		pruner:   pruner.NewPruner(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) AlignOptions() aligner.Options {
	return o.align
}

// RunRefs loads (or reuses) the artifacts named by refs and runs the batch through them.
func (o *Orchestrator) RunRefs(ctx context.Context, b *frame.Batch, loader *artifacts.Loader, refs artifacts.Refs) (*Output, error) {
	a, err := loader.Load(ctx, refs)
	if err != nil {
		log.Error().Err(err).Str("model_path", refs.Model.Path).Msg("loading artifacts failed")
		return nil, err
	}
	return o.Run(ctx, b, a)
}

// Run transforms and scores the batch. A batch that is empty, or becomes empty during
// cleaning, yields an Output with Empty set and the model is never called.
func (o *Orchestrator) Run(ctx context.Context, raw *frame.Batch, a *artifacts.Artifacts) (*Output, error) {
	start := time.Now()
	out := &Output{}
	defer func() {
		metric.Timing(metric.PipelineRunLatency, time.Since(start), nil)
	}()
	if a == nil || a.Model == nil || a.Schema == nil {
		return nil, &ierrors.ModelUnavailableError{Path: "<unset>"}
	}
	metric.Count(metric.PipelineRowsIn, int64(raw.Len()), nil)

	b := o.cleaner.Clean(raw)
	out.record(applied(StageClean), b)
	if b.IsEmpty() {
		out.Empty = true
		out.record(skipped(StagePredict, ReasonNoRows), b)
		log.Info().Int("rows_in", raw.Len()).Msg("no rows to predict")
		return out, nil
	}

	var derived []string
	if o.enricher.Applies(b) {
		var err error
		if b, err = o.enricher.AddDateFeatures(b); err != nil {
			log.Error().Err(err).Msg("date feature extraction failed")
			return nil, err
		}
		out.record(applied(StageDateFeatures), b)
		derived = o.enricher.Columns()
	} else {
		out.record(skipped(StageDateFeatures, ReasonNoDateColumn), b)
	}

	b = o.encode(out, b, StageFrequency, a.Frequency != nil, a.Frequency.Applies(b), func(b *frame.Batch) *frame.Batch {
		return encoders.ApplyFrequencyEncoding(b, a.Frequency)
	})
	b = o.encode(out, b, StageTarget, a.Target != nil, a.Target.Applies(b), func(b *frame.Batch) *frame.Batch {
		return encoders.ApplyTargetEncoding(b, a.Target)
	})

	if len(o.pruner.Matches(b)) > 0 {
		b = o.pruner.DropUnusedColumns(b)
		out.record(applied(StagePrune), b)
	} else {
		out.record(skipped(StagePrune, ReasonNothingToPrune), b)
	}

	if b.Has(pruner.PriceColumn) {
		out.Actuals = extractActuals(b)
		b = b.DropColumns(pruner.PriceColumn)
		out.record(applied(StageActuals), b)
	} else {
		out.record(skipped(StageActuals, ReasonNoPriceColumn), b)
	}

	alignOpts := o.align
	alignOpts.Derived = append(append([]string(nil), o.align.Derived...), derived...)
	m, report, err := aligner.Align(b, a.Schema.Columns(), alignOpts)
	out.Drift = report
	metric.Count(metric.SchemaColumnsSynthesized, int64(len(report.Synthesized)), nil)
	metric.Count(metric.SchemaColumnsDropped, int64(len(report.Dropped)), nil)
	if err != nil {
		log.Error().Err(err).Strs("missing", report.Synthesized).Strs("extra", report.Dropped).Msg("schema drift")
		return nil, err
	}
	if report.Drifted() {
		log.Warn().Strs("synthesized", report.Synthesized).Strs("dropped", report.Dropped).Msg("feature matrix realigned to training schema")
	}
	out.Features = m
	out.Decisions = append(out.Decisions, applied(StageAlign))

	preds, err := predictor.PredictRows(m, a.Model)
	if err != nil {
		metric.Incr(metric.PredictionErrorCount, metric.BuildTag(
			metric.NewTag(metric.TagErrorKind, ierrors.Kind(err)),
			metric.NewTag(metric.TagModelType, a.Model.Type()),
		))
		log.Error().Err(err).Str("model_path", a.ModelPath).Str("model_type", a.Model.Type()).Msg("prediction failed")
		return nil, err
	}
	out.Predictions = preds
	out.Decisions = append(out.Decisions, applied(StagePredict))
	metric.Count(metric.PipelineRowsOut, int64(len(preds)), nil)
	log.Info().Int("rows_in", raw.Len()).Int("rows_out", len(preds)).Int("columns", m.Cols()).
		Dur("elapsed", time.Since(start)).Msg("pipeline run complete")
	return out, nil
}

func (o *Orchestrator) encode(out *Output, b *frame.Batch, stage Stage, loaded, applies bool, apply func(*frame.Batch) *frame.Batch) *frame.Batch {
	switch {
	case !loaded:
		out.record(skipped(stage, ReasonNoArtifact), b)
		return b
	case !applies:
		out.record(skipped(stage, ReasonNoSourceColumn), b)
		return b
	}
	b = apply(b)
	out.record(applied(stage), b)
	return b
}

func extractActuals(b *frame.Batch) []*float64 {
	actuals := make([]*float64, b.Len())
	for i, v := range b.Column(pruner.PriceColumn) {
		if f, ok := frame.ToFloat(v); ok {
			actuals[i] = &f
		}
	}
	return actuals
}
