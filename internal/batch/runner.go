// Package batch scores CSV files offline with the same pipeline the API serves.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/artifacts"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/pipeline"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/tabular"
	"github.com/rs/zerolog/log"
)

const (
	filePrefix = "preds_"
	fileLayout = "20060102_150405"
)

type Result struct {
	Rows   int    `json:"rows_predicted"`
	Path   string `json:"path"`
	Output string `json:"output_dir"`
}

// ScoreFile reads input, runs the pipeline and writes the scored rows to output.
// A file with no rows left after cleaning is ErrNoRows and nothing is written.
func ScoreFile(ctx context.Context, o *pipeline.Orchestrator, loader *artifacts.Loader, refs artifacts.Refs, input, output string) (int, error) {
	b, err := tabular.ReadFile(input)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", input, err)
	}
	out, err := o.RunRefs(ctx, b, loader, refs)
	if err != nil {
		return 0, err
	}
	if out.Empty {
		return 0, fmt.Errorf("%s: %w", input, ierrors.ErrNoRows)
	}
	if err := tabular.WriteFile(output, out.Frame()); err != nil {
		return 0, fmt.Errorf("writing %s: %w", output, err)
	}
	log.Info().Str("input", input).Str("output", output).Int("rows", len(out.Predictions)).Msg("batch scored")
	return len(out.Predictions), nil
}

type Runner struct {
	orchestrator *pipeline.Orchestrator
	loader       *artifacts.Loader
	refs         artifacts.Refs
	input        string
	outputDir    string
	now          func() time.Time
}

func NewRunner(o *pipeline.Orchestrator, loader *artifacts.Loader, refs artifacts.Refs, input, outputDir string) *Runner {
	return &Runner{
		orchestrator: o,
		loader:       loader,
		refs:         refs,
		input:        input,
		outputDir:    outputDir,
		now:          time.Now,
	}
}

func (r *Runner) OutputDir() string {
	return r.outputDir
}

// Run scores the configured input into outputDir/preds_<YYYYMMDD_HHMMSS>.csv.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	path := filepath.Join(r.outputDir, filePrefix+r.now().Format(fileLayout)+".csv")
	rows, err := ScoreFile(ctx, r.orchestrator, r.loader, r.refs, r.input, path)
	if err != nil {
		log.Error().Err(err).Str("input", r.input).Msg("batch run failed")
		return Result{}, err
	}
	return Result{Rows: rows, Path: path, Output: r.outputDir}, nil
}
