package encoders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
)

const (
	CityColumn        = "city_full"
	CityEncodedColumn = "city_full_encoded"
)

// TargetEncoder maps a category to the smoothed target statistic learned for it.
// Unseen and missing categories fall back to the fitted prior.
type TargetEncoder struct {
	column  string
	output  string
	mapping map[string]float64
	prior   float64
}

type targetArtifact struct {
	Column  string             `json:"column"`
	Output  string             `json:"output"`
	Mapping map[string]float64 `json:"mapping"`
	Prior   *float64           `json:"prior"`
}

func NewTargetEncoder(column, output string, mapping map[string]float64, prior float64) *TargetEncoder {
	m := make(map[string]float64, len(mapping))
	for k, v := range mapping {
		m[k] = v
	}
	return &TargetEncoder{column: column, output: output, mapping: m, prior: prior}
}

func LoadTargetEncoder(r io.Reader) (*TargetEncoder, error) {
	artifact := targetArtifact{Column: CityColumn, Output: CityEncodedColumn}
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decoding target encoder: %w", err)
	}
	if artifact.Prior == nil {
		return nil, fmt.Errorf("target encoder has no prior: %w", ierrors.ErrConfiguration)
	}
	if artifact.Column == "" || artifact.Output == "" {
		return nil, fmt.Errorf("target encoder column and output are required: %w", ierrors.ErrConfiguration)
	}
	return NewTargetEncoder(artifact.Column, artifact.Output, artifact.Mapping, *artifact.Prior), nil
}

func (e *TargetEncoder) Column() string { return e.column }
func (e *TargetEncoder) Output() string { return e.output }
func (e *TargetEncoder) Prior() float64 { return e.prior }

func (e *TargetEncoder) Transform(code string, present bool) float64 {
	if !present {
		return e.prior
	}
	if v, ok := e.mapping[code]; ok {
		return v
	}
	return e.prior
}

func (e *TargetEncoder) Applies(b *frame.Batch) bool {
	return e != nil && b.Has(e.column)
}

// ApplyTargetEncoding writes the encoded column and drops the source column.
// It is a no-op when the encoder is nil or the batch lacks the source column.
func ApplyTargetEncoding(b *frame.Batch, e *TargetEncoder) *frame.Batch {
	if !e.Applies(b) {
		return b
	}
	values := make([]any, b.Len())
	for i := 0; i < b.Len(); i++ {
		v, _ := b.Value(i, e.column)
		code, ok := frame.ToCode(v)
		values[i] = e.Transform(code, ok)
	}
	return b.WithColumn(e.output, values).DropColumns(e.column)
}
