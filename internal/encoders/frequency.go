package encoders

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
)

const (
	ZipcodeColumn     = "zipcode"
	ZipcodeFreqColumn = "zipcode_freq"
)

// FrequencyEncoder replaces a categorical code with how often it was seen at training
// time. It is immutable once loaded and shared by all requests.
type FrequencyEncoder struct {
	column      string
	output      string
	frequencies map[string]float64
}

type frequencyArtifact struct {
	Column  string             `json:"column"`
	Output  string             `json:"output"`
	Mapping map[string]float64 `json:"mapping"`
}

func NewFrequencyEncoder(column, output string, frequencies map[string]float64) *FrequencyEncoder {
	m := make(map[string]float64, len(frequencies))
	for k, v := range frequencies {
		m[k] = v
	}
	return &FrequencyEncoder{column: column, output: output, frequencies: m}
}

// LoadFrequencyEncoder reads either a bare {"code": frequency} object or
// {"column": ..., "output": ..., "mapping": {...}}. Column defaults to zipcode.
func LoadFrequencyEncoder(r io.Reader) (*FrequencyEncoder, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding frequency encoder: %w", err)
	}
	artifact := frequencyArtifact{Column: ZipcodeColumn, Output: ZipcodeFreqColumn}
	if mapping, ok := raw["mapping"]; ok {
		if err := json.Unmarshal(mapping, &artifact.Mapping); err != nil {
			return nil, fmt.Errorf("decoding frequency mapping: %w", err)
		}
		if err := unmarshalOptionalString(raw, "column", &artifact.Column); err != nil {
			return nil, err
		}
		if err := unmarshalOptionalString(raw, "output", &artifact.Output); err != nil {
			return nil, err
		}
	} else {
		artifact.Mapping = make(map[string]float64, len(raw))
		for code, v := range raw {
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				return nil, fmt.Errorf("frequency for %q is not a number: %w", code, ierrors.ErrConfiguration)
			}
			artifact.Mapping[code] = f
		}
	}
	for code, f := range artifact.Mapping {
		if f < 0 {
			return nil, fmt.Errorf("negative frequency for %q: %w", code, ierrors.ErrConfiguration)
		}
	}
	return NewFrequencyEncoder(artifact.Column, artifact.Output, artifact.Mapping), nil
}

func (e *FrequencyEncoder) Column() string { return e.column }
func (e *FrequencyEncoder) Output() string { return e.output }
func (e *FrequencyEncoder) Len() int { return len(e.frequencies) }

// Frequency returns the learned frequency; unseen codes are 0.
func (e *FrequencyEncoder) Frequency(code string) float64 {
	return e.frequencies[code]
}

func (e *FrequencyEncoder) Applies(b *frame.Batch) bool {
	return e != nil && b.Has(e.column)
}

// ApplyFrequencyEncoding writes the frequency column and drops the source column.
// It is a no-op when the encoder is nil or the batch lacks the source column.
func ApplyFrequencyEncoding(b *frame.Batch, e *FrequencyEncoder) *frame.Batch {
	if !e.Applies(b) {
		return b
	}
	values := make([]any, b.Len())
	for i := 0; i < b.Len(); i++ {
		v, _ := b.Value(i, e.column)
		code, ok := frame.ToCode(v)
		if !ok {
			values[i] = 0.0
			continue
		}
		values[i] = e.Frequency(code)
	}
	return b.WithColumn(e.output, values).DropColumns(e.column)
}

func unmarshalOptionalString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}
