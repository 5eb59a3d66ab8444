package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	"gonum.org/v1/gonum/mat"
)

type linearArtifact struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// LinearModel is y = intercept + X·w with weights keyed by feature name.
type LinearModel struct {
	intercept    float64
	coefficients map[string]float64
}

func NewLinearModel(intercept float64, coefficients map[string]float64) *LinearModel {
	c := make(map[string]float64, len(coefficients))
	for k, v := range coefficients {
		c[k] = v
	}
	return &LinearModel{intercept: intercept, coefficients: c}
}

func decodeLinear(raw []byte) (*LinearModel, error) {
	var a linearArtifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decoding linear model: %w", err)
	}
	if len(a.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	return NewLinearModel(a.Intercept, a.Coefficients), nil
}

func (l *LinearModel) Type() string {
	return TypeLinear
}

func (l *LinearModel) Features() []string {
	out := make([]string, 0, len(l.coefficients))
	for k := range l.coefficients {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (l *LinearModel) Predict(m *aligner.Matrix) ([]float64, error) {
	columns := m.Columns()
	if len(columns) != len(l.coefficients) {
		return nil, fmt.Errorf("model expects %d features, matrix has %d", len(l.coefficients), len(columns))
	}
	w := make([]float64, len(columns))
	for j, c := range columns {
		v, ok := l.coefficients[c]
		if !ok {
			return nil, fmt.Errorf("feature %q was not seen at fit time", c)
		}
		w[j] = v
	}
	if m.Rows() == 0 {
		return []float64{}, nil
	}
	var y mat.VecDense
	y.MulVec(m.Dense(), mat.NewVecDense(len(w), w))
	out := make([]float64, m.Rows())
	for i := range out {
		p := y.AtVec(i) + l.intercept
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("non-finite prediction for row %d", i)
		}
		out[i] = p
	}
	return out, nil
}
