package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
)

const (
	TypeLinear       = "linear"
	TypeTreeEnsemble = "tree_ensemble"
)

// Model scores an aligned matrix. Implementations are immutable after load and safe for
// concurrent use.
type Model interface {
	Type() string
	// Features returns the feature names the model was fit on
	Features() []string
	Predict(m *aligner.Matrix) ([]float64, error)
}

type envelope struct {
	Type string `json:"type"`
}

// Load reads a model artifact from disk. Anything that keeps the model from being
// located or decoded is a ModelUnavailableError.
func Load(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ierrors.ModelUnavailableError{Path: path, Cause: err}
	}
	defer f.Close()
	model, err := Decode(f)
	if err != nil {
		return nil, &ierrors.ModelUnavailableError{Path: path, Cause: err}
	}
	return model, nil
}

func Decode(r io.Reader) (Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	switch env.Type {
	case TypeLinear:
		return decodeLinear(raw)
	case TypeTreeEnsemble:
		return decodeTreeEnsemble(raw)
	case "":
		return nil, errors.New("model artifact has no type")
	default:
		return nil, fmt.Errorf("unsupported model type %q", env.Type)
	}
}

// PredictRows returns one prediction per matrix row, in row order. Every failure during
// scoring, including a panic inside the model, is reported as a PredictionError.
func PredictRows(m *aligner.Matrix, model Model) (preds []float64, err error) {
	if model == nil {
		return nil, &ierrors.ModelUnavailableError{Path: "<nil>"}
	}
	if m == nil || m.Rows() == 0 {
		return nil, ierrors.ErrNoRows
	}
	if err := m.Validate(); err != nil {
		return nil, &ierrors.PredictionError{Cause: err}
	}
	defer func() {
		if r := recover(); r != nil {
			preds = nil
			err = &ierrors.PredictionError{Cause: fmt.Errorf("model panicked: %v", r)}
		}
	}()
	preds, err = model.Predict(m)
	if err != nil {
		return nil, &ierrors.PredictionError{Cause: err}
	}
	if len(preds) != m.Rows() {
		return nil, &ierrors.PredictionError{Cause: fmt.Errorf("model returned %d predictions for %d rows", len(preds), m.Rows())}
	}
	return preds, nil
}
