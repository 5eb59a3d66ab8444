package predictor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/aligner"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const linearJSON = `{"type": "linear", "intercept": 1000, "coefficients": {"bedrooms": 100, "sqft_living": 2}}`

const treeJSON = `{
  "type": "tree_ensemble",
  "base_score": 0.5,
  "feature_names": ["bedrooms", "sqft_living"],
  "trees": [
    {"nodeid": 0, "split": "sqft_living", "split_condition": 1500, "yes": 1, "no": 2, "missing": 1,
     "children": [{"nodeid": 1, "leaf": 10}, {"nodeid": 2, "leaf": 20}]},
    {"nodeid": 0, "split": "bedrooms", "split_condition": 3, "yes": 1, "no": 2, "missing": 2,
     "children": [{"nodeid": 1, "leaf": 1}, {"nodeid": 2, "leaf": 2}]}
  ]
}`

func matrix(t *testing.T, columns []string, rows ...frame.Record) *aligner.Matrix {
	t.Helper()
	m, _, err := aligner.Align(frame.New(columns, rows), columns, aligner.Options{})
	require.NoError(t, err)
	return m
}

func TestLinearModel_PredictRows(t *testing.T) {
	model, err := Decode(strings.NewReader(linearJSON))
	require.NoError(t, err)
	assert.Equal(t, TypeLinear, model.Type())
	assert.Equal(t, []string{"bedrooms", "sqft_living"}, model.Features())

	m := matrix(t, []string{"sqft_living", "bedrooms"},
		frame.Record{"sqft_living": 2000.0, "bedrooms": 3.0},
		frame.Record{"sqft_living": 1000.0, "bedrooms": 2.0},
	)

	preds, err := PredictRows(m, model)

	require.NoError(t, err)
	assert.Equal(t, []float64{5300, 3200}, preds)
}

func TestLinearModel_FeatureMismatchIsPredictionFailure(t *testing.T) {
	model, err := Decode(strings.NewReader(linearJSON))
	require.NoError(t, err)

	m := matrix(t, []string{"bedrooms", "lot_size"}, frame.Record{"bedrooms": 3.0, "lot_size": 1.0})

	_, err = PredictRows(m, model)

	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
	assert.False(t, errors.Is(err, ierrors.ErrModelUnavailable))
}

func TestLinearModel_NaNInputIsPredictionFailure(t *testing.T) {
	model := NewLinearModel(0, map[string]float64{"bedrooms": 1})
	m := matrix(t, []string{"bedrooms"}, frame.Record{})

	_, err := PredictRows(m, model)

	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
}

func TestTreeEnsemble_PredictRows(t *testing.T) {
	model, err := Decode(strings.NewReader(treeJSON))
	require.NoError(t, err)
	assert.Equal(t, TypeTreeEnsemble, model.Type())

	m := matrix(t, []string{"bedrooms", "sqft_living"},
		frame.Record{"bedrooms": 2.0, "sqft_living": 1000.0},
		frame.Record{"bedrooms": 4.0, "sqft_living": 2000.0},
		frame.Record{"sqft_living": 2000.0},
	)

	preds, err := PredictRows(m, model)

	require.NoError(t, err)
	assert.Equal(t, []float64{11.5, 22.5, 22.5}, preds)
}

func TestTreeEnsemble_ColumnOrderMustMatch(t *testing.T) {
	model, err := Decode(strings.NewReader(treeJSON))
	require.NoError(t, err)

	m := matrix(t, []string{"sqft_living", "bedrooms"}, frame.Record{"bedrooms": 2.0, "sqft_living": 1000.0})

	_, err = PredictRows(m, model)

	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
}

func TestDecode_RejectsBrokenTrees(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"type": "tree_ensemble", "trees": [{"nodeid": 0, "split": "a", "yes": 1, "no": 2, "missing": 1}]}`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{"type": "forest"}`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`{}`))
	assert.Error(t, err)
}

func TestLoad_MissingModelIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	_, err := Load(path)

	assert.ErrorIs(t, err, ierrors.ErrModelUnavailable)
	var unavailable *ierrors.ModelUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, path, unavailable.Path)
}

func TestLoad_CorruptModelIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := Load(path)

	assert.ErrorIs(t, err, ierrors.ErrModelUnavailable)
}

func TestPredictRows_MalformedCells(t *testing.T) {
	model := NewLinearModel(0, map[string]float64{"bedrooms": 1})
	m := matrix(t, []string{"bedrooms"}, frame.Record{"bedrooms": "three"})

	_, err := PredictRows(m, model)

	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
}

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Type() string { return "mock" }
func (m *mockModel) Features() []string { return nil }

func (m *mockModel) Predict(x *aligner.Matrix) ([]float64, error) {
	args := m.Called(x)
	preds, _ := args.Get(0).([]float64)
	return preds, args.Error(1)
}

func TestPredictRows_WrapsModelFailures(t *testing.T) {
	m := matrix(t, []string{"a"}, frame.Record{"a": 1.0}, frame.Record{"a": 2.0})

	failing := new(mockModel)
	failing.On("Predict", m).Return(nil, errors.New("boom"))
	_, err := PredictRows(m, failing)
	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
	failing.AssertExpectations(t)

	short := new(mockModel)
	short.On("Predict", m).Return([]float64{1}, nil)
	_, err = PredictRows(m, short)
	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)

	panicking := new(mockModel)
	panicking.On("Predict", m).Panic("index out of range")
	_, err = PredictRows(m, panicking)
	assert.ErrorIs(t, err, ierrors.ErrPredictionFailed)
}

func TestPredictRows_NoRows(t *testing.T) {
	m := matrix(t, []string{"a"})

	_, err := PredictRows(m, NewLinearModel(0, map[string]float64{"a": 1}))

	assert.ErrorIs(t, err, ierrors.ErrNoRows)
}
