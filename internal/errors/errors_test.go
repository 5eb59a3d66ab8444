package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"no rows", ErrNoRows, "no_rows"},
		{"wrapped no rows", fmt.Errorf("predict: %w", ErrNoRows), "no_rows"},
		{"invalid date", ErrInvalidDate, "invalid_date"},
		{"model", &ModelUnavailableError{Path: "m.json"}, "model_unavailable"},
		{"prediction", &PredictionError{Cause: errors.New("nan")}, "prediction_failed"},
		{"drift", &SchemaDriftError{Missing: []string{"lot_size"}}, "schema_drift"},
		{"other", errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestNoRowsIsInvalidInput(t *testing.T) {
	assert.ErrorIs(t, ErrNoRows, ErrInvalidInput)
	assert.ErrorIs(t, ErrInvalidDate, ErrInvalidInput)
	assert.NotErrorIs(t, ErrNoRows, ErrPredictionFailed)
}

func TestModelUnavailableKeepsCause(t *testing.T) {
	err := &ModelUnavailableError{Path: "models/model.json", Cause: os.ErrNotExist}

	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrPredictionFailed)
	assert.Contains(t, err.Error(), "models/model.json")
}
