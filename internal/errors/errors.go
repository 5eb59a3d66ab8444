package errors

import (
	"errors"
	"fmt"
)

var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrPredictionFailed = errors.New("prediction failed")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoRows           = fmt.Errorf("no rows to predict: %w", ErrInvalidInput)
	ErrInvalidDate      = fmt.Errorf("unparsable date: %w", ErrInvalidInput)
	ErrSchemaDrift      = errors.New("schema drift beyond tolerance")
	ErrConfiguration    = errors.New("invalid configuration")
	ErrArtifactNotFound = errors.New("artifact not found")
)

// Kind names the error family for logs, metric tags and HTTP mapping.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrNoRows):
		return "no_rows"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrSchemaDrift):
		return "schema_drift"
	case errors.Is(err, ErrPredictionFailed):
		return "prediction_failed"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrArtifactNotFound):
		return "artifact_not_found"
	default:
		return "unknown"
	}
}

// ModelUnavailableError carries the artifact path that could not be loaded.
type ModelUnavailableError struct {
	Path  string
	Cause error
}

func (e *ModelUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("model not found at %s", e.Path)
	}
	return fmt.Sprintf("model not found at %s: %v", e.Path, e.Cause)
}

func (e *ModelUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrModelUnavailable}
	}
	return []error{ErrModelUnavailable, e.Cause}
}

// PredictionError wraps any failure raised while scoring an aligned matrix.
type PredictionError struct {
	Cause error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Cause)
}

func (e *PredictionError) Unwrap() []error {
	return []error{ErrPredictionFailed, e.Cause}
}

// SchemaDriftError reports which columns were synthesized or dropped during alignment.
type SchemaDriftError struct {
	Missing []string
	Extra   []string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("schema drift beyond tolerance: %d missing %v, %d extra %v",
		len(e.Missing), e.Missing, len(e.Extra), e.Extra)
}

func (e *SchemaDriftError) Unwrap() error {
	return ErrSchemaDrift
}
