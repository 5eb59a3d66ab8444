package artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/encoders"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/predictor"
	"github.com/Meesho/BharatMLStack/housing-inference/internal/schema"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Refs names every artifact one pipeline run needs.
type Refs struct {
	Model         Ref
	FreqEncoder   Ref
	TargetEncoder Ref
	Schema        Ref
}

// Artifacts are the read-only objects shared by every pipeline run. An encoder is nil
// when its artifact does not exist.
type Artifacts struct {
	Model             predictor.Model
	Frequency         *encoders.FrequencyEncoder
	Target            *encoders.TargetEncoder
	Schema            *schema.Registry
	ModelPath         string
	FreqEncoderPath   string
	TargetEncoderPath string
}

// Loader parses each artifact path at most once for the process lifetime. Successful
// loads and absent encoders are remembered; failures are retried on the next call.
type Loader struct {
	store *Store
	mu    sync.RWMutex
	memo  map[string]any
	group singleflight.Group
}

func NewLoader(store *Store) *Loader {
	if store == nil {
		store = NewLocalStore()
	}
	return &Loader{store: store, memo: map[string]any{}}
}

type absent struct{}

func memoized[T any](ctx context.Context, l *Loader, kind string, ref Ref, optional bool, parse func(path string) (T, error)) (T, error) {
	var zero T
	key := kind + ":" + ref.Path
	l.mu.RLock()
	v, ok := l.memo[key]
	l.mu.RUnlock()
	if ok {
		if _, missing := v.(absent); missing {
			return zero, nil
		}
		return v.(T), nil
	}

	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		path, err := l.store.Resolve(ctx, ref)
		if err != nil {
			if optional && errors.Is(err, ierrors.ErrArtifactNotFound) {
				log.Warn().Str("artifact", kind).Str("path", ref.Path).Msg("artifact not found, stage will be skipped")
				l.remember(key, absent{})
				return absent{}, nil
			}
			return nil, err
		}
		parsed, err := parse(path)
		if err != nil {
			return nil, err
		}
		l.remember(key, parsed)
		log.Info().Str("artifact", kind).Str("path", path).Msg("artifact loaded")
		return parsed, nil
	})
	if err != nil {
		return zero, err
	}
	if _, missing := v.(absent); missing {
		return zero, nil
	}
	return v.(T), nil
}

func (l *Loader) remember(key string, v any) {
	l.mu.Lock()
	l.memo[key] = v
	l.mu.Unlock()
}

// Model fails with ModelUnavailableError when the artifact cannot be located or decoded.
func (l *Loader) Model(ctx context.Context, ref Ref) (predictor.Model, error) {
	m, err := memoized(ctx, l, "model", ref, false, predictor.Load)
	if err != nil {
		var unavailable *ierrors.ModelUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, &ierrors.ModelUnavailableError{Path: ref.Path, Cause: err}
	}
	return m, nil
}

// FrequencyEncoder returns nil without error when the artifact does not exist.
func (l *Loader) FrequencyEncoder(ctx context.Context, ref Ref) (*encoders.FrequencyEncoder, error) {
	return memoized(ctx, l, "freq_encoder", ref, true, func(path string) (*encoders.FrequencyEncoder, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return encoders.LoadFrequencyEncoder(f)
	})
}

// TargetEncoder returns nil without error when the artifact does not exist.
func (l *Loader) TargetEncoder(ctx context.Context, ref Ref) (*encoders.TargetEncoder, error) {
	return memoized(ctx, l, "target_encoder", ref, true, func(path string) (*encoders.TargetEncoder, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return encoders.LoadTargetEncoder(f)
	})
}

// Schema is required: without it the model cannot be served.
func (l *Loader) Schema(ctx context.Context, ref Ref) (*schema.Registry, error) {
	r, err := memoized(ctx, l, "schema", ref, false, schema.LoadFile)
	if err != nil {
		return nil, &ierrors.ModelUnavailableError{Path: ref.Path, Cause: fmt.Errorf("training schema: %w", err)}
	}
	return r, nil
}

// Load resolves every artifact in refs. Encoder failures other than absence are returned.
func (l *Loader) Load(ctx context.Context, refs Refs) (*Artifacts, error) {
	reg, err := l.Schema(ctx, refs.Schema)
	if err != nil {
		return nil, err
	}
	model, err := l.Model(ctx, refs.Model)
	if err != nil {
		return nil, err
	}
	freq, err := l.FrequencyEncoder(ctx, refs.FreqEncoder)
	if err != nil {
		return nil, fmt.Errorf("frequency encoder %s: %w", refs.FreqEncoder.Path, err)
	}
	target, err := l.TargetEncoder(ctx, refs.TargetEncoder)
	if err != nil {
		return nil, fmt.Errorf("target encoder %s: %w", refs.TargetEncoder.Path, err)
	}
	return &Artifacts{
		Model:             model,
		Frequency:         freq,
		Target:            target,
		Schema:            reg,
		ModelPath:         refs.Model.Path,
		FreqEncoderPath:   refs.FreqEncoder.Path,
		TargetEncoderPath: refs.TargetEncoder.Path,
	}, nil
}
