package cleaning

import (
	"math"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/rs/zerolog/log"
)

// Bound is an inclusive acceptable range for one numeric column.
type Bound struct {
	Column string
	Min    float64
	Max    float64
}

type OutlierPolicy struct {
	Bounds []Bound
}

// DefaultOutlierPolicy rejects implausible property descriptions.
func DefaultOutlierPolicy() OutlierPolicy {
	return OutlierPolicy{Bounds: []Bound{
		{Column: "bedrooms", Min: 1, Max: 20},
		{Column: "bathrooms", Min: 0.25, Max: 10},
		{Column: "sqft_living", Min: 100, Max: 20000},
		{Column: "price", Min: 0, Max: math.Inf(1)},
	}}
}

// Accepts reports whether every bounded cell of row i is numeric and within range.
// Absent cells are not checked.
func (p OutlierPolicy) Accepts(b *frame.Batch, i int) bool {
	for _, bound := range p.Bounds {
		v, ok := b.Value(i, bound.Column)
		if !ok {
			continue
		}
		f, ok := frame.ToFloat(v)
		if !ok || math.IsNaN(f) || f < bound.Min || f > bound.Max {
			return false
		}
	}
	return true
}

type Cleaner struct {
	policy    OutlierPolicy
	reference *frame.Batch
}

type Option func(*Cleaner)

// WithReference unions every cleaned batch with a secondary source before deduplication.
func WithReference(reference *frame.Batch) Option {
	return func(c *Cleaner) {
		c.reference = reference
	}
}

func NewCleaner(policy OutlierPolicy, opts ...Option) *Cleaner {
	c := &Cleaner{policy: policy}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean merges, deduplicates and removes outliers. The result may be empty.
func (c *Cleaner) Clean(b *frame.Batch) *frame.Batch {
	merged := Merge(b, c.reference)
	deduped := DropDuplicates(merged)
	cleaned := RemoveOutliers(deduped, c.policy)
	log.Debug().
		Int("rows_in", b.Len()).
		Int("rows_merged", merged.Len()).
		Int("duplicates", merged.Len()-deduped.Len()).
		Int("outliers", deduped.Len()-cleaned.Len()).
		Msg("batch cleaned")
	return cleaned
}

// Merge concatenates the reference rows after the batch rows. A nil reference yields a copy.
func Merge(b, reference *frame.Batch) *frame.Batch {
	if reference == nil {
		return b.Clone()
	}
	return frame.Concat(b, reference)
}

// DropDuplicates keeps the first occurrence of every fully identical row.
func DropDuplicates(b *frame.Batch) *frame.Batch {
	seen := make(map[string]struct{}, b.Len())
	keep := make([]int, 0, b.Len())
	for i := 0; i < b.Len(); i++ {
		key := b.RowKey(i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, i)
	}
	return b.SelectRows(keep)
}

// RemoveOutliers drops, never clips, rows the policy rejects.
func RemoveOutliers(b *frame.Batch, policy OutlierPolicy) *frame.Batch {
	keep := make([]int, 0, b.Len())
	for i := 0; i < b.Len(); i++ {
		if policy.Accepts(b, i) {
			keep = append(keep, i)
		}
	}
	return b.SelectRows(keep)
}
