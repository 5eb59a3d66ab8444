package pruner

import (
	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/Meesho/BharatMLStack/housing-inference/pkg/set"
)

// PriceColumn is extracted by the pipeline after pruning and is never pruned here.
const PriceColumn = "price"

// DefaultDropColumns are identifiers, raw categorical codes superseded by their encoded
// columns, and free-text address parts that are not model features.
func DefaultDropColumns() []string {
	return []string{"date", "id", "zipcode", "city_full", "city", "street", "statezip", "country"}
}

type Pruner struct {
	drop *set.ThreadSafeSet
}

func NewPruner(columns ...string) *Pruner {
	if len(columns) == 0 {
		columns = DefaultDropColumns()
	}
	drop := set.NewThreadSafeSet(columns...)
	drop.Remove(PriceColumn)
	return &Pruner{drop: drop}
}

// Columns returns the configured drop list in sorted order
func (p *Pruner) Columns() []string {
	return p.drop.Values()
}

// Matches returns the batch columns this pruner would remove, in batch order.
func (p *Pruner) Matches(b *frame.Batch) []string {
	var out []string
	for _, c := range b.Columns() {
		if p.drop.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// DropUnusedColumns removes every policy column the batch carries. Absent policy columns
// are ignored, so pruning an already pruned batch is a no-op.
func (p *Pruner) DropUnusedColumns(b *frame.Batch) *frame.Batch {
	matched := p.Matches(b)
	if len(matched) == 0 {
		return b
	}
	return b.DropColumns(matched...)
}
