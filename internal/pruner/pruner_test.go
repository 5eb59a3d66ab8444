package pruner

import (
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/stretchr/testify/assert"
)

func TestDropUnusedColumns(t *testing.T) {
	b := frame.New(
		[]string{"date", "bedrooms", "zipcode_freq", "city_full_encoded", "street", "price"},
		[]frame.Record{{"date": "2024-05-01", "bedrooms": 3.0, "zipcode_freq": 0.07, "street": "1 Main St", "price": 1.0}},
	)

	out := NewPruner().DropUnusedColumns(b)

	assert.Equal(t, []string{"bedrooms", "zipcode_freq", "city_full_encoded", "price"}, out.Columns())
	assert.True(t, b.Has("date"))
}

func TestDropUnusedColumns_Idempotent(t *testing.T) {
	b := frame.New([]string{"id", "bedrooms", "zipcode"}, []frame.Record{{"id": 1.0, "bedrooms": 2.0, "zipcode": "98101"}})
	p := NewPruner()

	once := p.DropUnusedColumns(b)
	twice := p.DropUnusedColumns(once)

	assert.Equal(t, once.Columns(), twice.Columns())
	assert.Equal(t, once.Records(), twice.Records())
	assert.Same(t, once, twice)
}

func TestNewPruner_NeverDropsPrice(t *testing.T) {
	p := NewPruner("price", "id")

	assert.Equal(t, []string{"id"}, p.Columns())
}

func TestDropUnusedColumns_IgnoresAbsentColumns(t *testing.T) {
	b := frame.New([]string{"bedrooms"}, []frame.Record{{"bedrooms": 2.0}})

	out := NewPruner("does_not_exist").DropUnusedColumns(b)

	assert.Equal(t, []string{"bedrooms"}, out.Columns())
}
