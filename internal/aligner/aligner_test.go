package aligner

import (
	"math"
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = []string{"bedrooms", "bathrooms", "sqft_living", "zipcode_freq", "year", "month"}

func TestAlign_ColumnOrderForAnyInput(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
	}{
		{name: "superset", columns: []string{"month", "extra", "year", "zipcode_freq", "sqft_living", "bathrooms", "bedrooms"}},
		{name: "subset", columns: []string{"sqft_living", "bedrooms"}},
		{name: "disjoint", columns: []string{"foo", "bar"}},
		{name: "empty", columns: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := frame.Record{}
			for _, c := range tt.columns {
				row[c] = 1.0
			}
			b := frame.New(tt.columns, []frame.Record{row, row})

			m, _, err := Align(b, schema, Options{})

			require.NoError(t, err)
			assert.Equal(t, schema, m.Columns())
			assert.Equal(t, len(schema), m.Cols())
			assert.Equal(t, 2, m.Rows())
		})
	}
}

func TestAlign_FillsMissingSchemaColumn(t *testing.T) {
	b := frame.New([]string{"bedrooms"}, []frame.Record{{"bedrooms": 3.0}, {"bedrooms": 2.0}})

	m, report, err := Align(b, []string{"bedrooms", "lot_size"}, Options{})

	require.NoError(t, err)
	for i := 0; i < m.Rows(); i++ {
		v, ok := m.Value(i, "lot_size")
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
	}
	assert.Equal(t, []string{"lot_size"}, report.Synthesized)
	assert.Empty(t, report.Dropped)
}

func TestAlign_AbsentCellIsNaN(t *testing.T) {
	b := frame.New([]string{"bedrooms"}, []frame.Record{{"bedrooms": 3.0}, {}})

	m, _, err := Align(b, []string{"bedrooms"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, 3.0, m.At(0, 0))
	assert.True(t, math.IsNaN(m.At(1, 0)))
}

func TestAlign_RecordsMalformedCells(t *testing.T) {
	b := frame.New([]string{"bedrooms"}, []frame.Record{{"bedrooms": "three"}})

	m, _, err := Align(b, []string{"bedrooms"}, Options{})

	require.NoError(t, err)
	assert.Equal(t, []Cell{{Row: 0, Column: "bedrooms"}}, m.Malformed())
	assert.Error(t, m.Validate())
}

func TestAlign_StrictMode(t *testing.T) {
	b := frame.New([]string{"bedrooms", "extra"}, []frame.Record{{"bedrooms": 3.0, "extra": 1.0}})

	_, report, err := Align(b, []string{"bedrooms", "lot_size"}, Options{Strict: true})
	assert.ErrorIs(t, err, ierrors.ErrSchemaDrift)
	var drift *ierrors.SchemaDriftError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, []string{"lot_size"}, drift.Missing)
	assert.Equal(t, []string{"extra"}, drift.Extra)
	assert.True(t, report.Drifted())

	m, _, err := Align(b, []string{"bedrooms", "lot_size"}, Options{Strict: true, MaxMissing: 1, MaxExtra: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Cols())
}

func TestAlign_StrictModeIgnoresDerivedColumns(t *testing.T) {
	b := frame.New([]string{"bedrooms", "quarter", "extra"}, []frame.Record{{"bedrooms": 3.0, "quarter": 2.0, "extra": 1.0}})

	_, report, err := Align(b, []string{"bedrooms"}, Options{Strict: true, MaxExtra: 1, Derived: []string{"quarter"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"quarter", "extra"}, report.Dropped)

	_, _, err = Align(b, []string{"bedrooms"}, Options{Strict: true, Derived: []string{"quarter"}})
	var drift *ierrors.SchemaDriftError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, []string{"extra"}, drift.Extra)
}

func TestMatrix_Dense(t *testing.T) {
	b := frame.New([]string{"a", "b"}, []frame.Record{{"a": 1.0, "b": 2.0}, {"a": 3.0, "b": 4.0}})

	m, _, err := Align(b, []string{"b", "a"}, Options{})
	require.NoError(t, err)

	d := m.Dense()
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 2.0, d.At(0, 0))
	assert.Equal(t, 3.0, d.At(1, 1))

	empty, _, err := Align(frame.Empty("a"), []string{"a"}, Options{})
	require.NoError(t, err)
	assert.Nil(t, empty.Dense())
}
