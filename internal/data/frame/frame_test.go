package frame

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecords_UnionColumnsAndAbsence(t *testing.T) {
	b := FromRecords([]map[string]any{
		{"bedrooms": 3.0, "zipcode": "98101"},
		{"bedrooms": 2.0, "price": nil, "date": "2024-05-01"},
	})

	assert.Equal(t, []string{"bedrooms", "zipcode", "date", "price"}, b.Columns())
	assert.Equal(t, 2, b.Len())

	_, ok := b.Value(1, "price")
	assert.False(t, ok, "null is absent")
	_, ok = b.Value(1, "zipcode")
	assert.False(t, ok)
}

func TestWithColumn_DoesNotMutateInput(t *testing.T) {
	b := New([]string{"a"}, []Record{{"a": 1.0}, {"a": 2.0}})

	out := b.WithColumn("b", []any{10.0, nil})

	assert.False(t, b.Has("b"))
	assert.Equal(t, []string{"a", "b"}, out.Columns())
	v, ok := out.Value(0, "b")
	require.True(t, ok)
	assert.Equal(t, 10.0, v)
	_, ok = out.Value(1, "b")
	assert.False(t, ok)
}

func TestDropColumns_IgnoresUnknown(t *testing.T) {
	b := New([]string{"a", "b"}, []Record{{"a": 1.0, "b": 2.0}})

	out := b.DropColumns("b", "missing")

	assert.Equal(t, []string{"a"}, out.Columns())
	assert.Equal(t, []string{"a", "b"}, b.Columns())
	_, ok := out.Value(0, "b")
	assert.False(t, ok)
}

func TestConcat_UnionsColumnsKeepsOrder(t *testing.T) {
	a := New([]string{"x"}, []Record{{"x": 1.0}})
	b := New([]string{"y", "x"}, []Record{{"x": 2.0, "y": "k"}})

	out := Concat(a, b)

	assert.Equal(t, []string{"x", "y"}, out.Columns())
	assert.Equal(t, []any{1.0, 2.0}, out.Column("x"))
	assert.Equal(t, []any{nil, "k"}, out.Column("y"))
}

func TestToCode_NormalisesNumbers(t *testing.T) {
	code, ok := ToCode(98101.0)
	require.True(t, ok)
	assert.Equal(t, "98101", code)

	code, _ = ToCode(json.Number("98101"))
	assert.Equal(t, "98101", code)

	code, _ = ToCode(" Seattle ")
	assert.Equal(t, "Seattle", code)

	_, ok = ToCode(nil)
	assert.False(t, ok)
}

func TestParseCell(t *testing.T) {
	assert.Nil(t, ParseCell(""))
	assert.Nil(t, ParseCell("NaN"))
	assert.Equal(t, 3.0, ParseCell("3"))
	assert.Equal(t, true, ParseCell("True"))
	assert.Equal(t, "2024-05-01", ParseCell("2024-05-01"))
}

func TestRowKey_DistinguishesTypes(t *testing.T) {
	b := New([]string{"a"}, []Record{{"a": 1.0}, {"a": "1"}, {"a": 1.0}, {}})

	assert.NotEqual(t, b.RowKey(0), b.RowKey(1))
	assert.Equal(t, b.RowKey(0), b.RowKey(2))
	assert.NotEqual(t, b.RowKey(0), b.RowKey(3))
}
