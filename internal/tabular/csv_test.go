package tabular

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBatch(t *testing.T) {
	in := "date,bedrooms,zipcode,city_full,price\n" +
		"2024-05-01,3,98101,Seattle,500000\n" +
		"2024-05-02,2,98102,,\n"

	b, err := ReadBatch(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "bedrooms", "zipcode", "city_full", "price"}, b.Columns())
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, []any{3.0, 2.0}, b.Column("bedrooms"))
	assert.Equal(t, []any{98101.0, 98102.0}, b.Column("zipcode"))
	_, ok := b.Value(1, "city_full")
	assert.False(t, ok)
	_, ok = b.Value(1, "price")
	assert.False(t, ok)
}

func TestReadBatch_Errors(t *testing.T) {
	_, err := ReadBatch(strings.NewReader(""))
	assert.ErrorIs(t, err, ierrors.ErrInvalidInput)

	_, err = ReadBatch(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestWriteBatch(t *testing.T) {
	b := frame.New([]string{"bedrooms", "predicted_price", "actual_price"}, []frame.Record{
		{"bedrooms": 3.0, "predicted_price": 512345.5, "actual_price": 500000.0},
		{"bedrooms": 2.0, "predicted_price": 300000.0},
	})
	var buf bytes.Buffer

	require.NoError(t, WriteBatch(&buf, b))

	assert.Equal(t, "bedrooms,predicted_price,actual_price\n3,512345.5,500000\n2,300000,\n", buf.String())
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preds.csv")
	b := frame.New([]string{"a", "b"}, []frame.Record{{"a": 1.0, "b": "x"}, {"a": 2.5}})

	require.NoError(t, WriteFile(path, b))
	got, err := ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, b.Columns(), got.Columns())
	assert.Equal(t, b.Records(), got.Records())
}
