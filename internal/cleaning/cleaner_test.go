package cleaning

import (
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

func house(bedrooms, bathrooms, sqft float64, zipcode string) frame.Record {
	return frame.Record{"bedrooms": bedrooms, "bathrooms": bathrooms, "sqft_living": sqft, "zipcode": zipcode}
}

var columns = []string{"bedrooms", "bathrooms", "sqft_living", "zipcode"}

func TestDropDuplicates_KeepsFirstInOrder(t *testing.T) {
	b := frame.New(columns, []frame.Record{
		house(3, 2, 2000, "98101"),
		house(4, 2, 2500, "98102"),
		house(3, 2, 2000, "98101"),
		house(2, 1, 900, "98103"),
	})

	out := DropDuplicates(b)

	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []any{"98101", "98102", "98103"}, out.Column("zipcode"))
}

func TestRemoveOutliers_DropsRowsOutsideBounds(t *testing.T) {
	b := frame.New(columns, []frame.Record{
		house(3, 2, 2000, "a"),
		house(33, 2, 2000, "b"),
		house(3, 2, 50, "c"),
		house(3, 0, 1500, "d"),
	})

	out := RemoveOutliers(b, DefaultOutlierPolicy())

	assert.Equal(t, []any{"a"}, out.Column("zipcode"))
}

func TestRemoveOutliers_AbsentCellsAreNotChecked(t *testing.T) {
	b := frame.New(columns, []frame.Record{{"zipcode": "98101"}})

	out := RemoveOutliers(b, DefaultOutlierPolicy())

	assert.Equal(t, 1, out.Len())
}

func TestRemoveOutliers_NonNumericIsRejected(t *testing.T) {
	b := frame.New(columns, []frame.Record{{"bedrooms": "three", "zipcode": "98101"}})

	out := RemoveOutliers(b, DefaultOutlierPolicy())

	assert.True(t, out.IsEmpty())
}

func TestClean_MergesReferenceThenDedupes(t *testing.T) {
	reference := frame.New(columns, []frame.Record{house(3, 2, 2000, "98101"), house(5, 3, 3000, "98104")})
	cleaner := NewCleaner(DefaultOutlierPolicy(), WithReference(reference))
	b := frame.New(columns, []frame.Record{house(3, 2, 2000, "98101")})

	out := cleaner.Clean(b)

	assert.Equal(t, []any{"98101", "98104"}, out.Column("zipcode"))
	assert.Equal(t, 1, b.Len())
}

func TestClean_AllRowsRemovedYieldsEmptyBatch(t *testing.T) {
	cleaner := NewCleaner(DefaultOutlierPolicy())
	b := frame.New(columns, []frame.Record{house(0, 2, 2000, "x")})

	out := cleaner.Clean(b)

	assert.True(t, out.IsEmpty())
	assert.Equal(t, columns, out.Columns())
}
