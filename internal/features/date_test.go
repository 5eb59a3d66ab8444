package features

import (
	"testing"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDateFeatures_NoDateColumnIsUnchanged(t *testing.T) {
	b := frame.New([]string{"bedrooms", "zipcode"}, []frame.Record{{"bedrooms": 3.0, "zipcode": "98101"}})

	out, err := NewEnricher().AddDateFeatures(b)

	require.NoError(t, err)
	assert.Equal(t, b.Columns(), out.Columns())
	assert.Equal(t, b.Records(), out.Records())
}

func TestAddDateFeatures_DerivesCalendarColumns(t *testing.T) {
	b := frame.New([]string{"date"}, []frame.Record{{"date": "2024-05-01"}, {"date": "20141013T000000"}})

	out, err := NewEnricher(Year, Quarter, Month, Day, DayOfWeek, DayOfYear).AddDateFeatures(b)

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "year", "quarter", "month", "day", "day_of_week", "day_of_year"}, out.Columns())
	assert.Equal(t, []any{2024.0, 2014.0}, out.Column("year"))
	assert.Equal(t, []any{2.0, 4.0}, out.Column("quarter"))
	assert.Equal(t, []any{5.0, 10.0}, out.Column("month"))
	assert.Equal(t, []any{1.0, 13.0}, out.Column("day"))
	// 2024-05-01 is a Wednesday and 2014-10-13 a Monday
	assert.Equal(t, []any{2.0, 0.0}, out.Column("day_of_week"))
	assert.Equal(t, []any{122.0, 286.0}, out.Column("day_of_year"))
	assert.False(t, b.Has("year"))
}

func TestAddDateFeatures_AbsentDateLeavesCellsAbsent(t *testing.T) {
	b := frame.New([]string{"date", "bedrooms"}, []frame.Record{{"bedrooms": 3.0}, {"date": "2024-01-15"}})

	out, err := NewEnricher(Year).AddDateFeatures(b)

	require.NoError(t, err)
	assert.Equal(t, []any{nil, 2024.0}, out.Column("year"))
}

func TestAddDateFeatures_UnparsableDateFails(t *testing.T) {
	b := frame.New([]string{"date"}, []frame.Record{{"date": "2024-05-01"}, {"date": "last tuesday"}})

	_, err := NewEnricher().AddDateFeatures(b)

	assert.ErrorIs(t, err, ierrors.ErrInvalidDate)
	assert.ErrorIs(t, err, ierrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParseFeatures(t *testing.T) {
	fs, err := ParseFeatures([]string{"year", " month ", ""})
	require.NoError(t, err)
	assert.Equal(t, []DateFeature{Year, Month}, fs)

	_, err = ParseFeatures([]string{"hour"})
	assert.ErrorIs(t, err, ierrors.ErrConfiguration)
}
