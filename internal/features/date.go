package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
)

const DateColumn = "date"

// DateFeature derives one numeric column from a parsed date.
type DateFeature string

const (
	Year      DateFeature = "year"
	Quarter   DateFeature = "quarter"
	Month     DateFeature = "month"
	Day       DateFeature = "day"
	DayOfWeek DateFeature = "day_of_week"
	DayOfYear DateFeature = "day_of_year"
)

func DefaultDateFeatures() []DateFeature {
	return []DateFeature{Year, Quarter, Month, DayOfWeek}
}

var layouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102T150405",
	"20060102",
	"01/02/2006",
}

type Enricher struct {
	features []DateFeature
}

func NewEnricher(features ...DateFeature) *Enricher {
	if len(features) == 0 {
		features = DefaultDateFeatures()
	}
	return &Enricher{features: features}
}

// Columns lists the names of the columns AddDateFeatures appends.
func (e *Enricher) Columns() []string {
	out := make([]string, len(e.features))
	for i, f := range e.features {
		out[i] = string(f)
	}
	return out
}

// Applies reports whether the batch carries a date column.
func (e *Enricher) Applies(b *frame.Batch) bool {
	return b.Has(DateColumn)
}

// AddDateFeatures appends the calendar columns and keeps the raw date in place.
// A batch without a date column is returned unchanged.
func (e *Enricher) AddDateFeatures(b *frame.Batch) (*frame.Batch, error) {
	if !e.Applies(b) {
		return b, nil
	}
	derived := make(map[DateFeature][]any, len(e.features))
	for _, f := range e.features {
		derived[f] = make([]any, b.Len())
	}
	for i := 0; i < b.Len(); i++ {
		raw, ok := b.Value(i, DateColumn)
		if !ok {
			continue
		}
		t, err := ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for _, f := range e.features {
			derived[f][i] = f.extract(t)
		}
	}
	out := b
	for _, f := range e.features {
		out = out.WithColumn(string(f), derived[f])
	}
	return out, nil
}

// ParseDate accepts ISO dates, timestamps and the compact 20140502T000000 form.
func ParseDate(raw any) (time.Time, error) {
	s, ok := frame.ToCode(raw)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("%q: %w", fmt.Sprint(raw), ierrors.ErrInvalidDate)
	}
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q: %w", s, ierrors.ErrInvalidDate)
}

func (f DateFeature) extract(t time.Time) any {
	switch f {
	case Year:
		return float64(t.Year())
	case Quarter:
		return float64((int(t.Month())-1)/3 + 1)
	case Month:
		return float64(t.Month())
	case Day:
		return float64(t.Day())
	case DayOfWeek:
		// Monday is 0
		return float64((int(t.Weekday()) + 6) % 7)
	case DayOfYear:
		return float64(t.YearDay())
	default:
		return nil
	}
}

// ParseFeatures maps configured names to features, rejecting unknown ones.
func ParseFeatures(names []string) ([]DateFeature, error) {
	out := make([]DateFeature, 0, len(names))
	for _, n := range names {
		f := DateFeature(strings.TrimSpace(n))
		switch f {
		case Year, Quarter, Month, Day, DayOfWeek, DayOfYear:
			out = append(out, f)
		case "":
		default:
			return nil, fmt.Errorf("unknown date feature %q: %w", n, ierrors.ErrConfiguration)
		}
	}
	return out, nil
}
