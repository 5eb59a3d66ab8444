package aligner

import (
	"fmt"
	"math"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
)

// FillValue is written into every schema column the batch does not carry.
const FillValue = 0.0

type Options struct {
	// Strict fails alignment when drift exceeds the tolerances below.
	Strict     bool
	MaxMissing int
	MaxExtra   int
	// Derived names columns produced by earlier stages. They are still dropped and
	// reported when outside the schema, but never count against MaxExtra.
	Derived []string
}

// Fingerprint identifies the tolerances that change what Align accepts.
func (o Options) Fingerprint() string {
	if !o.Strict {
		return "lenient"
	}
	return fmt.Sprintf("strict:%d:%d", o.MaxMissing, o.MaxExtra)
}

// Report lists the schema columns filled with FillValue and the batch columns dropped.
type Report struct {
	Synthesized []string
	Dropped     []string
}

func (r Report) Drifted() bool {
	return len(r.Synthesized) > 0 || len(r.Dropped) > 0
}

// Align reindexes the batch to schema: shared columns pass through, schema columns the
// batch lacks are filled with FillValue and batch columns outside the schema are dropped.
// The matrix always has len(schema) columns in schema order.
func Align(b *frame.Batch, schema []string, opts Options) (*Matrix, Report, error) {
	report := Diff(b.Columns(), schema)
	if opts.Strict {
		extra := without(report.Dropped, opts.Derived)
		if len(report.Synthesized) > opts.MaxMissing || len(extra) > opts.MaxExtra {
			return nil, report, &ierrors.SchemaDriftError{Missing: report.Synthesized, Extra: extra}
		}
	}

	columns := make([]string, len(schema))
	copy(columns, schema)
	m := newMatrix(columns, b.Len())
	for j, c := range columns {
		present := b.Has(c)
		for i := 0; i < b.Len(); i++ {
			if !present {
				m.set(i, j, FillValue)
				continue
			}
			v, ok := b.Value(i, c)
			if !ok {
				m.set(i, j, math.NaN())
				continue
			}
			f, ok := frame.ToFloat(v)
			if !ok {
				m.malformed = append(m.malformed, Cell{Row: i, Column: c})
				f = math.NaN()
			}
			m.set(i, j, f)
		}
	}
	return m, report, nil
}

// Diff compares a batch column set against the schema without touching any data.
func Diff(columns, schema []string) Report {
	var report Report
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	want := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		want[c] = struct{}{}
		if _, ok := have[c]; !ok {
			report.Synthesized = append(report.Synthesized, c)
		}
	}
	for _, c := range columns {
		if _, ok := want[c]; !ok {
			report.Dropped = append(report.Dropped, c)
		}
	}
	return report
}

func without(columns, exclude []string) []string {
	if len(exclude) == 0 {
		return columns
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, c := range exclude {
		skip[c] = struct{}{}
	}
	var out []string
	for _, c := range columns {
		if _, ok := skip[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
