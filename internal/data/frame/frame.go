// Package frame holds the tabular batch that flows through every inference stage.
//
// A Batch is an ordered list of records sharing one ordered column set. A cell that is
// missing from a record, or was sent as null, is absent; absence is never zero.
// Stages treat batches as values: every transformation returns a new Batch and never
// writes into the records of its input.
package frame

// Record maps a column name to a scalar cell (float64, string, bool or json.Number).
type Record map[string]any

type Batch struct {
	columns []string
	index   map[string]int
	rows    []Record
}

// New builds a batch over the given column order. Cells whose column is not listed are
// kept out of the batch, and nil cells are treated as absent.
func New(columns []string, rows []Record) *Batch {
	b := &Batch{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    make([]Record, len(rows)),
	}
	for _, c := range columns {
		if _, ok := b.index[c]; ok {
			continue
		}
		b.index[c] = len(b.columns)
		b.columns = append(b.columns, c)
	}
	for i, r := range rows {
		out := make(Record, len(r))
		for k, v := range r {
			if v == nil {
				continue
			}
			if _, ok := b.index[k]; ok {
				out[k] = v
			}
		}
		b.rows[i] = out
	}
	return b
}

// FromRecords builds a batch whose columns are the union of the record keys in
// first-seen order. Keys inside a single record are visited in sorted order so the
// resulting column order is deterministic.
func FromRecords(records []map[string]any) *Batch {
	var columns []string
	seen := map[string]struct{}{}
	rows := make([]Record, len(records))
	for i, r := range records {
		for _, k := range sortedKeys(r) {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
		rows[i] = Record(r)
	}
	return New(columns, rows)
}

// Empty returns a zero-row batch over the given columns.
func Empty(columns ...string) *Batch {
	return New(columns, nil)
}

func (b *Batch) Len() int {
	return len(b.rows)
}

func (b *Batch) Width() int {
	return len(b.columns)
}

func (b *Batch) IsEmpty() bool {
	return len(b.rows) == 0
}

// Columns returns a copy of the column order
func (b *Batch) Columns() []string {
	out := make([]string, len(b.columns))
	copy(out, b.columns)
	return out
}

func (b *Batch) Has(column string) bool {
	_, ok := b.index[column]
	return ok
}

// Value returns the cell at row i, reporting false when it is absent.
func (b *Batch) Value(i int, column string) (any, bool) {
	v, ok := b.rows[i][column]
	return v, ok
}

// Column returns the cells of one column in row order; absent cells are nil.
func (b *Batch) Column(column string) []any {
	out := make([]any, len(b.rows))
	for i, r := range b.rows {
		out[i] = r[column]
	}
	return out
}

// Row returns a copy of row i
func (b *Batch) Row(i int) Record {
	return copyRecord(b.rows[i])
}

func (b *Batch) Clone() *Batch {
	return New(b.columns, b.rows)
}

// WithColumn returns a new batch where column holds values. A new column is appended
// after the existing ones; an existing column keeps its position. nil values are absent.
func (b *Batch) WithColumn(column string, values []any) *Batch {
	columns := b.columns
	if !b.Has(column) {
		columns = append(b.Columns(), column)
	}
	out := New(columns, b.rows)
	for i := range out.rows {
		var v any
		if i < len(values) {
			v = values[i]
		}
		if v == nil {
			delete(out.rows[i], column)
			continue
		}
		out.rows[i][column] = v
	}
	return out
}

// DropColumns returns a new batch without the named columns. Unknown names are ignored.
func (b *Batch) DropColumns(columns ...string) *Batch {
	drop := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		drop[c] = struct{}{}
	}
	kept := make([]string, 0, len(b.columns))
	for _, c := range b.columns {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	return New(kept, b.rows)
}

// SelectRows returns a new batch holding the rows at the given indices, in that order.
func (b *Batch) SelectRows(indices []int) *Batch {
	rows := make([]Record, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, b.rows[i])
	}
	return New(b.columns, rows)
}

// Records returns copies of every row
func (b *Batch) Records() []Record {
	out := make([]Record, len(b.rows))
	for i, r := range b.rows {
		out[i] = copyRecord(r)
	}
	return out
}

// Concat appends the rows of other after the rows of b. The column set is the union,
// b's columns first. No deduplication happens here.
func Concat(b, other *Batch) *Batch {
	columns := b.Columns()
	for _, c := range other.columns {
		if !b.Has(c) {
			columns = append(columns, c)
		}
	}
	rows := make([]Record, 0, len(b.rows)+len(other.rows))
	rows = append(rows, b.rows...)
	rows = append(rows, other.rows...)
	return New(columns, rows)
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
