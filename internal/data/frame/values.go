package frame

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ToFloat reads a cell as a number. Booleans read as 1 and 0.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ToCode reads a cell as a categorical code. Integral numbers print without a
// fractional part so 98101 and "98101" name the same zipcode.
func ToCode(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return formatNumber(f), true
		}
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		if f, ok := ToFloat(v); ok {
			return formatNumber(f), true
		}
		return "", false
	}
}

// ParseCell turns a raw CSV field into a cell: empty means absent, numeric text becomes
// float64, anything else stays a string.
func ParseCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "True", "true":
		return true
	case "False", "false":
		return false
	}
	return raw
}

// FormatCell renders a cell for a CSV sink; absent cells are empty.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		if f, ok := ToFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return ""
	}
}

// cellKey is a type-tagged rendering used to test cells for equality
func cellKey(v any) string {
	switch t := v.(type) {
	case nil:
		return "~"
	case string:
		return "s" + strconv.Quote(t)
	case bool:
		return "b" + strconv.FormatBool(t)
	default:
		if f, ok := ToFloat(v); ok {
			return "n" + strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "?"
	}
}

// RowKey renders row i over the batch columns; equal keys mean equal rows.
func (b *Batch) RowKey(i int) string {
	var sb strings.Builder
	for _, c := range b.columns {
		sb.WriteString(cellKey(b.rows[i][c]))
		sb.WriteByte('|')
	}
	return sb.String()
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
