package batch

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/tabular"
)

var ErrNoPredictions = errors.New("no predictions found")

type Preview struct {
	File    string           `json:"file"`
	Rows    int              `json:"rows"`
	Preview []map[string]any `json:"preview"`
}

// Latest previews the newest preds_*.csv in dir. The timestamp layout sorts
// chronologically, so the lexicographically last file is the newest.
func Latest(dir string, limit int) (*Preview, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoPredictions
	}
	sort.Strings(files)
	latest := files[len(files)-1]

	b, err := tabular.ReadFile(latest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPredictions
		}
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if limit > b.Len() {
		limit = b.Len()
	}
	columns := b.Columns()
	preview := make([]map[string]any, limit)
	for i := 0; i < limit; i++ {
		row := make(map[string]any, len(columns))
		for _, c := range columns {
			v, _ := b.Value(i, c)
			row[c] = v
		}
		preview[i] = row
	}
	return &Preview{File: filepath.Base(latest), Rows: b.Len(), Preview: preview}, nil
}
