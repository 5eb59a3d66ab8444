// Package schema holds the ordered feature columns a model was trained on.
package schema

import (
	"fmt"
	"io"
	"os"
	"strings"

	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/gocarina/gocsv"
)

// TargetColumn never belongs to the training schema.
const TargetColumn = "price"

// Registry is immutable after load and safe to share between requests.
type Registry struct {
	columns []string
}

func New(columns []string) (*Registry, error) {
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if c == "" || c == TargetColumn {
			continue
		}
		if _, ok := seen[c]; ok {
			return nil, fmt.Errorf("duplicate schema column %q: %w", c, ierrors.ErrConfiguration)
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("training schema has no feature columns: %w", ierrors.ErrConfiguration)
	}
	return &Registry{columns: out}, nil
}

// Load reads the header row of a reference feature CSV. Data rows are not read.
func Load(r io.Reader) (*Registry, error) {
	header, err := gocsv.DefaultCSVReader(r).Read()
	if err != nil {
		return nil, fmt.Errorf("reading schema header: %w", err)
	}
	return New(header)
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Columns returns a copy of the training schema in order
func (r *Registry) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

func (r *Registry) Len() int {
	return len(r.columns)
}
