// Package tabular reads CSV sources into batches and writes batches to CSV sinks.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Meesho/BharatMLStack/housing-inference/internal/data/frame"
	ierrors "github.com/Meesho/BharatMLStack/housing-inference/internal/errors"
	"github.com/gocarina/gocsv"
)

// ReadBatch treats the first row as the header. Empty, NaN and null fields are absent;
// numeric fields become float64.
func ReadBatch(r io.Reader) (*frame.Batch, error) {
	reader := gocsv.DefaultCSVReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header: %w", ierrors.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	var rows []frame.Record
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		row := make(frame.Record, len(header))
		for j, name := range header {
			if j < len(fields) {
				row[name] = frame.ParseCell(fields[j])
			}
		}
		rows = append(rows, row)
	}
	return frame.New(header, rows), nil
}

func ReadFile(path string) (*frame.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBatch(f)
}

// WriteBatch writes the header and one line per row. Absent cells are empty fields.
func WriteBatch(w io.Writer, b *frame.Batch) error {
	writer := gocsv.DefaultCSVWriter(w)
	columns := b.Columns()
	if err := writer.Write(columns); err != nil {
		return err
	}
	fields := make([]string, len(columns))
	for i := 0; i < b.Len(); i++ {
		for j, c := range columns {
			v, _ := b.Value(i, c)
			fields[j] = frame.FormatCell(v)
		}
		if err := writer.Write(fields); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile creates parent directories as needed and replaces any existing file.
func WriteFile(path string, b *frame.Batch) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteBatch(f, b)
}
