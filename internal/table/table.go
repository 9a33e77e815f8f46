// Package table loads, mutates and writes the row-oriented CSV tables that
// carry one time series each.
//
// Every column is held as text: type detection is disabled so that values
// other than the label column are written back exactly as they were read.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoColumn is wrapped by [Table.Column] when the named column is absent.
var ErrNoColumn = errors.New("no such column")

// ReadError reports a CSV file that could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Path == "" {
		return "read table: " + e.Err.Error()
	}
	return fmt.Sprintf("read table %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Table is one CSV file held in memory.
type Table struct {
	df dataframe.DataFrame
}

// Read loads the CSV file at path. The first row is the header.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	t, err := ReadFrom(bytes.NewReader(data))
	if err != nil {
		var re *ReadError
		if errors.As(err, &re) {
			re.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadFrom loads a CSV table from r. The first row is the header. A leading
// byte order mark is dropped, rows shorter than the header are padded with
// empty cells, and a header with no data rows yields an empty table.
func ReadFrom(r io.Reader) (*Table, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ReadError{Err: err}
	}
	if len(records) == 0 {
		return nil, &ReadError{Err: errors.New("no header row")}
	}

	header := records[0]
	for i, rec := range records[1:] {
		switch {
		case len(rec) > len(header):
			return nil, &ReadError{Err: fmt.Errorf("row %d: %d fields, header has %d", i+1, len(rec), len(header))}
		case len(rec) < len(header):
			records[i+1] = append(rec, make([]string, len(header)-len(rec))...)
		}
	}

	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		if df.Err != nil {
			return nil, &ReadError{Err: df.Err}
		}
		return &Table{df: df}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return nil, &ReadError{Err: df.Err}
	}
	return &Table{df: df}, nil
}

// Nrow returns the number of data rows (the header is not counted).
func (t *Table) Nrow() int { return t.df.Nrow() }

// Names returns the column names in file order.
func (t *Table) Names() []string { return t.df.Names() }

// HasColumn reports whether a column called name exists.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.df.Names(), name)
}

// Column returns the raw text of every cell in the named column.
func (t *Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w %q", ErrNoColumn, name)
	}
	s := t.df.Col(name)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Records(), nil
}

// SetIntColumn stores vals as an integer column called name. An existing
// column with that name is replaced where it stands; otherwise the column
// is appended after the last one.
func (t *Table) SetIntColumn(name string, vals []int) error {
	if len(vals) != t.Nrow() {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(vals), t.Nrow())
	}
	df := t.df.Mutate(series.New(vals, series.Int, name))
	if df.Err != nil {
		return df.Err
	}
	t.df = df
	return nil
}

// Encode writes the table as CSV, header first.
func (t *Table) Encode(w io.Writer) error {
	return t.df.WriteCSV(w, dataframe.WriteHeader(true))
}
