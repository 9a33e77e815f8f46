// Package labeler assigns the binary anomaly label to every row of a table.
//
// A row is labeled 1 if and only if its parsed timestamp is exactly equal
// to one of the parsed anomaly timestamps for its file; otherwise 0. The
// transform does no I/O.
package labeler

import (
	"errors"
	"fmt"

	"github.com/backmassage/anomalabel/internal/table"
)

// Label values.
const (
	Normal    = 0
	Anomalous = 1
)

// SchemaError reports a table that cannot be labeled: the timestamp column
// is missing or a timestamp cannot be parsed.
type SchemaError struct {
	Column string
	Row    int // 1-based data row; 0 when not row specific.
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("column %q row %d: cannot parse %q: %v", e.Column, e.Row, e.Value, e.Err)
	case e.Value != "":
		return fmt.Sprintf("anomaly timestamp %q: %v", e.Value, e.Err)
	default:
		return fmt.Sprintf("column %q: %v", e.Column, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Options names the columns the labeler reads and writes.
type Options struct {
	TimestampColumn string
	LabelColumn     string
}

// DefaultOptions returns the standard column names.
func DefaultOptions() Options {
	return Options{TimestampColumn: "timestamp", LabelColumn: "anomaly"}
}

// Result holds the per-file row counts.
type Result struct {
	Total     int
	Anomalies int
	Normal    int
}

// Label parses tbl's timestamp column and the anomaly timestamps, then
// stores the label column on tbl. On error tbl is left unchanged.
func Label(tbl *table.Table, anomalies []string, opts Options) (Result, error) {
	raw, err := tbl.Column(opts.TimestampColumn)
	if err != nil {
		return Result{}, &SchemaError{Column: opts.TimestampColumn, Err: err}
	}

	rows := make([]Timestamp, len(raw))
	valid := make([]bool, len(raw))
	for i, s := range raw {
		ts, err := ParseTimestamp(s)
		if errors.Is(err, errNotATime) {
			continue
		}
		if err != nil {
			return Result{}, &SchemaError{Column: opts.TimestampColumn, Row: i + 1, Value: s, Err: err}
		}
		rows[i], valid[i] = ts, true
	}

	set, err := anomalySet(anomalies)
	if err != nil {
		return Result{}, err
	}

	labels := make([]int, len(raw))
	res := Result{Total: len(raw)}
	for i := range rows {
		if !valid[i] {
			continue
		}
		if _, hit := set[rows[i].key()]; hit {
			labels[i] = Anomalous
			res.Anomalies++
		}
	}
	res.Normal = res.Total - res.Anomalies

	if err := tbl.SetIntColumn(opts.LabelColumn, labels); err != nil {
		return Result{}, &SchemaError{Column: opts.LabelColumn, Err: err}
	}
	return res, nil
}

// anomalySet parses the anomaly timestamps into a membership set. Blank
// entries are ignored; anything else that fails to parse is an error.
func anomalySet(anomalies []string) (map[key]struct{}, error) {
	set := make(map[key]struct{}, len(anomalies))
	for _, s := range anomalies {
		ts, err := ParseTimestamp(s)
		if errors.Is(err, errNotATime) {
			continue
		}
		if err != nil {
			return nil, &SchemaError{Value: s, Err: err}
		}
		set[ts.key()] = struct{}{}
	}
	return set, nil
}
