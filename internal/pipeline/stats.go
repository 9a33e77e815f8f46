package pipeline

import (
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/anomalabel/internal/config"
	"github.com/backmassage/anomalabel/internal/labeler"
	"github.com/backmassage/anomalabel/internal/table"
	"github.com/backmassage/anomalabel/internal/writer"
)

// MissingFileError reports an index entry whose data file does not exist.
type MissingFileError struct {
	Path string
	Err  error
}

func (e *MissingFileError) Error() string { return "file not found: " + e.Path }

func (e *MissingFileError) Unwrap() error { return e.Err }

// ErrorKind classifies a per-file failure for the summary.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMissingFile
	KindSchema
	KindWrite
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingFile:
		return "missing"
	case KindSchema:
		return "schema"
	case KindWrite:
		return "write"
	}
	return "other"
}

// Classify maps err onto its ErrorKind. Unreadable or malformed CSV files
// count as schema errors.
func Classify(err error) ErrorKind {
	var (
		mf *MissingFileError
		se *labeler.SchemaError
		re *table.ReadError
		we *writer.WriteError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &mf):
		return KindMissingFile
	case errors.As(err, &we):
		return KindWrite
	case errors.As(err, &se), errors.As(err, &re):
		return KindSchema
	}
	return KindOther
}

// FileResult is the outcome for one index entry.
type FileResult struct {
	Path  string // As listed in the label index.
	Dest  string // Where the labeled table was (or, in a dry run, would be) written.
	Bytes int64  // Size of the written file.
	labeler.Result
	Err error
}

// Failed reports whether the entry counted as an error.
func (r FileResult) Failed() bool { return r.Err != nil }

// Report is the aggregate outcome of one run. It is returned by [Run] and
// never persisted by this package.
type Report struct {
	RunID  uuid.UUID
	Mode   config.RunMode
	DryRun bool

	Total     int // Entries in the label index.
	Current   int // Entries attempted so far.
	Processed int
	Errors    int

	Rows      int
	Anomalies int

	Started     time.Time
	Finished    time.Time
	Interrupted bool

	Files []FileResult
}

// add folds one file outcome into the counters.
func (r *Report) add(fr FileResult) {
	r.Files = append(r.Files, fr)
	if fr.Failed() {
		r.Errors++
		return
	}
	r.Processed++
	r.Rows += fr.Total
	r.Anomalies += fr.Anomalies
}

// ErrorsByKind counts failed files per ErrorKind.
func (r *Report) ErrorsByKind() map[ErrorKind]int {
	m := make(map[ErrorKind]int)
	for _, f := range r.Files {
		if f.Failed() {
			m[Classify(f.Err)]++
		}
	}
	return m
}

// Normal returns the number of rows labeled normal.
func (r *Report) Normal() int { return r.Rows - r.Anomalies }

// Elapsed returns the wall time of the run.
func (r *Report) Elapsed() time.Duration { return r.Finished.Sub(r.Started) }

// isNotExist reports whether err means the path does not exist.
func isNotExist(err error) bool { return errors.Is(err, os.ErrNotExist) }
