// Package writer persists labeled tables, either over their source file or
// into a mirrored directory tree.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/anomalabel/internal/config"
	"github.com/backmassage/anomalabel/internal/table"
)

// ErrOutsideRoot is wrapped by [Resolve] for index paths that would land
// outside the data directory.
var ErrOutsideRoot = errors.New("path escapes the data directory")

// WriteError reports a destination that could not be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Target is where one index entry is read from and written to.
type Target struct {
	Rel    string // Path as listed in the label index.
	Source string // <dataDir>/<rel>
	Dest   string // Source in place mode, <outputDir>/<rel> in mirror mode.
}

// Resolve maps an index path to its source and destination.
//
//	inplace: <dataDir>/<rel> -> <dataDir>/<rel>
//	mirror:  <dataDir>/<rel> -> <outputDir>/<rel>
//
// Absolute paths and paths that climb out of the data directory are rejected.
func Resolve(mode config.RunMode, dataDir, outputDir, rel string) (Target, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if rel == "" || filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return Target{}, fmt.Errorf("%q: %w", rel, ErrOutsideRoot)
	}

	t := Target{Rel: rel, Source: filepath.Join(dataDir, clean)}
	switch mode {
	case config.ModeInPlace:
		t.Dest = t.Source
	case config.ModeMirror:
		t.Dest = filepath.Join(outputDir, clean)
	default:
		return Target{}, fmt.Errorf("unknown run mode %q", mode)
	}
	return t, nil
}

// Write stores tbl at dst, creating missing parent directories first. The
// table is written to a temporary file next to dst and renamed over it, so
// dst is never left half written. Returns the number of bytes written.
func Write(tbl *table.Table, dst string) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, &WriteError{Path: dst, Err: err}
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(dst); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return 0, &WriteError{Path: dst, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if err := tbl.Encode(tmp); err != nil {
		tmp.Close()
		return 0, &WriteError{Path: dst, Err: err}
	}
	fi, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, &WriteError{Path: dst, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return 0, &WriteError{Path: dst, Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return 0, &WriteError{Path: dst, Err: err}
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return 0, &WriteError{Path: dst, Err: err}
	}
	committed = true
	return fi.Size(), nil
}
