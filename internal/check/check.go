// Package check provides the --check coverage report and the pre-pipeline
// input validation (CheckInputs) for the data directory and label index.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/anomalabel/internal/config"
	"github.com/backmassage/anomalabel/internal/display"
	"github.com/backmassage/anomalabel/internal/labels"
	"github.com/backmassage/anomalabel/internal/pipeline"
	"github.com/backmassage/anomalabel/internal/term"
	"github.com/backmassage/anomalabel/internal/writer"
)

// Sentinel errors returned by CheckInputs.
var (
	ErrDataDirNotFound  = errors.New("data directory not found")
	ErrLabelsNotFound   = errors.New("labels file not found")
	ErrOutputInsideData = errors.New("output directory is inside the data directory")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// CheckInputs verifies that the data directory and labels file exist and,
// in mirror mode, that the output directory does not sit inside the data
// directory. Returns a wrapped sentinel error on failure.
func CheckInputs(cfg *config.Config) error {
	fi, err := os.Stat(cfg.DataDir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrDataDirNotFound, cfg.DataDir)
	}
	fi, err = os.Stat(cfg.LabelsFile)
	if err != nil || fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrLabelsNotFound, cfg.LabelsFile)
	}

	if cfg.Mode == config.ModeMirror && cfg.OutputDir != "" {
		data, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return err
		}
		out, err := filepath.Abs(cfg.OutputDir)
		if err != nil {
			return err
		}
		if rel, err := filepath.Rel(data, out); err == nil && rel != "." &&
			rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", ErrOutputInsideData, cfg.OutputDir)
		}
	}
	return nil
}

// coverageRow is one index entry in the --check table.
type coverageRow struct {
	Path       string
	Status     string
	Timestamps int
}

// RunCheck runs the --check flow: it lists every index entry with whether
// its data file exists, then the CSV files under the data directory that
// the index does not mention. Nothing is read beyond file metadata and
// nothing is written. Returns false when any indexed file is missing or
// its path is invalid.
func RunCheck(cfg *config.Config, idx *labels.Index, log Logger) bool {
	log.Info("=== Label Check ===")
	log.Info("Data:   %s", cfg.DataDir)
	log.Info("Labels: %s", cfg.LabelsFile)

	ok := true
	rows := make([]coverageRow, 0, idx.Len())
	for _, e := range idx.Entries() {
		row := coverageRow{Path: e.Path, Timestamps: len(e.Timestamps)}
		target, err := writer.Resolve(config.ModeInPlace, cfg.DataDir, "", e.Path)
		switch {
		case err != nil:
			row.Status = "invalid"
			ok = false
		case !isFile(target.Source):
			row.Status = "missing"
			ok = false
		default:
			row.Status = "present"
		}
		rows = append(rows, row)
	}
	printCoverageTable(rows)

	present := 0
	for _, r := range rows {
		if r.Status == "present" {
			present++
		}
	}
	log.Info("Indexed files: %s (%s present, %d anomaly timestamps)",
		display.FormatCount(idx.Len()),
		display.FormatRatio(present, idx.Len()),
		idx.TotalTimestamps())

	found, err := pipeline.Discover(cfg.DataDir)
	if err != nil {
		log.Error("Cannot scan %s: %v", cfg.DataDir, err)
		return false
	}
	var unlabeled []string
	for _, rel := range found {
		if _, listed := idx.Lookup(rel); !listed {
			unlabeled = append(unlabeled, rel)
		}
	}
	if len(unlabeled) > 0 {
		log.Warn("%d CSV file(s) have no entry in the label index:", len(unlabeled))
		for _, rel := range unlabeled {
			log.Info("  %s", rel)
		}
	} else {
		log.Success("Every CSV file under the data directory is indexed")
	}

	if ok {
		log.Success("All indexed files are present")
	} else {
		log.Error("Some indexed files are missing or invalid")
	}
	return ok
}

func printCoverageTable(rows []coverageRow) {
	nameW := len("File")
	stW := len("Status")
	tsW := len("Anomalies")
	for _, r := range rows {
		if len(r.Path) > nameW {
			nameW = len(r.Path)
		}
	}
	if nameW > 60 {
		nameW = 60
	}

	header := fmt.Sprintf("  %-*s  %-*s  %*s", nameW, "File", stW, "Status", tsW, "Anomalies")
	fmt.Println(header)
	fmt.Println("  " + strings.Repeat("-", len(header)-2))

	for _, r := range rows {
		name := r.Path
		if len(name) > nameW {
			name = "..." + name[len(name)-nameW+3:]
		}
		color := term.Green
		if r.Status != "present" {
			color = term.Red
		}
		fmt.Printf("  %-*s  %s%-*s%s  %*d\n",
			nameW, name, color, stW, r.Status, term.NC, tsW, r.Timestamps)
	}
	fmt.Println()
}

// isFile reports whether path exists and is not a directory.
func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
