// Package pipeline drives a labeling run: for every label index entry it
// resolves the data file, labels it, writes it, and reports per-file and
// aggregate counts.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/anomalabel/internal/config"
	"github.com/backmassage/anomalabel/internal/display"
	"github.com/backmassage/anomalabel/internal/labeler"
	"github.com/backmassage/anomalabel/internal/labels"
	"github.com/backmassage/anomalabel/internal/logging"
	"github.com/backmassage/anomalabel/internal/table"
	"github.com/backmassage/anomalabel/internal/writer"
)

// Run is the top-level batch entry point. It processes the index entries
// sequentially in index order and returns the aggregate report. cfg.Mode
// must be resolved (inplace or mirror) before calling. Per-file failures
// are logged and counted; they never stop the run. Cancelling ctx stops
// the run between files.
func Run(ctx context.Context, cfg *config.Config, idx *labels.Index, log *logging.Logger) Report {
	rep := Report{
		RunID:   uuid.New(),
		Mode:    cfg.Mode,
		DryRun:  cfg.DryRun,
		Total:   idx.Len(),
		Started: time.Now(),
	}

	logBatchHeader(cfg, log, &rep)

	opts := labeler.DefaultOptions()
	if cfg.TimestampColumn != "" {
		opts.TimestampColumn = cfg.TimestampColumn
	}
	if cfg.LabelColumn != "" {
		opts.LabelColumn = cfg.LabelColumn
	}

	for i, e := range idx.Entries() {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			rep.Interrupted = true
			break
		}
		rep.Current = i + 1
		rep.add(processFile(cfg, log, opts, e))
	}

	rep.Finished = time.Now()
	logSummary(log, &rep)
	return rep
}

// processFile handles one index entry: resolve → read → label → write.
func processFile(cfg *config.Config, log *logging.Logger, opts labeler.Options, e labels.Entry) FileResult {
	fr := FileResult{Path: e.Path}

	target, err := writer.Resolve(cfg.Mode, cfg.DataDir, cfg.OutputDir, e.Path)
	if err != nil {
		return fail(log, fr, err)
	}
	fr.Dest = target.Dest

	if _, err := os.Stat(target.Source); err != nil {
		if isNotExist(err) {
			log.Warn("File not found: %s", target.Source)
			fr.Err = &MissingFileError{Path: target.Source, Err: err}
			return fr
		}
		return fail(log, fr, err)
	}

	log.Info("Processing: %s", e.Path)
	log.Debug(cfg.Verbose, "  %d anomaly timestamp(s) listed", len(e.Timestamps))

	tbl, err := table.Read(target.Source)
	if err != nil {
		return fail(log, fr, err)
	}

	res, err := labeler.Label(tbl, e.Timestamps, opts)
	if err != nil {
		return fail(log, fr, err)
	}
	fr.Result = res

	log.Info("  - Total points: %s", display.FormatCount(res.Total))
	log.Info("  - Anomaly points: %s", display.FormatCount(res.Anomalies))
	log.Info("  - Normal points: %s", display.FormatCount(res.Normal))
	if len(e.Timestamps) > 0 && res.Anomalies == 0 {
		log.Debug(cfg.Verbose, "  No listed timestamp matched a row exactly")
	}

	if cfg.DryRun {
		log.Success("  [DRY] Would save to: %s", target.Dest)
		return fr
	}

	n, err := writer.Write(tbl, target.Dest)
	if err != nil {
		return fail(log, fr, err)
	}
	fr.Bytes = n

	if cfg.Mode == config.ModeInPlace {
		log.Success("  - Updated original file (%s)", display.FormatBytes(n))
	} else {
		log.Success("  - Saved to: %s (%s)", target.Dest, display.FormatBytes(n))
	}
	return fr
}

// fail logs a per-file error with its path and records it on fr.
func fail(log *logging.Logger, fr FileResult, err error) FileResult {
	log.Error("Error processing %s: %v", fr.Path, err)
	fr.Err = err
	return fr
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, rep *Report) {
	log.Info("Run %s", rep.RunID)
	log.Info("Found %s labeled files", display.FormatCount(rep.Total))
	switch cfg.Mode {
	case config.ModeInPlace:
		log.Info("Mode: in place (original files will be modified)")
	case config.ModeMirror:
		log.Info("Mode: mirror -> %s", cfg.OutputDir)
	}
	log.Info("Columns: timestamp=%q label=%q", cfg.TimestampColumn, cfg.LabelColumn)
	if cfg.DryRun {
		log.Warn("DRY RUN - no files will be written")
	}
	fmt.Println()
}

func logSummary(log *logging.Logger, rep *Report) {
	fmt.Println()
	log.Info("==============================")
	log.Info("Processing complete!")
	log.Info("Successfully processed: %s files", display.FormatCount(rep.Processed))
	if rep.Errors == 0 {
		log.Info("Errors encountered: 0 files")
	} else {
		byKind := rep.ErrorsByKind()
		log.Warn("Errors encountered: %s files (missing %d, schema %d, write %d, other %d)",
			display.FormatCount(rep.Errors),
			byKind[KindMissingFile], byKind[KindSchema], byKind[KindWrite], byKind[KindOther])
	}
	log.Info("Rows labeled: %s (%s anomalous, %s)",
		display.FormatCount(rep.Rows),
		display.FormatCount(rep.Anomalies),
		display.FormatRatio(rep.Anomalies, rep.Rows))
	if rep.Interrupted {
		log.Warn("Run interrupted after %d of %d files", rep.Current, rep.Total)
	}
	log.Info("Elapsed: %s", rep.Elapsed().Round(time.Millisecond))
}
