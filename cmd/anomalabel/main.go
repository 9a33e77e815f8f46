// Command anomalabel merges an anomaly label index into a directory of
// time-series CSV files.
//
// It parses flags, validates configuration and paths, and either prints the
// label coverage report (--check) or runs the labeling pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/anomalabel/internal/check"
	"github.com/backmassage/anomalabel/internal/config"
	"github.com/backmassage/anomalabel/internal/display"
	"github.com/backmassage/anomalabel/internal/labels"
	"github.com/backmassage/anomalabel/internal/logging"
	"github.com/backmassage/anomalabel/internal/metrics"
	"github.com/backmassage/anomalabel/internal/pipeline"
	"github.com/backmassage/anomalabel/internal/term"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "anomalabel: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "anomalabel: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anomalabel: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stdout)
	log.Debug(cfg.Verbose, "anomalabel v%s (%s)", version, commit)
	if cfg.ConfigFile != "" {
		log.Debug(cfg.Verbose, "Config file: %s", cfg.ConfigFile)
	}

	// Missing inputs are fatal before anything is asked or written.
	cfg.ResolveOutputDir()
	if err := check.CheckInputs(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}

	idx, err := labels.Load(cfg.LabelsFile)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Info("Loaded %s labeled files (%s anomaly timestamps) from %s",
		display.FormatCount(idx.Len()),
		display.FormatCount(idx.TotalTimestamps()),
		cfg.LabelsFile)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, idx, log) {
			return 1
		}
		return 0
	}

	if cfg.Mode == config.ModeUnset {
		mode, err := term.PromptMode(os.Stdin, os.Stdout)
		if err != nil {
			if errors.Is(err, term.ErrNoChoice) {
				log.Error("No run mode chosen (use --mode inplace or --mode mirror)")
			} else {
				log.Error("%v", err)
			}
			return 1
		}
		cfg.Mode = mode
		cfg.ResolveOutputDir()
		if err := check.CheckInputs(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	if cfg.Mode == config.ModeMirror {
		dataAbs, err := absPath(cfg.DataDir)
		if err != nil {
			log.Error("Cannot resolve data path: %s", cfg.DataDir)
			return 1
		}
		outputAbs, err := absPath(cfg.OutputDir)
		if err != nil {
			log.Error("Cannot resolve output path: %s", cfg.OutputDir)
			return 1
		}
		if err := cfg.ValidatePaths(dataAbs, outputAbs); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so the pipeline
	// stops between files.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file...")
		cancel()
	}()

	// Phase 4: Run pipeline.
	rep := pipeline.Run(ctx, &cfg, idx, log)

	if cfg.MetricsFile != "" {
		rec := metrics.New(rep.RunID.String(), string(rep.Mode))
		for _, f := range rep.Files {
			rec.Observe(metrics.FileCounts{Failed: f.Failed(), Rows: f.Total, Anomalies: f.Anomalies})
		}
		rec.Finish(rep.Finished)
		if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error("Cannot write metrics to %s: %v", cfg.MetricsFile, err)
			return 1
		}
		log.Debug(cfg.Verbose, "Metrics written to %s", cfg.MetricsFile)
	}

	if rep.Interrupted {
		return 130
	}
	if cfg.Strict && rep.Errors > 0 {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path. A path that does not
// exist yet resolves through its nearest existing parent, so a mirror
// directory created later still compares correctly against the data dir.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	dir, err := absPath(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
