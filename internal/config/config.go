// Package config holds runtime configuration: defaults, an optional YAML
// config file, CLI flag parsing, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// RunMode selects where labeled tables are written.
type RunMode string

const (
	ModeUnset   RunMode = ""        // Not chosen yet; the CLI prompts for it.
	ModeInPlace RunMode = "inplace" // Overwrite the source files.
	ModeMirror  RunMode = "mirror"  // Write into a mirrored tree under OutputDir.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by [LoadFile] when --config is given, and finally by [ParseFlags]
// before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args or the config file).
	DataDir    string
	LabelsFile string
	OutputDir  string // Mirror mode only. Default: "<DataDir>_with_labels".

	Mode RunMode

	// Table layout.
	TimestampColumn string // Default: "timestamp".
	LabelColumn     string // Default: "anomaly".

	// Behavior flags.
	DryRun    bool
	Strict    bool // Exit non-zero when any file errored.
	CheckOnly bool // Run --check diagnostics and exit.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.

	// Optional Prometheus textfile written after the run.
	MetricsFile string

	// ConfigFile is the YAML file the settings above were read from, if any.
	ConfigFile string
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// the config file and CLI flags apply overrides.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeUnset,
		TimestampColumn: "timestamp",
		LabelColumn:     "anomaly",
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// DefaultOutputDir returns the sibling directory used for mirrored output
// when none is configured: "/x/data" becomes "/x/data_with_labels".
func DefaultOutputDir(dataDir string) string {
	clean := filepath.Clean(dataDir)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+"_with_labels")
}

// Validate checks that enum fields hold valid values and that the paths
// required by the chosen mode are set. An unset Mode is accepted here; the
// CLI resolves it before the pipeline runs.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeUnset, ModeInPlace, ModeMirror:
		// valid
	default:
		return fmt.Errorf("invalid mode %q (use 'inplace' or 'mirror')", c.Mode)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if strings.TrimSpace(c.TimestampColumn) == "" {
		return errors.New("timestamp column must not be empty")
	}
	if strings.TrimSpace(c.LabelColumn) == "" {
		return errors.New("label column must not be empty")
	}
	if c.TimestampColumn == c.LabelColumn {
		return fmt.Errorf("label column %q would overwrite the timestamp column", c.LabelColumn)
	}

	if c.DataDir == "" || c.LabelsFile == "" {
		return errors.New("need exactly data_dir and labels_file")
	}
	return nil
}

// ResolveOutputDir fills OutputDir with the default mirror location when
// mirror mode is active and no directory was configured.
func (c *Config) ResolveOutputDir() {
	if c.Mode == ModeMirror && c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir(c.DataDir)
	}
}

// ValidatePaths ensures that in mirror mode the resolved output directory is
// not the data directory itself, which would silently turn a mirrored run
// into an in-place one. Both arguments must be absolute, symlink-resolved
// paths.
func (c *Config) ValidatePaths(dataAbs, outputAbs string) error {
	if c.Mode != ModeMirror {
		return nil
	}
	if filepath.Clean(outputAbs) == filepath.Clean(dataAbs) {
		return errors.New("output directory must differ from the data directory (use --mode inplace to overwrite)")
	}
	return nil
}
