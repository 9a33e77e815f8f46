package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into run mode, table layout, behavior, display, and utility.
// --config is located before the real parse so that file values become the
// flag defaults and explicit flags still win.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, unreadable config file, missing positional args).
func ParseFlags(cfg *Config, version string, args []string) error {
	if path := findConfigArg(args); path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet("anomalabel", flag.ContinueOnError)
	fs.Usage = func() { printUsage(version) }

	// Negated/override flags are captured here and applied after Parse so
	// that defaults (and config file values) hold unless the user passes them.
	var negated negatedFlags

	defineModeFlags(fs, cfg)
	defineTableFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(version)
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "anomalabel v"+version)
		os.Exit(0)
	}

	// An explicit output directory only makes sense for a mirrored run.
	if cfg.OutputDir != "" && cfg.Mode == ModeUnset {
		cfg.Mode = ModeMirror
	}
	cfg.OutputDir = NormalizeDirArg(cfg.OutputDir)

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
type negatedFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// findConfigArg returns the value of --config/-config without parsing the
// rest of the command line.
func findConfigArg(args []string) string {
	for i, a := range args {
		if a == "--" {
			return ""
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// defineModeFlags registers -m/--mode and -o/--output.
func defineModeFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&runModeValue{&cfg.Mode}, "mode", "Run mode: inplace | mirror")
	fs.Var(&runModeValue{&cfg.Mode}, "m", "Same as --mode")
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Mirrored output root (implies --mode mirror)")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "Same as --output")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
}

// defineTableFlags registers the column name overrides.
func defineTableFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.TimestampColumn, "timestamp-column", cfg.TimestampColumn, "Name of the timestamp column")
	fs.StringVar(&cfg.LabelColumn, "label-column", cfg.LabelColumn, "Name of the label column to add")
}

// defineBehaviorFlags registers dry-run, strict, check and the metrics file.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Label and report but write nothing")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Exit with status 1 if any file errored")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Report label index coverage and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus textfile metrics after the run")
}

// defineDisplayFlags registers --color, --no-color, verbose and --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies color overrides into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets DataDir and LabelsFile from the two positional
// args. Both may instead come from the config file, in which case no
// positional args are required.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		if cfg.DataDir != "" && cfg.LabelsFile != "" {
			return nil
		}
	case 2:
		cfg.DataDir = NormalizeDirArg(args[0])
		cfg.LabelsFile = args[1]
		return nil
	}
	return fmt.Errorf("need exactly data_dir and labels_file")
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(version string) {
	const col1 = 32
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "anomalabel v" + version + " - merge anomaly labels into time-series CSV files"},
		{"", ""},
		{"  anomalabel [OPTIONS] <data_dir> <labels_file>", ""},
		{"", ""},
		{"Run mode", ""},
		{"  -m, --mode <inplace|mirror>", "Overwrite sources or write a mirrored tree (prompted if unset)"},
		{"  -o, --output <dir>", "Mirrored output root (default: <data_dir>_with_labels)"},
		{"  --config <file>", "YAML config file (flags override it)"},
		{"", ""},
		{"Table layout", ""},
		{"  --timestamp-column <name>", "Timestamp column (default: timestamp)"},
		{"  --label-column <name>", "Label column to add (default: anomaly)"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Label and report but write nothing"},
		{"  --strict", "Exit with status 1 if any file errored"},
		{"  -c, --check", "Report label index coverage and exit"},
		{"  --metrics-file <path>", "Write Prometheus textfile metrics"},
		{"", ""},
		{"Display", ""},
		{"  --color / --no-color", "Force or disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"  -l, --log <file>", "Append logs to file"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}
	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so the RunMode enum can be used with flag.Var.

type runModeValue struct{ p *RunMode }

func (m *runModeValue) String() string {
	if m.p == nil {
		return ""
	}
	return string(*m.p)
}

func (m *runModeValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inplace", "in-place", "overwrite":
		*m.p = ModeInPlace
	case "mirror":
		*m.p = ModeMirror
	default:
		return fmt.Errorf("invalid mode %q (use 'inplace' or 'mirror')", s)
	}
	return nil
}
