package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/srv/data", "/srv/data"},
		{"single trailing slash", "/srv/data/", "/srv/data"},
		{"multiple trailing slashes", "/srv/data///", "/srv/data"},
		{"root path", "/", "/"},
		{"relative path", "data", "data"},
		{"relative with slash", "data/", "data"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/work/Dataset/data", "/work/Dataset/data_with_labels"},
		{"/work/Dataset/data/", "/work/Dataset/data_with_labels"},
		{"data", "data_with_labels"},
	}
	for _, tt := range tests {
		if got := DefaultOutputDir(tt.in); got != tt.want {
			t.Errorf("DefaultOutputDir(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	cfg.LabelsFile = "/labels.json"
	return cfg
}

func TestValidate_Mode(t *testing.T) {
	tests := []struct {
		name    string
		mode    RunMode
		wantErr bool
	}{
		{"unset is valid", ModeUnset, false},
		{"inplace is valid", ModeInPlace, false},
		{"mirror is valid", ModeMirror, false},
		{"unknown is invalid", "copy", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Mode = tt.mode
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Columns(t *testing.T) {
	tests := []struct {
		name    string
		ts      string
		label   string
		wantErr bool
	}{
		{"defaults", "timestamp", "anomaly", false},
		{"custom names", "time", "is_anomaly", false},
		{"empty timestamp", "", "anomaly", true},
		{"blank label", "timestamp", "  ", true},
		{"same column", "timestamp", "timestamp", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.TimestampColumn = tt.ts
			cfg.LabelColumn = tt.label
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ColorMode(t *testing.T) {
	cfg := validConfig()
	cfg.ColorMode = "rainbow"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unknown color mode")
	}
}

func TestValidate_RequiresPaths(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should fail when paths are empty")
	}

	cfg.DataDir = "/data"
	cfg.LabelsFile = "/labels.json"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestResolveOutputDir(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = ModeInPlace
	cfg.ResolveOutputDir()
	if cfg.OutputDir != "" {
		t.Errorf("in-place mode should not set OutputDir, got %q", cfg.OutputDir)
	}

	cfg.Mode = ModeMirror
	cfg.ResolveOutputDir()
	if cfg.OutputDir != "/data_with_labels" {
		t.Errorf("OutputDir = %q, want /data_with_labels", cfg.OutputDir)
	}

	cfg.OutputDir = "/elsewhere"
	cfg.ResolveOutputDir()
	if cfg.OutputDir != "/elsewhere" {
		t.Errorf("explicit OutputDir overwritten: %q", cfg.OutputDir)
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		mode    RunMode
		data    string
		output  string
		wantErr bool
	}{
		{"separate directories", ModeMirror, "/srv/data", "/srv/out", false},
		{"output equals data", ModeMirror, "/srv/data", "/srv/data", true},
		{"output inside data is allowed", ModeMirror, "/srv/data", "/srv/data/labeled", false},
		{"in-place ignores output", ModeInPlace, "/srv/data", "/srv/data", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Mode = tt.mode
			err := cfg.ValidatePaths(tt.data, tt.output)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v",
					tt.data, tt.output, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeUnset {
		t.Errorf("default Mode = %q, want unset", cfg.Mode)
	}
	if cfg.TimestampColumn != "timestamp" {
		t.Errorf("default TimestampColumn = %q", cfg.TimestampColumn)
	}
	if cfg.LabelColumn != "anomaly" {
		t.Errorf("default LabelColumn = %q", cfg.LabelColumn)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
	if cfg.DryRun {
		t.Error("default DryRun should be false")
	}
}

func TestParseFlags_Positional(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, "test", []string{"--mode", "mirror", "--label-column", "label", "data/", "labels.json"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.DataDir != "data" || cfg.LabelsFile != "labels.json" {
		t.Errorf("paths = %q, %q", cfg.DataDir, cfg.LabelsFile)
	}
	if cfg.Mode != ModeMirror {
		t.Errorf("Mode = %q, want mirror", cfg.Mode)
	}
	if cfg.LabelColumn != "label" {
		t.Errorf("LabelColumn = %q, want label", cfg.LabelColumn)
	}
}

func TestParseFlags_OutputImpliesMirror(t *testing.T) {
	cfg := DefaultConfig()
	if err := ParseFlags(&cfg, "test", []string{"-o", "out/", "data", "labels.json"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.Mode != ModeMirror || cfg.OutputDir != "out" {
		t.Errorf("Mode = %q, OutputDir = %q", cfg.Mode, cfg.OutputDir)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing positional", []string{"data"}},
		{"too many positional", []string{"a", "b", "c"}},
		{"bad mode", []string{"--mode", "copy", "data", "labels.json"}},
		{"unknown flag", []string{"--bogus", "data", "labels.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if err := ParseFlags(&cfg, "test", tt.args); err == nil {
				t.Errorf("ParseFlags(%v) should fail", tt.args)
			}
		})
	}
}

func TestParseFlags_NoColor(t *testing.T) {
	cfg := DefaultConfig()
	if err := ParseFlags(&cfg, "test", []string{"--no-color", "--color", "data", "labels.json"}); err != nil {
		t.Fatal(err)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, --no-color should win", cfg.ColorMode)
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anomalabel.yaml")
	content := `data_dir: /srv/data/
labels_file: /srv/labels.json
mode: mirror
output_dir: /srv/out
columns:
  timestamp: ts
logging:
  color: never
  verbose: true
metrics:
  file: /var/lib/node_exporter/anomalabel.prom
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	// Explicit flags override the file.
	if err := ParseFlags(&cfg, "test", []string{"--config", path, "--timestamp-column", "time"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.DataDir != "/srv/data" || cfg.LabelsFile != "/srv/labels.json" {
		t.Errorf("paths = %q, %q", cfg.DataDir, cfg.LabelsFile)
	}
	if cfg.Mode != ModeMirror || cfg.OutputDir != "/srv/out" {
		t.Errorf("Mode = %q, OutputDir = %q", cfg.Mode, cfg.OutputDir)
	}
	if cfg.TimestampColumn != "time" {
		t.Errorf("TimestampColumn = %q, flag should override file", cfg.TimestampColumn)
	}
	if cfg.ColorMode != ColorNever || !cfg.Verbose {
		t.Errorf("logging section not applied: color=%q verbose=%v", cfg.ColorMode, cfg.Verbose)
	}
	if cfg.MetricsFile == "" {
		t.Error("metrics file not applied")
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("data_directory: /srv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err == nil {
		t.Error("LoadFile should reject unknown keys")
	}
}

func TestLoadFile_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Errorf("LoadFile(empty) = %v, want nil", err)
	}
	if cfg.TimestampColumn != "timestamp" {
		t.Errorf("empty file changed defaults: %q", cfg.TimestampColumn)
	}
}

func TestFindConfigArg(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--config", "a.yaml", "x", "y"}, "a.yaml"},
		{[]string{"-config=b.yaml"}, "b.yaml"},
		{[]string{"x", "y"}, ""},
		{[]string{"--", "--config", "c.yaml"}, ""},
	}
	for _, tt := range tests {
		if got := findConfigArg(tt.args); got != tt.want {
			t.Errorf("findConfigArg(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestLoadFile_ModeAliases(t *testing.T) {
	tests := []struct {
		mode    string
		want    RunMode
		wantErr bool
	}{
		{"in-place", ModeInPlace, false},
		{"overwrite", ModeInPlace, false},
		{"Mirror", ModeMirror, false},
		{"copy", ModeUnset, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte("mode: "+tt.mode+"\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg := DefaultConfig()
			err := LoadFile(&cfg, path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFile() err = %v, wantErr %v", err, tt.wantErr)
			}
			if cfg.Mode != tt.want {
				t.Errorf("Mode = %q, want %q", cfg.Mode, tt.want)
			}
		})
	}
}
