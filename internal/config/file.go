package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file. Pointer fields distinguish
// "absent" from zero values so that only keys present in the file override
// the defaults.
type fileConfig struct {
	DataDir    string `yaml:"data_dir"`
	LabelsFile string `yaml:"labels_file"`
	OutputDir  string `yaml:"output_dir"`
	Mode       string `yaml:"mode"`

	Columns struct {
		Timestamp string `yaml:"timestamp"`
		Label     string `yaml:"label"`
	} `yaml:"columns"`

	DryRun *bool `yaml:"dry_run"`
	Strict *bool `yaml:"strict"`

	Logging struct {
		File    string `yaml:"file"`
		Color   string `yaml:"color"`
		Verbose *bool  `yaml:"verbose"`
	} `yaml:"logging"`

	Metrics struct {
		File string `yaml:"file"`
	} `yaml:"metrics"`
}

// LoadFile reads a YAML config file and applies every key it sets onto cfg.
// Unknown keys are rejected so that typos do not pass silently.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return applyYAML(cfg, path, data)
}

func applyYAML(cfg *Config, path string, data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.DataDir != "" {
		cfg.DataDir = NormalizeDirArg(fc.DataDir)
	}
	if fc.LabelsFile != "" {
		cfg.LabelsFile = fc.LabelsFile
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = NormalizeDirArg(fc.OutputDir)
	}
	if fc.Mode != "" {
		if err := (&runModeValue{&cfg.Mode}).Set(fc.Mode); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	}
	if fc.Columns.Timestamp != "" {
		cfg.TimestampColumn = fc.Columns.Timestamp
	}
	if fc.Columns.Label != "" {
		cfg.LabelColumn = fc.Columns.Label
	}
	if fc.DryRun != nil {
		cfg.DryRun = *fc.DryRun
	}
	if fc.Strict != nil {
		cfg.Strict = *fc.Strict
	}
	if fc.Logging.File != "" {
		cfg.LogFile = fc.Logging.File
	}
	if fc.Logging.Color != "" {
		cfg.ColorMode = ColorMode(fc.Logging.Color)
	}
	if fc.Logging.Verbose != nil {
		cfg.Verbose = *fc.Logging.Verbose
	}
	if fc.Metrics.File != "" {
		cfg.MetricsFile = fc.Metrics.File
	}
	cfg.ConfigFile = path
	return nil
}
