package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/countries"
	"github.com/dmitrijs2005/cvtrack/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from a config file. Absent keys stay nil and
// leave the current value alone.
type FileConfig struct {
	DataDir           *string `json:"data_dir" yaml:"data_dir"`
	DatabasePath      *string `json:"database_path" yaml:"database_path"`
	OutputsDir        *string `json:"outputs_dir" yaml:"outputs_dir"`
	LegacyStatsPath   *string `json:"legacy_stats_path" yaml:"legacy_stats_path"`
	LegacyDeletedPath *string `json:"legacy_deleted_path" yaml:"legacy_deleted_path"`
	MirrorPath        *string `json:"mirror_path" yaml:"mirror_path"`

	ScanInterval  *timex.Duration `json:"scan_interval" yaml:"scan_interval"`
	WatchOutputs  *bool           `json:"watch_outputs" yaml:"watch_outputs"`
	WatchDebounce *timex.Duration `json:"watch_debounce" yaml:"watch_debounce"`

	LogLevel  *string `json:"log_level" yaml:"log_level"`
	LogFormat *string `json:"log_format" yaml:"log_format"`
	LogDir    *string `json:"log_dir" yaml:"log_dir"`

	MetricsAddr *string `json:"metrics_addr" yaml:"metrics_addr"`

	CandidateName       *string `json:"candidate_name" yaml:"candidate_name"`
	CVTemplate          *string `json:"cv_template" yaml:"cv_template"`
	CoverLetterTemplate *string `json:"cover_letter_template" yaml:"cover_letter_template"`

	CVExtensions []string        `json:"cv_extensions" yaml:"cv_extensions"`
	Countries    countries.Table `json:"countries" yaml:"countries"`
}

// parseFile overlays cfg with the file at path. The format follows the
// extension: .yaml and .yml are YAML, anything else JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.OutputsDir, fc.OutputsDir)
	setString(&cfg.LegacyStatsPath, fc.LegacyStatsPath)
	setString(&cfg.LegacyDeletedPath, fc.LegacyDeletedPath)
	setString(&cfg.MirrorPath, fc.MirrorPath)
	if fc.ScanInterval != nil {
		cfg.ScanInterval = fc.ScanInterval.Duration
	}
	if fc.WatchOutputs != nil {
		cfg.WatchOutputs = *fc.WatchOutputs
	}
	if fc.WatchDebounce != nil {
		cfg.WatchDebounce = fc.WatchDebounce.Duration
	}
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogDir, fc.LogDir)
	setString(&cfg.MetricsAddr, fc.MetricsAddr)
	setString(&cfg.CandidateName, fc.CandidateName)
	setString(&cfg.CVTemplate, fc.CVTemplate)
	setString(&cfg.CoverLetterTemplate, fc.CoverLetterTemplate)
	if fc.CVExtensions != nil {
		cfg.CVExtensions = fc.CVExtensions
	}
	if fc.Countries != nil {
		cfg.Countries = fc.Countries
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
