package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared with the command tree.
const (
	FlagConfig        = "config"
	FlagDataDir       = "data-dir"
	FlagDatabase      = "db"
	FlagOutputs       = "outputs"
	FlagMirror        = "mirror"
	FlagScanInterval  = "scan-interval"
	FlagWatch         = "watch"
	FlagLogLevel      = "log-level"
	FlagLogFormat     = "log-format"
	FlagLogDir        = "log-dir"
	FlagMetricsAddr   = "metrics-addr"
	FlagCandidateName = "candidate"
)

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// are informational; only flags set explicitly override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON or YAML config file")
	fs.StringP(FlagDataDir, "d", d.DataDir, "data directory; relative paths are resolved against it")
	fs.String(FlagDatabase, d.DatabasePath, "SQLite database path")
	fs.StringP(FlagOutputs, "o", d.OutputsDir, "outputs root scanned for application folders")
	fs.String(FlagMirror, d.MirrorPath, "write a JSON mirror here after every change")
	fs.Duration(FlagScanInterval, d.ScanInterval, "background scan interval (0 disables)")
	fs.Bool(FlagWatch, d.WatchOutputs, "rescan when the outputs tree changes")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, d.LogFormat, "log format: auto, text, json")
	fs.String(FlagLogDir, d.LogDir, "also write daily log files to this directory")
	fs.String(FlagMetricsAddr, d.MetricsAddr, "serve Prometheus metrics on host:port")
	fs.String(FlagCandidateName, d.CandidateName, "candidate name used in generated file names")
}

// applyFlags copies flags that were set on the command line into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	strs := map[string]*string{
		FlagDataDir:       &cfg.DataDir,
		FlagDatabase:      &cfg.DatabasePath,
		FlagOutputs:       &cfg.OutputsDir,
		FlagMirror:        &cfg.MirrorPath,
		FlagLogLevel:      &cfg.LogLevel,
		FlagLogFormat:     &cfg.LogFormat,
		FlagLogDir:        &cfg.LogDir,
		FlagMetricsAddr:   &cfg.MetricsAddr,
		FlagCandidateName: &cfg.CandidateName,
	}
	for name, dst := range strs {
		if !changed(fs, name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if changed(fs, FlagScanInterval) {
		v, err := fs.GetDuration(FlagScanInterval)
		if err != nil {
			return err
		}
		cfg.ScanInterval = v
	}
	if changed(fs, FlagWatch) {
		v, err := fs.GetBool(FlagWatch)
		if err != nil {
			return err
		}
		cfg.WatchOutputs = v
	}
	return nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
