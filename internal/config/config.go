package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/countries"
	"github.com/spf13/pflag"
)

// Config holds runtime settings. Paths are absolute after Load.
type Config struct {
	DataDir           string `validate:"required"`
	DatabasePath      string `validate:"required"`
	OutputsDir        string `validate:"required"`
	LegacyStatsPath   string
	LegacyDeletedPath string
	MirrorPath        string

	ScanInterval  time.Duration `validate:"gte=0"`
	WatchOutputs  bool
	WatchDebounce time.Duration `validate:"gte=0"`

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=auto text json"`
	LogDir    string

	MetricsAddr string `validate:"omitempty,hostname_port"`

	CandidateName       string `validate:"required"`
	CVTemplate          string
	CoverLetterTemplate string

	CVExtensions []string        `validate:"min=1,dive,startswith=."`
	Countries    countries.Table `validate:"min=1,dive"`
}

// LoadDefaults populates c with defaults. Relative paths are taken from the
// data directory.
func (c *Config) LoadDefaults() {
	c.DataDir = "."
	c.DatabasePath = "cvtrack.db"
	c.OutputsDir = "outputs"
	c.LegacyStatsPath = "application_stats.json"
	c.LegacyDeletedPath = "deleted_applications.json"
	c.MirrorPath = ""
	c.ScanInterval = 5 * time.Minute
	c.WatchOutputs = false
	c.WatchDebounce = 500 * time.Millisecond
	c.LogLevel = "info"
	c.LogFormat = "auto"
	c.LogDir = ""
	c.MetricsAddr = ""
	c.CandidateName = "Candidate"
	c.CVTemplate = filepath.Join("templates", "cv.md.tmpl")
	c.CoverLetterTemplate = filepath.Join("templates", "cover_letter.md.tmpl")
	c.CVExtensions = append([]string(nil), countries.DefaultExtensions...)
	c.Countries = countries.Default()
}

// Matcher builds the CV matcher described by the configuration.
func (c *Config) Matcher() *countries.Matcher {
	return countries.NewMatcher(c.Countries, c.CVExtensions)
}

// Load builds a Config from defaults, the config file, the environment and
// the flags in fs. fs may be nil. getenv may be nil to use the process
// environment together with a .env file in the working directory.
func Load(fs *pflag.FlagSet, getenv func(string) (string, bool)) (*Config, error) {
	if getenv == nil {
		dotenv, err := ReadDotEnv(".env")
		if err != nil {
			return nil, err
		}
		getenv = EnvLookup(dotenv)
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	path := configPath(fs, getenv)
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPath(fs *pflag.FlagSet, getenv func(string) (string, bool)) string {
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	if v, ok := getenv(envPrefix + "CONFIG"); ok {
		return v
	}
	return ""
}

// resolve makes every path absolute, relative ones against DataDir.
func (c *Config) resolve() error {
	dir, err := expandHome(c.DataDir)
	if err != nil {
		return err
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	c.DataDir = dir

	for _, p := range []*string{
		&c.DatabasePath, &c.OutputsDir, &c.LegacyStatsPath, &c.LegacyDeletedPath,
		&c.MirrorPath, &c.LogDir, &c.CVTemplate, &c.CoverLetterTemplate,
	} {
		if *p == "" {
			continue
		}
		v, err := expandHome(*p)
		if err != nil {
			return err
		}
		if !filepath.IsAbs(v) {
			v = filepath.Join(dir, v)
		}
		*p = filepath.Clean(v)
	}
	for i, ext := range c.CVExtensions {
		c.CVExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
