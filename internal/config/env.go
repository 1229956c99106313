package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CVTRACK_"

// ReadDotEnv reads a .env file without touching the process environment.
// A missing file yields an empty map.
func ReadDotEnv(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}

// EnvLookup looks a key up in the process environment first and in dotenv
// second.
func EnvLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func parseEnv(cfg *Config, getenv func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := getenv(envPrefix + key); ok {
			*dst = v
		}
	}
	str("DATA_DIR", &cfg.DataDir)
	str("DATABASE_PATH", &cfg.DatabasePath)
	str("OUTPUTS_DIR", &cfg.OutputsDir)
	str("LEGACY_STATS_PATH", &cfg.LegacyStatsPath)
	str("LEGACY_DELETED_PATH", &cfg.LegacyDeletedPath)
	str("MIRROR_PATH", &cfg.MirrorPath)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_DIR", &cfg.LogDir)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("CANDIDATE_NAME", &cfg.CandidateName)
	str("CV_TEMPLATE", &cfg.CVTemplate)
	str("COVER_LETTER_TEMPLATE", &cfg.CoverLetterTemplate)

	for key, dst := range map[string]*time.Duration{
		"SCAN_INTERVAL":  &cfg.ScanInterval,
		"WATCH_DEBOUNCE": &cfg.WatchDebounce,
	} {
		v, ok := getenv(envPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	if v, ok := getenv(envPrefix + "WATCH_OUTPUTS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sWATCH_OUTPUTS: %w", envPrefix, err)
		}
		cfg.WatchOutputs = b
	}
	if v, ok := getenv(envPrefix + "CV_EXTENSIONS"); ok {
		cfg.CVExtensions = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
