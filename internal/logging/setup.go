package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"
)

// Options selects the log level, output format and optional log directory.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // auto, text, json
	Dir    string // when set, also write to <Dir>/app_YYYYMMDD.log
	Out    io.Writer
	Now    func() time.Time
}

// New builds a SlogLogger from opts. The returned close function releases
// the log file, if any, and is always safe to call.
func New(opts Options) (*SlogLogger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	closeFn := func() error { return nil }
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o770); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		name := filepath.Join(opts.Dir, "app_"+now().Format("20060102")+".log")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closeFn = f.Close
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if useJSON(opts.Format, opts.Out) {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}
	return NewSlogLogger(slog.New(h)), closeFn, nil
}

// ParseLevel maps a level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// useJSON resolves the "auto" format: text on an interactive terminal,
// JSON everywhere else.
func useJSON(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "json":
		return true
	case "text":
		return false
	}
	if out == nil {
		return !term.IsTerminal(int(os.Stderr.Fd()))
	}
	if f, ok := out.(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}
