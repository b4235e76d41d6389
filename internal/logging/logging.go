// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	rotationTime = 24 * time.Hour
	maxFileAge   = 7 * 24 * time.Hour
)

// Config is the subset of the application config the logger reads
type Config interface {
	GetEnv() string
	GetLogLevel() string
	GetLogFile() string
}

// Init replaces the global logger. The returned closer releases the log file, if any.
func Init(cfg Config) (io.Closer, error) {
	level, err := ParseLevel(cfg.GetLogLevel(), cfg.GetEnv())
	if err != nil {
		return nil, fmt.Errorf("[logging Init] %w", err)
	}

	var console io.Writer = os.Stderr
	if cfg.GetEnv() == "DEV" {
		console = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	var closer io.Closer = nopCloser{}
	writer := console
	if path := cfg.GetLogFile(); path != "" {
		rotator, err := newRotator(path)
		if err != nil {
			return nil, fmt.Errorf("[logging Init] %w", err)
		}
		closer = rotator
		writer = zerolog.MultiLevelWriter(console, rotator)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger
	return closer, nil
}

// ParseLevel resolves a level name. An empty name means debug in DEV and info elsewhere.
func ParseLevel(name, env string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		if env == "DEV" {
			return zerolog.DebugLevel, nil
		}
		return zerolog.InfoLevel, nil
	}
	if name == "warning" {
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// newRotator writes to path.YYYYMMDD and keeps path as a link to the current file
func newRotator(path string) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rotator, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(rotationTime),
		rotatelogs.WithMaxAge(maxFileAge),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return rotator, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
