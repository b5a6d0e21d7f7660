package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"notes-backend/internal/config"
)

// New создает logrus логгер по настройкам из конфига.
// Вывод по умолчанию в stderr.
func New(cfg *config.ConfigLogger) (*log.Logger, error) {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput создает логгер, пишущий в out
func NewWithOutput(cfg *config.ConfigLogger, out io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(out)

	if cfg == nil {
		return logger, nil
	}

	if cfg.Level != "" {
		level, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		logger.SetLevel(level)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	return logger, nil
}
