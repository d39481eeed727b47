package logs

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Alijeyrad/founders_backend/config"
)

// New builds a logger from config, supporting multi-output fan-out. The
// returned func flushes and stops remote outputs; call it on shutdown.
func New(cfg *config.Config) (*slog.Logger, func()) {
	level := parseLevel(cfg.Logging.Level)
	isDev := strings.EqualFold(cfg.Server.Environment, "development")
	out := cfg.Logging.Output

	var writers []io.Writer

	// Always write to stdout if enabled or nothing else is configured
	if out.Stdout || (!out.File.Enabled && !out.Loki.Enabled) {
		writers = append(writers, os.Stdout)
	}

	// File output with rotation via lumberjack
	var rotator *lumberjack.Logger
	if out.File.Enabled {
		rotator = &lumberjack.Logger{
			Filename:   out.File.Path,
			MaxSize:    out.File.MaxSizeMB,
			MaxBackups: out.File.MaxBackups,
			MaxAge:     out.File.MaxAgeDays,
			Compress:   out.File.Compress,
		}
		writers = append(writers, rotator)
	}

	var handlers []slog.Handler

	if len(writers) > 0 {
		w := io.MultiWriter(writers...)
		opts := &slog.HandlerOptions{
			Level:     level,
			AddSource: isDev,
		}
		if strings.EqualFold(cfg.Logging.Format, "json") || !isDev {
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(w, opts))
		}
	}

	closers := []func(){}
	if rotator != nil {
		closers = append(closers, func() { _ = rotator.Close() })
	}

	if out.Loki.Enabled {
		h, stop, err := newLokiHandler(cfg, level)
		if err != nil {
			// Remote logging must never keep the service from starting.
			slog.Warn("logs: loki output disabled", "err", err)
		} else {
			handlers = append(handlers, h)
			closers = append(closers, stop)
		}
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = &multiHandler{handlers: handlers}
	}

	logger := slog.New(requestHandler{h}).With(
		slog.String("service", cfg.Observability.ServiceName),
		slog.String("version", cfg.Observability.ServiceVersion),
		slog.String("env", cfg.Server.Environment),
	)
	return logger, func() {
		for _, c := range closers {
			c()
		}
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
