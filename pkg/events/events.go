package events

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alijeyrad/founders_backend/config"
)

var ErrClosed = errors.New("events: bus is closed")

// Handler processes one event payload. Returned errors are logged by the bus.
type Handler func(ctx context.Context, data []byte) error

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

type Bus interface {
	Publisher
	Subscribe(subject string, h Handler) error
	Close() error
}

// New connects to NATS when a URL is configured and falls back to an
// in-process bus otherwise.
func New(cfg config.EventsConfig) (Bus, error) {
	if cfg.NatsURL == "" {
		slog.Info("events: using in-process bus", "workers", cfg.Workers)
		return NewLocal(cfg.Workers), nil
	}
	return NewNATS(cfg.NatsURL, cfg.SubjectPrefix)
}
