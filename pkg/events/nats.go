package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

type NATSBus struct {
	nc     *nats.Conn
	prefix string
}

func NewNATS(url, prefix string) (*NATSBus, error) {
	nc, err := nats.Connect(url, nats.Name("founders_backend"))
	if err != nil {
		return nil, fmt.Errorf("events: connect nats: %w", err)
	}
	return &NATSBus{nc: nc, prefix: prefix}, nil
}

func (b *NATSBus) subject(s string) string {
	if b.prefix == "" {
		return s
	}
	return b.prefix + "." + s
}

func (b *NATSBus) Publish(_ context.Context, subject string, data []byte) error {
	if err := b.nc.Publish(b.subject(subject), data); err != nil {
		return fmt.Errorf("events: publish %s: %w", subject, err)
	}
	return nil
}

func (b *NATSBus) Subscribe(subject string, h Handler) error {
	_, err := b.nc.Subscribe(b.subject(subject), func(msg *nats.Msg) {
		if err := h(context.Background(), msg.Data); err != nil {
			slog.Warn("events: handler failed", "subject", msg.Subject, "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("events: subscribe %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages before closing the connection.
func (b *NATSBus) Close() error {
	return b.nc.Drain()
}
