package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/founders_backend/config"
)

// Client sends mail through one SMTP relay.
type Client struct {
	cfg Config
	// transport delivers a built message; it is the gomail dialer outside
	// tests.
	transport func(*gomail.Message) error
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	if cfg.Enabled {
		if strings.TrimSpace(cfg.SMTP.Host) == "" {
			return nil, fmt.Errorf("%w: smtp host is required when email is enabled", ErrInvalidMessage)
		}
		if strings.TrimSpace(cfg.From) == "" {
			return nil, fmt.Errorf("%w: from address is required when email is enabled", ErrInvalidMessage)
		}
	}
	d := newDialer(cfg.SMTP)
	return &Client{
		cfg:       cfg,
		transport: func(m *gomail.Message) error { return d.DialAndSend(m) },
	}, nil
}

func newDialer(s SMTPConfig) *gomail.Dialer {
	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	d.SSL = s.ImplicitTLS
	d.TLSConfig = &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}
	return d
}

// Send delivers m, giving up when ctx ends or the SMTP timeout passes,
// whichever comes first. gomail cannot cancel a dial in flight, so an
// abandoned attempt finishes in the background.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled
	}

	if m.ReplyTo == "" {
		m.ReplyTo = c.cfg.ReplyTo
	}
	msg, err := c.build(m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTP.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.transport(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %s via %s: %w", ErrSend, m.Kind, c.cfg.SMTP.Host, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s: %w", ErrSend, m.Kind, ctx.Err())
	}
}

func (c *Client) build(m Message) (*gomail.Message, error) {
	return buildMessage(c.cfg.From, c.cfg.FromName, m)
}

// buildMessage renders m as a MIME message. Both bodies are sent as
// alternatives when present; HTML is preferred by clients.
func buildMessage(from, fromName string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}
	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	if fromName != "" {
		msg.SetAddressHeader("From", from, fromName)
	} else {
		msg.SetHeader("From", from)
	}
	msg.SetHeader("To", to...)
	if r := strings.TrimSpace(m.ReplyTo); r != "" {
		msg.SetHeader("Reply-To", r)
	}
	msg.SetHeader("Subject", subject)
	msg.SetHeader("X-Mailer", "founders_backend")

	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, fmt.Errorf("%w: a text or html body is required", ErrInvalidMessage)
	}
	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
