package email

import (
	"time"

	"github.com/Alijeyrad/founders_backend/config"
)

const (
	defaultSMTPPort    = 587
	defaultSMTPTimeout = 30 * time.Second
	implicitTLSPort    = 465
)

type Config struct {
	Enabled bool

	// From is the site mailbox; FromName is shown next to it.
	From     string
	FromName string
	// ReplyTo applies to messages that do not set their own.
	ReplyTo string

	SMTP SMTPConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// ImplicitTLS dials straight into TLS (SMTPS). When false the
	// connection is upgraded with STARTTLS if the server offers it.
	ImplicitTLS bool
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		SMTP: SMTPConfig{Port: defaultSMTPPort, Timeout: defaultSMTPTimeout},
	}
}

func FromCentralConfig(c config.EmailConfig) Config {
	cfg := DefaultConfig()
	cfg.Enabled = c.Enabled
	cfg.From = c.From
	cfg.FromName = c.FromName
	cfg.ReplyTo = c.ReplyTo
	cfg.SMTP.Host = c.SMTP.Host
	cfg.SMTP.Username = c.SMTP.Username
	cfg.SMTP.Password = c.SMTP.Password
	if c.SMTP.Port > 0 {
		cfg.SMTP.Port = c.SMTP.Port
	}
	if c.SMTP.TimeoutSeconds > 0 {
		cfg.SMTP.Timeout = time.Duration(c.SMTP.TimeoutSeconds) * time.Second
	}
	cfg.SMTP.ImplicitTLS = c.SMTP.UseTLS || cfg.SMTP.Port == implicitTLSPort
	return cfg
}
