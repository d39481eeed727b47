package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/pkg/email"
	"github.com/Alijeyrad/founders_backend/pkg/observability"
)

// Event subjects published after the corresponding write has committed.
const (
	SubjectSubmissionCreated = "submission.created"
	SubjectUserRegistered    = "user.registered"
)

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

type SubmissionCreated struct {
	SubmissionID int       `json:"submission_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	CompanyName  string    `json:"company_name"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type UserRegistered struct {
	UserID            int    `json:"user_id"`
	FullName          string `json:"full_name"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Mailer is satisfied by *email.Client.
type Mailer interface {
	Send(ctx context.Context, m email.Message) error
}

type Service interface {
	// SubmissionCreated sends the applicant confirmation and the admin alert.
	SubmissionCreated(ctx context.Context, ev SubmissionCreated) error
	// UserRegistered sends the verification and welcome emails.
	UserRegistered(ctx context.Context, ev UserRegistered) error
}

type Config struct {
	Site           email.SiteData
	AdminEmail     string
	Timezone       *time.Location
	MaxTries       uint
	InitialBackoff time.Duration
	MaxElapsed     time.Duration
}

func FromCentralConfig(c *config.Config) Config {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	cfg := Config{
		Site: email.SiteData{
			AppName:      c.App.Name,
			BaseURL:      c.App.BaseURL,
			CommunityURL: c.App.CommunityURL,
			WeeklyPrize:  c.App.WeeklyPrize,
		},
		AdminEmail:     c.App.AdminEmail,
		Timezone:       loc,
		MaxTries:       c.Notifications.MaxTries,
		InitialBackoff: time.Duration(c.Notifications.InitialBackoffMs) * time.Millisecond,
		MaxElapsed:     time.Duration(c.Notifications.MaxElapsedSeconds) * time.Second,
	}
	if cfg.MaxTries == 0 {
		cfg.MaxTries = 3
	}
	return cfg
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	mailer Mailer
	cfg    Config
	log    *slog.Logger
}

func New(mailer Mailer, cfg Config, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	return &notificationService{mailer: mailer, cfg: cfg, log: log}
}

func (s *notificationService) SubmissionCreated(ctx context.Context, ev SubmissionCreated) error {
	if ev.SubmissionID <= 0 || ev.Email == "" {
		return ErrInvalidEvent
	}

	data := email.SubmissionEmailData{
		Site:         s.cfg.Site,
		SubmissionID: ev.SubmissionID,
		FullName:     ev.FullName,
		Email:        ev.Email,
		CompanyName:  ev.CompanyName,
		SubmittedAt:  ev.SubmittedAt.In(s.cfg.Timezone),
		AdminEmail:   s.cfg.AdminEmail,
	}

	return errors.Join(
		s.deliver(ctx, "submission_confirmation", email.BuildSubmissionConfirmationEmail(data), "submission_id", ev.SubmissionID),
		s.deliver(ctx, "submission_admin_alert", email.BuildSubmissionAdminAlertEmail(data), "submission_id", ev.SubmissionID),
	)
}

func (s *notificationService) UserRegistered(ctx context.Context, ev UserRegistered) error {
	if ev.UserID <= 0 || ev.Email == "" {
		return ErrInvalidEvent
	}

	data := email.AccountEmailData{
		Site:              s.cfg.Site,
		FullName:          ev.FullName,
		Username:          ev.Username,
		Email:             ev.Email,
		VerificationToken: ev.VerificationToken,
	}

	return errors.Join(
		s.deliver(ctx, "account_verification", email.BuildVerificationEmail(data), "user_id", ev.UserID),
		s.deliver(ctx, "account_welcome", email.BuildWelcomeEmail(data), "user_id", ev.UserID),
	)
}

// deliver sends m with bounded exponential retries. Failures are logged and
// returned wrapped in ErrNotificationFailed.
func (s *notificationService) deliver(ctx context.Context, kind string, m email.Message, attrs ...any) error {
	b := backoff.NewExponentialBackOff()
	if s.cfg.InitialBackoff > 0 {
		b.InitialInterval = s.cfg.InitialBackoff
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(s.cfg.MaxTries),
	}
	if s.cfg.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(s.cfg.MaxElapsed))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := s.mailer.Send(ctx, m)
		if err == nil {
			return struct{}{}, nil
		}
		if errors.Is(err, email.ErrDisabled) || errors.Is(err, email.ErrInvalidMessage) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, opts...)
	if err == nil {
		observability.RecordNotification(ctx, kind, true)
		s.log.InfoContext(ctx, "notification sent", append([]any{"kind", kind}, attrs...)...)
		return nil
	}

	if errors.Is(err, email.ErrDisabled) {
		s.log.DebugContext(ctx, "notification skipped, email disabled", append([]any{"kind", kind}, attrs...)...)
		return nil
	}

	observability.RecordNotification(ctx, kind, false)
	s.log.WarnContext(ctx, "notification failed", append([]any{"kind", kind, "err", err}, attrs...)...)
	return fmt.Errorf("%w: %s: %w", ErrNotificationFailed, kind, err)
}
