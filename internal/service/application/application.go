package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/file"
	"github.com/Alijeyrad/founders_backend/internal/service/notification"
	"github.com/Alijeyrad/founders_backend/pkg/constants"
	"github.com/Alijeyrad/founders_backend/pkg/events"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type SubmitRequest struct {
	Form  Form
	Photo *file.Upload // optional
	Logo  *file.Upload // optional
}

type Result struct {
	SubmissionID int
	SubmittedAt  time.Time
}

// SubmissionStore is the slice of the repository the workflow needs.
// *repo.SubmissionClient satisfies it.
type SubmissionStore interface {
	Exists(ctx context.Context, email, period string) (bool, error)
	Create(ctx context.Context, s *repo.Submission) (int, error)
}

type Config struct {
	PhotoDir    string
	LogoDir     string
	PhoneRegion string
	Timezone    *time.Location
}

func FromCentralConfig(c *config.Config) (Config, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("app.timezone: %w", err)
	}
	return Config{
		PhotoDir:    c.Uploads.PhotoDir,
		LogoDir:     c.Uploads.LogoDir,
		PhoneRegion: c.App.PhoneRegion,
		Timezone:    loc,
	}, nil
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Submit runs the whole intake: validation, the monthly duplicate rule,
	// file intake, one transactional insert and, after commit, a
	// submission.created event. Event publishing never fails the call.
	Submit(ctx context.Context, req SubmitRequest) (*Result, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type applicationService struct {
	store    SubmissionStore
	guard    *Guard
	files    file.Service
	bus      events.Publisher
	validate *validator.Validate
	cfg      Config
	now      func() time.Time
	log      *slog.Logger
}

func New(store SubmissionStore, files file.Service, bus events.Publisher, cfg Config, log *slog.Logger) Service {
	if log == nil {
		log = slog.Default()
	}
	return &applicationService{
		store:    store,
		guard:    NewGuard(store, cfg.Timezone),
		files:    files,
		bus:      bus,
		validate: NewValidator(),
		cfg:      cfg,
		now:      time.Now,
		log:      log,
	}
}

func (s *applicationService) Submit(ctx context.Context, req SubmitRequest) (*Result, error) {
	form := req.Form.Sanitize()
	if err := form.Validate(s.validate); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.guard.Check(ctx, form.Email, now); err != nil {
		return nil, err
	}

	var photoKey, logoKey string
	if req.Photo != nil {
		key, err := s.files.Store(ctx, req.Photo, s.cfg.PhotoDir)
		if err != nil {
			return nil, err
		}
		photoKey = key
	}
	if req.Logo != nil {
		key, err := s.files.Store(ctx, req.Logo, s.cfg.LogoDir)
		if err != nil {
			s.files.Remove(ctx, photoKey)
			return nil, err
		}
		logoKey = key
	}

	sub := s.buildSubmission(form, now, photoKey, logoKey)

	id, err := s.store.Create(ctx, sub)
	if err != nil {
		s.files.Remove(ctx, photoKey, logoKey)
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateSubmission
		}
		s.log.ErrorContext(ctx, "application: persist failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	sub.ID = id

	s.log.InfoContext(ctx, "application submitted",
		"submission_id", id,
		"period", sub.Period,
	)

	s.publishCreated(ctx, sub)

	return &Result{SubmissionID: id, SubmittedAt: sub.SubmittedAt}, nil
}

func (s *applicationService) buildSubmission(form Form, now time.Time, photoKey, logoKey string) *repo.Submission {
	phone := NormalizePhone(form.Phone, s.cfg.PhoneRegion)
	e := form.Escaped()

	return &repo.Submission{
		FullName:       e.FullName,
		Email:          e.Email,
		Phone:          html.EscapeString(phone),
		Country:        e.Country,
		LinkedIn:       e.LinkedIn,
		Website:        e.Website,
		CompanyName:    e.CompanyName,
		CompanyWebsite: e.CompanyWebsite,
		Industry:       e.Industry,
		Stage:          e.Stage,
		YearFounded:    e.YearFounded,
		TeamSize:       e.TeamSize,
		Bio:            e.Bio,
		Description:    e.Description,
		Challenge:      e.Challenge,
		Achievement:    e.Achievement,
		Lesson:         e.Lesson,
		Insight:        e.Insight,
		Advice:         e.Advice,
		SocialMedia:    e.SocialMedia,
		Interview:      e.Interview,
		PhotoPath:      photoKey,
		LogoPath:       logoKey,
		Status:         constants.SubmissionStatusPending,
		Period:         s.guard.Period(now),
		SubmittedAt:    now.UTC(),
	}
}

func (s *applicationService) publishCreated(ctx context.Context, sub *repo.Submission) {
	data, err := json.Marshal(notification.SubmissionCreated{
		SubmissionID: sub.ID,
		FullName:     sub.FullName,
		Email:        sub.Email,
		CompanyName:  sub.CompanyName,
		SubmittedAt:  sub.SubmittedAt,
	})
	if err == nil {
		err = s.bus.Publish(ctx, notification.SubjectSubmissionCreated, data)
	}
	if err != nil {
		s.log.WarnContext(ctx, "application: publish submission.created failed",
			"submission_id", sub.ID, "err", err)
	}
}
