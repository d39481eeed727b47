// Package review serves the admin view over stored founder applications.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/application"
	"github.com/Alijeyrad/founders_backend/internal/service/file"
)

const (
	FileKindPhoto = "photo"
	FileKindLogo  = "logo"

	defaultPerPage = 20
	maxPerPage     = 100
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ListRequest struct {
	Page    int
	PerPage int
	Status  string
}

type Page struct {
	Items   []*repo.Submission `json:"items"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
}

type Stats struct {
	Total     int    `json:"total_submissions"`
	ThisMonth int    `json:"submissions_this_month"`
	Period    string `json:"period"`
	Users     int    `json:"users"`
}

// StoredFile is an open upload ready to be streamed.
type StoredFile struct {
	Name string
	Body io.ReadCloser
}

// SubmissionReader is satisfied by *repo.SubmissionClient.
type SubmissionReader interface {
	Get(ctx context.Context, id int) (*repo.Submission, error)
	List(ctx context.Context, f repo.SubmissionFilter, limit, offset int) ([]*repo.Submission, int, error)
	Count(ctx context.Context, f repo.SubmissionFilter) (int, error)
}

// UserCounter is satisfied by *repo.UserClient.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

type Config struct {
	Timezone *time.Location
}

func FromCentralConfig(c *config.Config) (Config, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("app.timezone: %w", err)
	}
	return Config{Timezone: loc}, nil
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// List returns one page of submissions, newest first.
	List(ctx context.Context, req ListRequest) (*Page, error)
	Get(ctx context.Context, id int) (*repo.Submission, error)
	// OpenFile opens the photo or logo stored with a submission. The caller
	// closes the body.
	OpenFile(ctx context.Context, id int, kind string) (*StoredFile, error)
	Stats(ctx context.Context) (*Stats, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type reviewService struct {
	submissions SubmissionReader
	users       UserCounter
	files       file.Service
	cfg         Config
	now         func() time.Time
}

func New(submissions SubmissionReader, users UserCounter, files file.Service, cfg Config) Service {
	return &reviewService{
		submissions: submissions,
		users:       users,
		files:       files,
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *reviewService) List(ctx context.Context, req ListRequest) (*Page, error) {
	page := max(req.Page, 1)
	perPage := req.PerPage
	switch {
	case perPage <= 0:
		perPage = defaultPerPage
	case perPage > maxPerPage:
		perPage = maxPerPage
	}

	items, total, err := s.submissions.List(ctx, repo.SubmissionFilter{Status: req.Status}, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*repo.Submission{}
	}
	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

func (s *reviewService) Get(ctx context.Context, id int) (*repo.Submission, error) {
	sub, err := s.submissions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *reviewService) OpenFile(ctx context.Context, id int, kind string) (*StoredFile, error) {
	if kind != FileKindPhoto && kind != FileKindLogo {
		return nil, ErrInvalidFileKind
	}

	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := sub.PhotoPath
	if kind == FileKindLogo {
		key = sub.LogoPath
	}
	if key == "" {
		return nil, ErrNoFile
	}

	body, err := s.files.Open(ctx, key)
	if err != nil {
		if errors.Is(err, file.ErrFileNotFound) {
			return nil, ErrNoFile
		}
		return nil, err
	}
	return &StoredFile{Name: path.Base(key), Body: body}, nil
}

func (s *reviewService) Stats(ctx context.Context) (*Stats, error) {
	period := application.PeriodOf(s.now(), s.cfg.Timezone)

	total, err := s.submissions.Count(ctx, repo.SubmissionFilter{})
	if err != nil {
		return nil, err
	}
	month, err := s.submissions.Count(ctx, repo.SubmissionFilter{Period: period})
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{Total: total, ThisMonth: month, Period: period, Users: users}, nil
}
