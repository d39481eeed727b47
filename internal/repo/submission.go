package repo

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
)

// Submission is one stored founder application.
type Submission struct {
	ID             int       `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Country        string    `json:"country"`
	LinkedIn       string    `json:"linkedin"`
	Website        string    `json:"website"`
	CompanyName    string    `json:"company_name"`
	CompanyWebsite string    `json:"company_website"`
	Industry       string    `json:"industry"`
	Stage          string    `json:"stage"`
	YearFounded    string    `json:"year_founded"`
	TeamSize       string    `json:"team_size"`
	Bio            string    `json:"bio"`
	Description    string    `json:"description"`
	Challenge      string    `json:"challenge"`
	Achievement    string    `json:"achievement"`
	Lesson         string    `json:"lesson"`
	Insight        string    `json:"insight"`
	Advice         string    `json:"advice"`
	SocialMedia    string    `json:"social_media"`
	Interview      string    `json:"interview"`
	PhotoPath      string    `json:"photo_path"`
	LogoPath       string    `json:"logo_path"`
	Status         string    `json:"status"`
	Period         string    `json:"period"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// submissionColumns lists every column except id, in the order used by
// values and scanSubmission.
var submissionColumns = []string{
	"full_name", "email", "phone", "country", "linkedin", "website",
	"company_name", "company_website", "industry", "stage", "year_founded", "team_size",
	"bio", "description", "challenge", "achievement", "lesson", "insight", "advice",
	"social_media", "interview", "photo_path", "logo_path", "status", "period", "submitted_at",
}

func (s *Submission) values() []any {
	return []any{
		s.FullName, s.Email, s.Phone, s.Country, s.LinkedIn, s.Website,
		s.CompanyName, s.CompanyWebsite, s.Industry, s.Stage, s.YearFounded, s.TeamSize,
		s.Bio, s.Description, s.Challenge, s.Achievement, s.Lesson, s.Insight, s.Advice,
		s.SocialMedia, s.Interview, s.PhotoPath, s.LogoPath, s.Status, s.Period, s.SubmittedAt,
	}
}

func scanSubmission(rows *entsql.Rows) (*Submission, error) {
	s := &Submission{}
	err := rows.Scan(
		&s.ID,
		&s.FullName, &s.Email, &s.Phone, &s.Country, &s.LinkedIn, &s.Website,
		&s.CompanyName, &s.CompanyWebsite, &s.Industry, &s.Stage, &s.YearFounded, &s.TeamSize,
		&s.Bio, &s.Description, &s.Challenge, &s.Achievement, &s.Lesson, &s.Insight, &s.Advice,
		&s.SocialMedia, &s.Interview, &s.PhotoPath, &s.LogoPath, &s.Status, &s.Period, &s.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SubmissionFilter narrows list and count queries. Zero fields match all.
type SubmissionFilter struct {
	Email  string
	Period string
	Status string
}

func (f SubmissionFilter) predicate() *entsql.Predicate {
	var ps []*entsql.Predicate
	if f.Email != "" {
		ps = append(ps, entsql.EQ("email", f.Email))
	}
	if f.Period != "" {
		ps = append(ps, entsql.EQ("period", f.Period))
	}
	if f.Status != "" {
		ps = append(ps, entsql.EQ("status", f.Status))
	}
	if len(ps) == 0 {
		return nil
	}
	return entsql.And(ps...)
}

// SubmissionClient gives access to the founder_submissions table.
type SubmissionClient struct {
	c *Client
}

// Exists reports whether a submission for email already exists in period.
func (sc *SubmissionClient) Exists(ctx context.Context, email, period string) (bool, error) {
	n, err := sc.count(ctx, sc.c.drv, SubmissionFilter{Email: email, Period: period})
	if err != nil {
		return false, fmt.Errorf("%w: check duplicate: %w", ErrPersistence, err)
	}
	return n > 0, nil
}

// Create inserts s in a single transaction and returns its id. The
// (email, period) rule is checked again inside the transaction; a concurrent
// insert that wins the race is reported by the unique index. Both cases
// return ErrDuplicate and leave no row behind.
func (sc *SubmissionClient) Create(ctx context.Context, s *Submission) (int, error) {
	if s.Period == "" {
		return 0, fmt.Errorf("%w: submission period is empty", ErrPersistence)
	}

	var id int
	err := sc.c.withTx(ctx, func(tx dialect.Tx) error {
		n, err := sc.count(ctx, tx, SubmissionFilter{Email: s.Email, Period: s.Period})
		if err != nil {
			return fmt.Errorf("%w: check duplicate: %w", ErrPersistence, err)
		}
		if n > 0 {
			return ErrDuplicate
		}

		ins := sc.c.builder().Insert(submissionsTableName).
			Columns(submissionColumns...).
			Values(s.values()...)

		id, err = sc.c.insert(ctx, tx, ins)
		if err != nil {
			if sqlgraph.IsUniqueConstraintError(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("%w: insert submission: %w", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.ID = id
	return id, nil
}

// Get returns the submission with the given id.
func (sc *SubmissionClient) Get(ctx context.Context, id int) (*Submission, error) {
	sel := sc.c.builder().
		Select(append([]string{"id"}, submissionColumns...)...).
		From(sc.c.builder().Table(submissionsTableName)).
		Where(entsql.EQ("id", id))

	list, err := sc.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("%w: get submission: %w", ErrPersistence, err)
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}

// List returns a page of submissions, newest first, and the total number of
// rows matching f.
func (sc *SubmissionClient) List(ctx context.Context, f SubmissionFilter, limit, offset int) ([]*Submission, int, error) {
	total, err := sc.count(ctx, sc.c.drv, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count submissions: %w", ErrPersistence, err)
	}

	sel := sc.c.builder().
		Select(append([]string{"id"}, submissionColumns...)...).
		From(sc.c.builder().Table(submissionsTableName)).
		OrderBy(entsql.Desc("id")).
		Limit(limit).
		Offset(offset)
	if p := f.predicate(); p != nil {
		sel.Where(p)
	}

	list, err := sc.query(ctx, sel)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list submissions: %w", ErrPersistence, err)
	}
	return list, total, nil
}

// Count returns the number of submissions matching f.
func (sc *SubmissionClient) Count(ctx context.Context, f SubmissionFilter) (int, error) {
	n, err := sc.count(ctx, sc.c.drv, f)
	if err != nil {
		return 0, fmt.Errorf("%w: count submissions: %w", ErrPersistence, err)
	}
	return n, nil
}

func (sc *SubmissionClient) count(ctx context.Context, conn dialect.ExecQuerier, f SubmissionFilter) (int, error) {
	sel := sc.c.builder().
		Select(entsql.Count("*")).
		From(sc.c.builder().Table(submissionsTableName))
	if p := f.predicate(); p != nil {
		sel.Where(p)
	}
	return count(ctx, conn, sel)
}

func (sc *SubmissionClient) query(ctx context.Context, sel *entsql.Selector) ([]*Submission, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := sc.c.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
