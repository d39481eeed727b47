package application

import (
	"context"
	"fmt"
	"time"
)

// periodLayout keys submissions by calendar month.
const periodLayout = "2006-01"

// Guard enforces one application per email per calendar month. The month
// is taken in loc, so the window resets at local midnight on the 1st.
type Guard struct {
	store SubmissionStore
	loc   *time.Location
}

func NewGuard(store SubmissionStore, loc *time.Location) *Guard {
	if loc == nil {
		loc = time.UTC
	}
	return &Guard{store: store, loc: loc}
}

// Period returns the calendar-month key of t.
func (g *Guard) Period(t time.Time) string {
	return PeriodOf(t, g.loc)
}

// PeriodOf formats the calendar month containing t in loc, e.g. "2024-03".
func PeriodOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(periodLayout)
}

// Check returns ErrDuplicateSubmission when email already applied in the
// month containing now.
func (g *Guard) Check(ctx context.Context, email string, now time.Time) error {
	exists, err := g.store.Exists(ctx, email, g.Period(now))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if exists {
		return ErrDuplicateSubmission
	}
	return nil
}
