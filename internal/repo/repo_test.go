package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/founders_backend/pkg/database"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	drv, err := database.NewEntDriverFromConfig(database.Config{
		Driver: database.DriverSQLite,
		Path:   database.MemoryDSN(fmt.Sprintf("repo_%s_%d", t.Name(), time.Now().UnixNano())),
	})
	require.NoError(t, err)

	c := NewClient(drv)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Migrate(context.Background()))
	return c
}

func sampleSubmission(email, period string) *Submission {
	return &Submission{
		FullName:    "Ada Founder",
		Email:       email,
		Country:     "Uganda",
		CompanyName: "Acme",
		Industry:    "Fintech",
		Stage:       "Seed",
		Bio:         "bio",
		Description: "description",
		Challenge:   "challenge",
		Achievement: "achievement",
		Lesson:      "lesson",
		Insight:     "insight",
		Advice:      "advice",
		Status:      "pending",
		Period:      period,
		SubmittedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestSubmissionCreateAndGet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	in := sampleSubmission("ada@example.com", "2024-03")
	in.PhotoPath = "founder_photos/abc_1.png"

	id, err := c.Submission.Create(ctx, in)
	require.NoError(t, err)
	require.Positive(t, id)
	require.Equal(t, id, in.ID)

	got, err := c.Submission.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", got.Email)
	require.Equal(t, "Acme", got.CompanyName)
	require.Equal(t, "founder_photos/abc_1.png", got.PhotoPath)
	require.Equal(t, "", got.LogoPath)
	require.Equal(t, "pending", got.Status)
	require.Equal(t, "2024-03", got.Period)
	require.True(t, got.SubmittedAt.Equal(in.SubmittedAt))
}

func TestSubmissionGetMissing(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Submission.Get(context.Background(), 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubmissionDuplicateInSamePeriod(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.NoError(t, err)

	exists, err := c.Submission.Exists(ctx, "ada@example.com", "2024-03")
	require.NoError(t, err)
	require.True(t, exists)

	_, err = c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.ErrorIs(t, err, ErrDuplicate)

	n, err := c.Submission.Count(ctx, SubmissionFilter{Email: "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSubmissionNextPeriodAllowed(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.NoError(t, err)

	exists, err := c.Submission.Exists(ctx, "ada@example.com", "2024-04")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-04"))
	require.NoError(t, err)
}

func TestSubmissionUniqueIndexRejectsRaceLoser(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.NoError(t, err)

	// Bypass the in-transaction check to exercise the index directly.
	dup := sampleSubmission("ada@example.com", "2024-03")
	ins := c.builder().Insert(submissionsTableName).Columns(submissionColumns...).Values(dup.values()...)
	_, err = c.insert(ctx, c.drv, ins)
	require.Error(t, err)

	n, err := c.Submission.Count(ctx, SubmissionFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSubmissionEmptyPeriodRejected(t *testing.T) {
	c := newTestClient(t)

	_, err := c.Submission.Create(context.Background(), sampleSubmission("ada@example.com", ""))
	require.ErrorIs(t, err, ErrPersistence)
}

func TestSubmissionCreateRollsBackOnInsertFailure(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	// the row is written, then the statement aborts inside the transaction
	_, err := c.DB().ExecContext(ctx, `CREATE TRIGGER reject_submission
		AFTER INSERT ON founder_submissions
		BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	_, err = c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.ErrorIs(t, err, ErrPersistence)
	require.NotErrorIs(t, err, ErrDuplicate)

	n, err := c.Submission.Count(ctx, SubmissionFilter{})
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = c.DB().ExecContext(ctx, `DROP TRIGGER reject_submission`)
	require.NoError(t, err)

	id, err := c.Submission.Create(ctx, sampleSubmission("ada@example.com", "2024-03"))
	require.NoError(t, err)
	require.Positive(t, id)
}

func TestSubmissionListNewestFirst(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := range 5 {
		_, err := c.Submission.Create(ctx, sampleSubmission(fmt.Sprintf("f%d@example.com", i), "2024-03"))
		require.NoError(t, err)
	}

	page, total, err := c.Submission.List(ctx, SubmissionFilter{}, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, page, 2)
	require.Equal(t, "f4@example.com", page[0].Email)
	require.Equal(t, "f3@example.com", page[1].Email)

	page, _, err = c.Submission.List(ctx, SubmissionFilter{}, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "f0@example.com", page[0].Email)
}

func TestUserLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	u := &User{
		FullName:          "Ada Founder",
		Username:          "ada",
		Email:             "ada@example.com",
		AccountType:       "founder",
		Role:              "member",
		PasswordHash:      "hash",
		VerificationToken: "tok123",
		Status:            "pending",
	}
	id, err := c.User.Create(ctx, u)
	require.NoError(t, err)

	taken, err := c.User.EmailTaken(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, taken)

	taken, err = c.User.UsernameTaken(ctx, "someone")
	require.NoError(t, err)
	require.False(t, taken)

	_, err = c.User.Create(ctx, &User{
		FullName: "Other", Username: "ada", Email: "other@example.com",
		AccountType: "member", Role: "member", PasswordHash: "h", Status: "pending",
	})
	require.ErrorIs(t, err, ErrDuplicate)

	verified, err := c.User.Verify(ctx, "tok123")
	require.NoError(t, err)
	require.Equal(t, id, verified.ID)

	got, err := c.User.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, got.EmailVerified)
	require.Equal(t, "active", got.Status)
	require.Empty(t, got.VerificationToken)

	_, err = c.User.Verify(ctx, "tok123")
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, c.User.SetRole(ctx, "ada@example.com", "admin"))
	got, err = c.User.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, "admin", got.Role)

	require.ErrorIs(t, c.User.SetRole(ctx, "nobody@example.com", "admin"), ErrNotFound)

	require.NoError(t, c.User.SetPasswordHash(ctx, id, "$argon2id$new"))
	got, err = c.User.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "$argon2id$new", got.PasswordHash)

	n, err := c.User.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
