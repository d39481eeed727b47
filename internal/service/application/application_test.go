package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/file"
	"github.com/Alijeyrad/founders_backend/internal/service/notification"
	"github.com/Alijeyrad/founders_backend/pkg/storage"
)

// memStore mimics the repository: one row per (email, period).
type memStore struct {
	mu        sync.Mutex
	rows      []*repo.Submission
	createErr error
	existsErr error
}

func (m *memStore) Exists(_ context.Context, email, period string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	for _, r := range m.rows {
		if r.Email == email && r.Period == period {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Create(_ context.Context, s *repo.Submission) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	for _, r := range m.rows {
		if r.Email == s.Email && r.Period == s.Period {
			return 0, repo.ErrDuplicate
		}
	}
	cp := *s
	cp.ID = len(m.rows) + 1
	m.rows = append(m.rows, &cp)
	return cp.ID, nil
}

type recordingBus struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (b *recordingBus) Publish(_ context.Context, subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects = append(b.subjects, subject)
	b.payloads = append(b.payloads, data)
	return b.err
}

type fixture struct {
	svc   *applicationService
	store *memStore
	bus   *recordingBus
	fs    afero.Fs
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: &memStore{},
		bus:   &recordingBus{},
		fs:    afero.NewMemMapFs(),
		clock: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	files := file.New(storage.NewLocal(f.fs, "/uploads"), file.Config{
		MaxFileSize:  5 << 20,
		AllowedTypes: []string{"jpg", "jpeg", "png", "gif", "pdf"},
	})
	f.svc = New(f.store, files, f.bus, Config{
		PhotoDir:    "founder_photos",
		LogoDir:     "company_logos",
		PhoneRegion: "US",
		Timezone:    time.UTC,
	}, nil).(*applicationService)
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func countFiles(t *testing.T, fsys afero.Fs) int {
	t.Helper()
	n := 0
	for _, dir := range []string{"/uploads/founder_photos", "/uploads/company_logos"} {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue
		}
		n += len(entries)
	}
	return n
}

func memUpload(name string, size int) *file.Upload {
	data := bytes.Repeat([]byte("x"), size)
	return &file.Upload{
		Filename: name,
		Size:     int64(size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestSubmitSuccess(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.Email = "  ADA@Example.com "
	form.CompanyName = "Acme & Co"
	form.Phone = "(650) 253-0000"

	res, err := f.svc.Submit(context.Background(), SubmitRequest{
		Form:  form,
		Photo: memUpload("me.jpg", 100),
		Logo:  memUpload("logo.png", 50),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SubmissionID)
	assert.Equal(t, f.clock, res.SubmittedAt)

	require.Len(t, f.store.rows, 1)
	row := f.store.rows[0]
	assert.Equal(t, "ada@example.com", row.Email)
	assert.Equal(t, "Acme &amp; Co", row.CompanyName)
	assert.Equal(t, "+16502530000", row.Phone)
	assert.Equal(t, "2024-03", row.Period)
	assert.Equal(t, "pending", row.Status)
	assert.Regexp(t, `^founder_photos/.+_\d+\.jpg$`, row.PhotoPath)
	assert.Regexp(t, `^company_logos/.+_\d+\.png$`, row.LogoPath)
	assert.Equal(t, 2, countFiles(t, f.fs))

	require.Equal(t, []string{notification.SubjectSubmissionCreated}, f.bus.subjects)
	var ev notification.SubmissionCreated
	require.NoError(t, json.Unmarshal(f.bus.payloads[0], &ev))
	assert.Equal(t, 1, ev.SubmissionID)
	assert.Equal(t, "ada@example.com", ev.Email)
	assert.Equal(t, "Acme &amp; Co", ev.CompanyName)
}

func TestSubmitWithoutFiles(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), SubmitRequest{Form: validForm()})
	require.NoError(t, err)

	require.Len(t, f.store.rows, 1)
	assert.Empty(t, f.store.rows[0].PhotoPath)
	assert.Empty(t, f.store.rows[0].LogoPath)
}

func TestSubmitValidationStopsEarly(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.Email = "bad"

	_, err := f.svc.Submit(context.Background(), SubmitRequest{Form: form, Photo: memUpload("me.jpg", 10)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, msgInvalidEmail, verr.Fields["email"])
	assert.Empty(t, f.store.rows)
	assert.Zero(t, countFiles(t, f.fs))
	assert.Empty(t, f.bus.subjects)
}

func TestSubmitDuplicateInSameMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, SubmitRequest{Form: validForm()})
	require.NoError(t, err)

	f.clock = time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	form := validForm()
	form.Email = "ADA@example.com"
	_, err = f.svc.Submit(ctx, SubmitRequest{Form: form, Photo: memUpload("me.jpg", 10)})
	require.ErrorIs(t, err, ErrDuplicateSubmission)

	assert.Len(t, f.store.rows, 1)
	assert.Zero(t, countFiles(t, f.fs), "duplicate check runs before file intake")
}

func TestSubmitDuplicateWithApostropheEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	form := validForm()
	form.Email = "o'neil@example.com"
	_, err := f.svc.Submit(ctx, SubmitRequest{Form: form})
	require.NoError(t, err)
	require.Len(t, f.store.rows, 1)
	assert.Equal(t, "o'neil@example.com", f.store.rows[0].Email)

	_, err = f.svc.Submit(ctx, SubmitRequest{Form: form, Photo: memUpload("me.jpg", 10)})
	require.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.Zero(t, countFiles(t, f.fs), "duplicate check runs before file intake")
}

func TestSubmitAllowedAgainNextMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, SubmitRequest{Form: validForm()})
	require.NoError(t, err)

	f.clock = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	res, err := f.svc.Submit(ctx, SubmitRequest{Form: validForm()})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SubmissionID)
	assert.Equal(t, "2024-04", f.store.rows[1].Period)
}

func TestSubmitPeriodFollowsTimezone(t *testing.T) {
	f := newFixture(t)
	kampala := time.FixedZone("EAT", 3*60*60)
	f.svc.guard = NewGuard(f.store, kampala)

	// 22:30 UTC on March 31st is already April in UTC+3.
	f.clock = time.Date(2024, 3, 31, 22, 30, 0, 0, time.UTC)
	_, err := f.svc.Submit(context.Background(), SubmitRequest{Form: validForm()})
	require.NoError(t, err)
	assert.Equal(t, "2024-04", f.store.rows[0].Period)
}

func TestSubmitRaceLostAtInsert(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = repo.ErrDuplicate

	_, err := f.svc.Submit(context.Background(), SubmitRequest{
		Form:  validForm(),
		Photo: memUpload("me.jpg", 10),
	})
	require.ErrorIs(t, err, ErrDuplicateSubmission)
	assert.Zero(t, countFiles(t, f.fs))
}

func TestSubmitPersistenceFailureCleansUp(t *testing.T) {
	f := newFixture(t)
	f.store.createErr = errors.New("disk full")

	_, err := f.svc.Submit(context.Background(), SubmitRequest{
		Form:  validForm(),
		Photo: memUpload("me.jpg", 10),
		Logo:  memUpload("logo.gif", 10),
	})
	require.ErrorIs(t, err, ErrPersistence)
	assert.Empty(t, f.store.rows)
	assert.Zero(t, countFiles(t, f.fs))
	assert.Empty(t, f.bus.subjects)
}

func TestSubmitLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.store.existsErr = errors.New("connection refused")

	_, err := f.svc.Submit(context.Background(), SubmitRequest{Form: validForm()})
	require.ErrorIs(t, err, ErrPersistence)
}

func TestSubmitFileErrors(t *testing.T) {
	tests := []struct {
		name  string
		photo *file.Upload
		logo  *file.Upload
		want  error
	}{
		{"photo too large", memUpload("me.jpg", 6<<20), nil, file.ErrFileTooLarge},
		{"photo bad type", memUpload("me.exe", 10), nil, file.ErrUnsupportedType},
		{"logo too large", memUpload("me.jpg", 10), memUpload("logo.png", 6<<20), file.ErrFileTooLarge},
		{"logo bad type", nil, memUpload("logo.svg", 10), file.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Submit(context.Background(), SubmitRequest{
				Form:  validForm(),
				Photo: tt.photo,
				Logo:  tt.logo,
			})
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.store.rows)
			assert.Zero(t, countFiles(t, f.fs), "a rejected logo must not leave the photo behind")
		})
	}
}

func TestSubmitPublishFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.bus.err = errors.New("nats: no responders")

	res, err := f.svc.Submit(context.Background(), SubmitRequest{Form: validForm()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SubmissionID)
	assert.Len(t, f.store.rows, 1)
}

func TestGuardPeriod(t *testing.T) {
	g := NewGuard(&memStore{}, nil)
	assert.Equal(t, "2024-12", g.Period(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2025-01", g.Period(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
