package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/founders_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/application"
	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	"github.com/Alijeyrad/founders_backend/internal/service/file"
	"github.com/Alijeyrad/founders_backend/internal/service/review"
	"github.com/Alijeyrad/founders_backend/pkg/authorize"
	"github.com/Alijeyrad/founders_backend/pkg/session"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeApplications struct {
	err  error
	last application.SubmitRequest
}

func (f *fakeApplications) Submit(_ context.Context, req application.SubmitRequest) (*application.Result, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &application.Result{SubmissionID: 12, SubmittedAt: time.Now()}, nil
}

type fakeAuth struct {
	users map[string]*repo.User
}

const goodPassword = "correct-horse"

func newFakeAuth() *fakeAuth {
	return &fakeAuth{users: map[string]*repo.User{
		"ada@example.com":   {ID: 1, Email: "ada@example.com", FullName: "Ada", Role: "member"},
		"admin@example.com": {ID: 2, Email: "admin@example.com", FullName: "Root", Role: "admin"},
	}}
}

func (f *fakeAuth) Register(_ context.Context, req auth.RegisterRequest) (*repo.User, error) {
	if req.Email == "" {
		return nil, &auth.ValidationError{Fields: map[string]string{"reg_email": "This field is required"}}
	}
	if _, taken := f.users[req.Email]; taken {
		return nil, auth.ErrEmailTaken
	}
	u := &repo.User{ID: 10, Email: req.Email, FullName: req.FullName, Role: "member"}
	f.users[req.Email] = u
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, req auth.LoginRequest) (*repo.User, error) {
	u, found := f.users[req.Email]
	if !found || req.Password != goodPassword {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeAuth) Verify(_ context.Context, token string) (*repo.User, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	u := f.users["ada@example.com"]
	u.EmailVerified = true
	return u, nil
}

func (f *fakeAuth) Profile(_ context.Context, userID int) (*auth.Profile, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return &auth.Profile{User: u, Submissions: 2}, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (f *fakeAuth) CreateAdmin(context.Context, auth.CreateAdminRequest) (*repo.User, error) {
	return nil, errors.New("not used")
}

type fakeReview struct{}

func (fakeReview) List(_ context.Context, req review.ListRequest) (*review.Page, error) {
	return &review.Page{Items: []*repo.Submission{{ID: 3, Email: "a@example.com"}}, Total: 1, Page: max(req.Page, 1), PerPage: 20}, nil
}

func (fakeReview) Get(_ context.Context, id int) (*repo.Submission, error) {
	if id != 3 {
		return nil, review.ErrSubmissionNotFound
	}
	return &repo.Submission{ID: 3, Email: "a@example.com"}, nil
}

func (fakeReview) OpenFile(_ context.Context, id int, kind string) (*review.StoredFile, error) {
	if kind != review.FileKindPhoto {
		return nil, review.ErrInvalidFileKind
	}
	if id != 3 {
		return nil, review.ErrSubmissionNotFound
	}
	return &review.StoredFile{Name: "x_1.png", Body: io.NopCloser(strings.NewReader("png"))}, nil
}

func (fakeReview) Stats(context.Context) (*review.Stats, error) {
	return &review.Stats{Total: 4, ThisMonth: 1, Period: "2024-03", Users: 2}, nil
}

// ---------------------------------------------------------------------------
// harness
// ---------------------------------------------------------------------------

type harness struct {
	app  *fiber.App
	apps *fakeApplications
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStorage(), session.DefaultConfig())
	authz, err := authorize.New(context.Background(), authorize.Config{})
	require.NoError(t, err)

	apps := &fakeApplications{}
	accounts := newFakeAuth()

	sessionH := NewSessionHandler(sessions)
	appH := NewApplicationHandler(apps)
	authH := NewAuthHandler(accounts, sessions)
	meH := NewMeHandler(accounts)
	adminH := NewAdminHandler(fakeReview{})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.RequestID(), middleware.Session(sessions))

	api := app.Group("/api/v1")
	api.Get("/csrf-token", sessionH.CSRFToken)
	api.All("/applications", middleware.VerifyCSRF(), appH.Submit)
	api.Post("/auth/register", middleware.VerifyCSRF(), authH.Register)
	api.Post("/auth/login", middleware.VerifyCSRF(), authH.Login)
	api.Post("/auth/logout", middleware.VerifyCSRF(), authH.Logout)
	api.Get("/auth/verify", authH.Verify)
	api.Get("/me", middleware.RequireUser(), meH.Get)

	admin := api.Group("/admin")
	admin.Get("/submissions", middleware.RequirePermission(authz, authorize.ResourceSubmissions, authorize.ActionList), adminH.ListSubmissions)
	admin.Get("/submissions/:id", middleware.RequirePermission(authz, authorize.ResourceSubmissions, authorize.ActionRead), adminH.GetSubmission)
	admin.Get("/submissions/:id/files/:kind", middleware.RequirePermission(authz, authorize.ResourceUploads, authorize.ActionRead), adminH.DownloadFile)
	admin.Get("/stats", middleware.RequirePermission(authz, authorize.ResourceStats, authorize.ActionRead), adminH.Stats)

	return &harness{app: app, apps: apps}
}

type client struct {
	t      *testing.T
	h      *harness
	cookie *http.Cookie
	token  string
}

// newClient opens a session the way a browser does before posting a form.
func (h *harness) newClient(t *testing.T) *client {
	t.Helper()
	cl := &client{t: t, h: h}
	resp, body := cl.do(httptest.NewRequest(http.MethodGet, "/api/v1/csrf-token", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cl.token, _ = body["csrf_token"].(string)
	require.Len(t, cl.token, 64)
	return cl
}

func (cl *client) do(req *http.Request) (*http.Response, map[string]any) {
	cl.t.Helper()
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	resp, err := cl.h.app.Test(req)
	require.NoError(cl.t, err)

	for _, ck := range resp.Cookies() {
		if ck.Name == session.DefaultConfig().CookieName {
			if ck.Value == "" {
				cl.cookie = nil
			} else {
				cl.cookie = ck
			}
		}
	}

	var body map[string]any
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func (cl *client) postForm(path string, form url.Values) (*http.Response, map[string]any) {
	if form == nil {
		form = url.Values{}
	}
	if form.Get(middleware.FieldCSRFToken) == "" {
		form.Set(middleware.FieldCSRFToken, cl.token)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return cl.do(req)
}

func (cl *client) get(path string) (*http.Response, map[string]any) {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestCSRFTokenReusedWithinSession(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	_, body := cl.get("/api/v1/csrf-token")
	assert.Equal(t, cl.token, body["csrf_token"])
	assert.Equal(t, true, body["success"])

	other := h.newClient(t)
	assert.NotEqual(t, cl.token, other.token)
}

func TestApplicationRejectsNonPost(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	resp, body := cl.get("/api/v1/applications")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Method not allowed", body["message"])
	assert.Equal(t, fiber.MethodPost, resp.Header.Get(fiber.HeaderAllow))
}

func TestApplicationRejectsBadCSRF(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	resp, body := cl.postForm("/api/v1/applications", url.Values{
		middleware.FieldCSRFToken: {"forged"},
		"email":                   {"ada@example.com"},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid CSRF token", body["message"])
	assert.Empty(t, h.apps.last.Form.Email, "service must not run")
}

func TestApplicationSuccess(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	resp, body := cl.postForm("/api/v1/applications", url.Values{
		"full_name": {"Ada Founder"},
		"email":     {"ada@example.com"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Application submitted successfully!", body["message"])
	assert.EqualValues(t, 12, body["submission_id"])

	assert.Equal(t, "Ada Founder", h.apps.last.Form.FullName)
	assert.Equal(t, "ada@example.com", h.apps.last.Form.Email)
	assert.Nil(t, h.apps.last.Photo)
	assert.Nil(t, h.apps.last.Logo)
}

func TestApplicationMultipartFiles(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField(middleware.FieldCSRFToken, cl.token))
	require.NoError(t, mw.WriteField("email", "ada@example.com"))
	fw, err := mw.CreateFormFile("photo", "me.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	// an empty logo part counts as no logo
	_, err = mw.CreateFormFile("logo", "")
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, _ := cl.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, h.apps.last.Photo)
	assert.Equal(t, "me.png", h.apps.last.Photo.Filename)
	assert.EqualValues(t, 9, h.apps.last.Photo.Size)
	assert.Nil(t, h.apps.last.Logo)
}

func TestApplicationErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &application.ValidationError{Fields: map[string]string{"email": "Invalid email address"}}, http.StatusBadRequest},
		{"duplicate", application.ErrDuplicateSubmission, http.StatusConflict},
		{"too large", file.ErrFileTooLarge, http.StatusBadRequest},
		{"unsupported", file.ErrUnsupportedType, http.StatusBadRequest},
		{"upload io", fmt.Errorf("%w: disk full", file.ErrUploadIO), http.StatusInternalServerError},
		{"persistence", fmt.Errorf("%w: tx", application.ErrPersistence), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.apps.err = tt.err
			cl := h.newClient(t)

			resp, body := cl.postForm("/api/v1/applications", url.Values{"email": {"ada@example.com"}})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorHandlerOversizedBody(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/upload", func(fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("x")))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, fileTooLargeMessage, body["message"])
}

func TestErrorHandlerKeepsFiberStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApplicationValidationBody(t *testing.T) {
	h := newHarness(t)
	h.apps.err = &application.ValidationError{Fields: map[string]string{"email": "Invalid email address"}}
	cl := h.newClient(t)

	_, body := cl.postForm("/api/v1/applications", nil)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]any{"email": "Invalid email address"}, body["errors"])
}

func TestLoginMeLogout(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)
	anonCookie := cl.cookie.Value

	resp, _ := cl.get("/api/v1/me")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := cl.postForm("/api/v1/auth/login", url.Values{
		"login_email":    {"ada@example.com"},
		"login_password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = cl.postForm("/api/v1/auth/login", url.Values{
		"login_email":    {"ada@example.com"},
		"login_password": {goodPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["user_id"])
	require.NotNil(t, cl.cookie)
	assert.NotEqual(t, anonCookie, cl.cookie.Value, "session id rotates on login")

	resp, body = cl.get("/api/v1/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["submissions"])

	// the CSRF token survives rotation
	resp, _ = cl.postForm("/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = cl.get("/api/v1/me")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	resp, body := cl.postForm("/api/v1/auth/register", url.Values{"reg_full_name": {"Grace"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["errors"], "reg_email")

	resp, _ = cl.postForm("/api/v1/auth/register", url.Values{"reg_email": {"ada@example.com"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = cl.postForm("/api/v1/auth/register", url.Values{
		"reg_full_name": {"Grace"},
		"reg_email":     {"grace@example.com"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, body["user_id"])
	assert.Equal(t, "/dashboard", body["redirect"])

	resp, _ = cl.get("/api/v1/me")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "registration signs the user in")
}

func TestVerify(t *testing.T) {
	h := newHarness(t)
	cl := h.newClient(t)

	resp, _ := cl.get("/api/v1/auth/verify?token=bad")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := cl.get("/api/v1/auth/verify?token=good")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["user_id"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)

	anon := h.newClient(t)
	resp, _ := anon.get("/api/v1/admin/submissions")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	member := h.newClient(t)
	resp, _ = member.postForm("/api/v1/auth/login", url.Values{
		"login_email": {"ada@example.com"}, "login_password": {goodPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, path := range []string{
		"/api/v1/admin/submissions",
		"/api/v1/admin/submissions/3",
		"/api/v1/admin/submissions/3/files/photo",
		"/api/v1/admin/stats",
	} {
		resp, _ = member.get(path)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
	}
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	admin := h.newClient(t)
	resp, _ := admin.postForm("/api/v1/auth/login", url.Values{
		"login_email": {"admin@example.com"}, "login_password": {goodPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := admin.get("/api/v1/admin/submissions?page=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["total"])

	resp, _ = admin.get("/api/v1/admin/submissions/3")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = admin.get("/api/v1/admin/submissions/99")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = admin.get("/api/v1/admin/submissions/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = admin.get("/api/v1/admin/submissions/3/files/resume")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/submissions/3/files/photo", nil)
	req.AddCookie(admin.cookie)
	raw, err := h.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, raw.StatusCode)
	assert.Equal(t, "image/png", raw.Header.Get(fiber.HeaderContentType))
	data, _ := io.ReadAll(raw.Body)
	assert.Equal(t, "png", string(data))

	resp, body = admin.get("/api/v1/admin/stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats, _ := body["stats"].(map[string]any)
	assert.EqualValues(t, 4, stats["total_submissions"])
}
