package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	"github.com/Alijeyrad/founders_backend/pkg/session"
)

const dashboardPath = "/dashboard"

type AuthHandler struct {
	svc      auth.Service
	sessions *session.Manager
}

func NewAuthHandler(svc auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c fiber.Ctx) error {
	u, err := h.svc.Register(c.Context(), auth.RegisterFromValues(formValues(c)))
	if err != nil {
		return mapAuthError(c, err)
	}

	if err := h.bindUser(c, u); err != nil {
		return internalError(c, err)
	}

	return okMessage(c, "Account created successfully! Please check your email to verify your account.", fiber.Map{
		"user_id":  u.ID,
		"redirect": dashboardPath,
	})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	u, err := h.svc.Login(c.Context(), auth.LoginRequest{
		Email:    c.FormValue("login_email"),
		Password: c.FormValue("login_password"),
	})
	if err != nil {
		return mapAuthError(c, err)
	}

	if err := h.bindUser(c, u); err != nil {
		return internalError(c, err)
	}

	return okMessage(c, "Login successful", fiber.Map{
		"user_id":  u.ID,
		"role":     u.Role,
		"redirect": dashboardPath,
	})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if id, _, found := middleware.SessionFromFiber(c); found {
		if err := h.sessions.Destroy(id); err != nil {
			return internalError(c, err)
		}
	}
	middleware.ClearSessionCookie(c, h.sessions.Config())
	return okMessage(c, "Logged out", nil)
}

// GET /api/v1/auth/verify?token=
func (h *AuthHandler) Verify(c fiber.Ctx) error {
	u, err := h.svc.Verify(c.Context(), c.Query("token"))
	if err != nil {
		return mapAuthError(c, err)
	}

	// refresh the flag when the verifying browser is the signed-in one
	if id, data, found := middleware.SessionFromFiber(c); found && data.UserID == u.ID {
		data.Verified = true
		if err := h.sessions.Save(id, data); err != nil {
			return internalError(c, err)
		}
	}

	return okMessage(c, "Email verified successfully", fiber.Map{"user_id": u.ID})
}

// bindUser attaches u to the caller's session under a fresh session id.
func (h *AuthHandler) bindUser(c fiber.Ctx, u *repo.User) error {
	oldID, data, found := middleware.SessionFromFiber(c)
	if !found {
		data = &session.Data{}
	}
	if data.CSRFToken == "" {
		tok, err := session.NewToken()
		if err != nil {
			return err
		}
		data.CSRFToken = tok
	}

	data.UserID = u.ID
	data.Email = u.Email
	data.Name = u.FullName
	data.Role = u.Role
	data.AccountType = u.AccountType
	data.Verified = u.EmailVerified

	id, err := h.sessions.Rotate(oldID, data)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, h.sessions.Config(), id)
	middleware.BindSession(c, id, data)
	return nil
}

func mapAuthError(c fiber.Ctx, err error) error {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationFailed(c, verr.Fields)
	case errors.Is(err, auth.ErrEmailTaken):
		return conflict(c, "Email already registered")
	case errors.Is(err, auth.ErrUsernameTaken):
		return conflict(c, "Username already taken")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return unauthorized(c, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		return notFound(c, "Invalid or expired verification link")
	case errors.Is(err, auth.ErrUserNotFound):
		return notFound(c, "User not found")
	default:
		return internalError(c, err)
	}
}
