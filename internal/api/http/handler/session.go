package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/founders_backend/pkg/session"
)

type SessionHandler struct {
	sessions *session.Manager
}

func NewSessionHandler(sessions *session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GET /api/v1/csrf-token
// Starts a session when the caller has none and returns its token.
func (h *SessionHandler) CSRFToken(c fiber.Ctx) error {
	_, data, found := middleware.SessionFromFiber(c)
	if !found {
		id, created, err := h.sessions.Create()
		if err != nil {
			return internalError(c, err)
		}
		middleware.SetSessionCookie(c, h.sessions.Config(), id)
		middleware.BindSession(c, id, created)
		data = created
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return ok(c, fiber.Map{"csrf_token": data.CSRFToken})
}
