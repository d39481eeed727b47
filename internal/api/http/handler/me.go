package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

type MeHandler struct {
	svc auth.Service
}

func NewMeHandler(svc auth.Service) *MeHandler {
	return &MeHandler{svc: svc}
}

// GET /api/v1/me
func (h *MeHandler) Get(c fiber.Ctx) error {
	userID, signedIn := reqctx.UserIDFromContext(c.Context())
	if !signedIn {
		return unauthorized(c, "Please log in to continue")
	}

	p, err := h.svc.Profile(c.Context(), userID)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"user":        p.User,
		"submissions": p.Submissions,
	})
}
