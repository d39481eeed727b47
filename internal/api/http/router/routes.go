package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/internal/api/http/handler"
	"github.com/Alijeyrad/founders_backend/pkg/authorize"
)

func (r *Router) registerSessionRoutes(api fiber.Router, h *handler.SessionHandler) {
	api.Get("/csrf-token", h.CSRFToken)
}

// Every method reaches the handler so non-POST requests get a 405 body;
// the CSRF check only applies to POST.
func (r *Router) registerApplicationRoutes(api fiber.Router, h *handler.ApplicationHandler, csrf fiber.Handler) {
	api.All("/applications", csrf, h.Submit)
}

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, csrf fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/register", csrf, h.Register)
	group.Post("/login", csrf, h.Login)
	group.Post("/logout", csrf, h.Logout)
	group.Get("/verify", h.Verify)
}

func (r *Router) registerMeRoutes(api fiber.Router, h *handler.MeHandler, userRequired fiber.Handler) {
	api.Get("/me", userRequired, h.Get)
}

func (r *Router) registerAdminRoutes(
	api fiber.Router,
	h *handler.AdminHandler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	admin := api.Group("/admin")
	admin.Get("/submissions", requirePerm(authorize.ResourceSubmissions, authorize.ActionList), h.ListSubmissions)
	admin.Get("/submissions/:id", requirePerm(authorize.ResourceSubmissions, authorize.ActionRead), h.GetSubmission)
	admin.Get("/submissions/:id/files/:kind", requirePerm(authorize.ResourceUploads, authorize.ActionRead), h.DownloadFile)
	admin.Get("/stats", requirePerm(authorize.ResourceStats, authorize.ActionRead), h.Stats)
}
