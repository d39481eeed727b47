package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/api/http/handler"
	"github.com/Alijeyrad/founders_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/application"
	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	"github.com/Alijeyrad/founders_backend/internal/service/review"
	"github.com/Alijeyrad/founders_backend/pkg/authorize"
	"github.com/Alijeyrad/founders_backend/pkg/session"
)

const readinessTimeout = 2 * time.Second

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Auth           authorize.IAuthorization
	DB             *repo.Client
	Sessions       *session.Manager
	ApplicationSvc application.Service
	AuthSvc        auth.Service
	ReviewSvc      review.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Middlewares
	app.Use(middleware.Session(r.p.Sessions))
	csrf := middleware.VerifyCSRF()
	userRequired := middleware.RequireUser()
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Handlers
	sessionH := handler.NewSessionHandler(r.p.Sessions)
	applicationH := handler.NewApplicationHandler(r.p.ApplicationSvc)
	authH := handler.NewAuthHandler(r.p.AuthSvc, r.p.Sessions)
	meH := handler.NewMeHandler(r.p.AuthSvc)
	adminH := handler.NewAdminHandler(r.p.ReviewSvc)

	api := app.Group("/api/v1")

	r.registerSessionRoutes(api, sessionH)
	r.registerApplicationRoutes(api, applicationH, csrf)
	r.registerAuthRoutes(api, authH, csrf)
	r.registerMeRoutes(api, meH, userRequired)
	r.registerAdminRoutes(api, adminH, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.Context(), readinessTimeout)
			defer cancel()
			return r.p.DB.Ping(ctx) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
