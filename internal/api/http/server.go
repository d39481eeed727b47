package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"go.uber.org/fx"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/api/http/handler"
	"github.com/Alijeyrad/founders_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/founders_backend/internal/api/http/router"
	"github.com/Alijeyrad/founders_backend/pkg/observability"
)

// multipartOverhead is the room left for text fields next to two uploads.
const multipartOverhead = 1 << 20

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Router    *router.Router
	Storage   *fiberredis.Storage     `optional:"true"`
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	timeout := time.Duration(p.Cfg.Server.TimeoutSeconds) * time.Second

	app := fiber.New(fiber.Config{
		AppName:      p.Cfg.App.Name,
		BodyLimit:    BodyLimit(p.Cfg.Uploads.MaxFileSize),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		ErrorHandler: handler.ErrorHandler,
	})

	if p.OTel != nil && p.Cfg.Observability.Tracing.Enabled {
		app.Use(observability.FiberMiddleware(
			healthcheck.LivenessEndpoint,
			healthcheck.ReadinessEndpoint,
			healthcheck.StartupEndpoint,
			p.Cfg.Observability.Metrics.Path,
		))
	}

	configureGlobalMiddleware(app, p.Cfg, p.Storage)

	p.Router.Register(app)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// BodyLimit allows two maximum-size uploads plus the form fields.
func BodyLimit(maxFileSize int64) int {
	return int(2*maxFileSize + multipartOverhead)
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, storage *fiberredis.Storage) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if cfg.Server.Environment == "production" {
		app.Use(helmet.New())
		if cfg.Server.CORS.Enabled {
			app.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.Server.CORS.AllowOrigins,
				AllowCredentials: cfg.Server.CORS.AllowCredentials,
			}))
		}
		var store fiber.Storage
		if storage != nil {
			store = storage
		}
		app.Use(middleware.NewLimiter(store, cfg.Server.RateLimit))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${respHeader:X-Request-Id}] ${method} ${url} ${status}\n",
	}))
}
