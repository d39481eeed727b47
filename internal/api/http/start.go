package http

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/api/http/router"
	"github.com/Alijeyrad/founders_backend/internal/app"
)

// Start runs the API until SIGINT or SIGTERM, then stops every component
// within stopTimeout. Wiring and startup failures are returned rather than
// exiting the process.
func Start(cfg *config.Config, stopTimeout time.Duration) error {
	fxApp := fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,
		// NewServer registers the listen hook; requesting *fiber.App builds it.
		fx.Invoke(func(*fiber.App) {}),
		fx.StopTimeout(stopTimeout),
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: slog.Default()}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
	)
	if err := fxApp.Err(); err != nil {
		return fmt.Errorf("wire application: %w", err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), fxApp.StartTimeout())
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	sig := <-fxApp.Wait()
	slog.Info("shutting down", "signal", sig.Signal.String())

	stopCtx, stop := context.WithTimeout(context.Background(), fxApp.StopTimeout())
	defer stop()
	return fxApp.Stop(stopCtx)
}
