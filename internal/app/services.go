package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/Alijeyrad/founders_backend/config"
	"github.com/Alijeyrad/founders_backend/internal/repo"
	"github.com/Alijeyrad/founders_backend/internal/service/application"
	"github.com/Alijeyrad/founders_backend/internal/service/auth"
	svcfile "github.com/Alijeyrad/founders_backend/internal/service/file"
	"github.com/Alijeyrad/founders_backend/internal/service/notification"
	"github.com/Alijeyrad/founders_backend/internal/service/review"
	"github.com/Alijeyrad/founders_backend/pkg/email"
	"github.com/Alijeyrad/founders_backend/pkg/events"
	"github.com/Alijeyrad/founders_backend/pkg/storage"
	"github.com/Alijeyrad/founders_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideFileService,
		ProvideApplicationService,
		ProvideAuthService,
		ProvideReviewService,
		ProvideNotificationService,
	),
)

func ProvideFileService(store storage.Store, cfg *config.Config) svcfile.Service {
	return svcfile.New(store, svcfile.FromCentralConfig(cfg.Uploads))
}

func ProvideApplicationService(db *repo.Client, files svcfile.Service, bus events.Bus, cfg *config.Config) (application.Service, error) {
	appCfg, err := application.FromCentralConfig(cfg)
	if err != nil {
		return nil, err
	}
	return application.New(db.Submission, files, bus, appCfg, slog.Default()), nil
}

func ProvideAuthService(db *repo.Client, hasher *password.Hasher, bus events.Bus, cfg *config.Config) auth.Service {
	return auth.New(db.User, db.Submission, hasher, bus, auth.FromCentralConfig(cfg), slog.Default())
}

func ProvideReviewService(db *repo.Client, files svcfile.Service, cfg *config.Config) (review.Service, error) {
	reviewCfg, err := review.FromCentralConfig(cfg)
	if err != nil {
		return nil, err
	}
	return review.New(db.Submission, db.User, files, reviewCfg), nil
}

func ProvideNotificationService(mailer *email.Client, cfg *config.Config) notification.Service {
	return notification.New(mailer, notification.FromCentralConfig(cfg), slog.Default())
}
