package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/founders_backend/pkg/constants"
)

// ReadConfig loads configuration from path, which is either a YAML file or
// a directory holding config.yaml. Every key can be overridden from the
// environment, e.g. FOUNDERS_DATABASE_HOST overrides database.host.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigFile(path)
	default:
		v.SetConfigName(constants.ConfigName)
		v.SetConfigType(constants.ConfigFormat)
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The file is optional in container deployments where env vars carry
	// the whole configuration.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Founders Monday Global")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.admin_email", "hello@foundersmonday.com")
	v.SetDefault("app.community_url", "https://chat.whatsapp.com/Kliov7hj0QV6oG9JiuAorq")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("app.phone_region", "UG")
	v.SetDefault("app.weekly_prize", "UGX 100,000")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "founders.db")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.expiration_seconds", 30)

	v.SetDefault("session.cookie_name", "fm_session")
	v.SetDefault("session.ttl_minutes", 24*60)
	v.SetDefault("session.cookie_same_site", "Lax")
	v.SetDefault("session.key_prefix", "session:")

	v.SetDefault("authorization.enable_audit", true)

	v.SetDefault("email.from", "hello@foundersmonday.com")
	v.SetDefault("email.from_name", "Founders Monday Global")
	v.SetDefault("email.reply_to", "hello@foundersmonday.com")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("notifications.max_tries", 3)
	v.SetDefault("notifications.initial_backoff_ms", 500)
	v.SetDefault("notifications.max_elapsed_seconds", 60)

	v.SetDefault("uploads.max_file_size", constants.DefaultMaxFileSize)
	v.SetDefault("uploads.allowed_types", constants.DefaultAllowedTypes)
	v.SetDefault("uploads.photo_dir", "founder_photos")
	v.SetDefault("uploads.logo_dir", "company_logos")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.root", "uploads")

	v.SetDefault("events.subject_prefix", "founders")
	v.SetDefault("events.workers", 4)

	v.SetDefault("password.min_length", 8)

	v.SetDefault("observability.service_name", "founders_backend")
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)
}
