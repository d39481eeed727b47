package config

import (
	"errors"
	"fmt"
	"strings"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Server        ServerConfig        `mapstructure:"server"`
	Session       SessionConfig       `mapstructure:"session"`
	Authorization AuthorizationConfig `mapstructure:"authorization"`
	Email         EmailConfig         `mapstructure:"email"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Uploads       UploadsConfig       `mapstructure:"uploads"`
	Storage       StorageConfig       `mapstructure:"storage"`
	S3            S3Config            `mapstructure:"s3"`
	Events        EventsConfig        `mapstructure:"events"`
	Password      PasswordConfig      `mapstructure:"password"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// AppConfig holds the site identity used in emails and links.
type AppConfig struct {
	Name         string `mapstructure:"name"`
	BaseURL      string `mapstructure:"base_url"`
	AdminEmail   string `mapstructure:"admin_email"`
	CommunityURL string `mapstructure:"community_url"`
	Timezone     string `mapstructure:"timezone"`
	PhoneRegion  string `mapstructure:"phone_region"`
	WeeklyPrize  string `mapstructure:"weekly_prize"`
}

type DatabaseConfig struct {
	Driver     string                  `mapstructure:"driver"` // postgres, sqlite
	Host       string                  `mapstructure:"host"`
	Port       int                     `mapstructure:"port"`
	User       string                  `mapstructure:"user"`
	Password   string                  `mapstructure:"password"`
	DBName     string                  `mapstructure:"dbname"`
	SSLMode    string                  `mapstructure:"sslmode"`
	Path       string                  `mapstructure:"path"` // sqlite file
	Pool       DatabasePoolConfig      `mapstructure:"pool"`
	Migrations DatabaseMigrationConfig `mapstructure:"migrations"`
}

type DatabasePoolConfig struct {
	MaxOpenConns       int `mapstructure:"max_open_conns"`
	MaxIdleConns       int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
}

type DatabaseMigrationConfig struct {
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	PoolSize            int    `mapstructure:"pool_size"`
	MinIdleConns        int    `mapstructure:"min_idle_conns"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	TimeoutSeconds int             `mapstructure:"timeout_seconds"`
	Environment    string          `mapstructure:"environment"`
	Domain         string          `mapstructure:"domain"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Max               int `mapstructure:"max"`
	ExpirationSeconds int `mapstructure:"expiration_seconds"`
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type SessionConfig struct {
	CookieName     string `mapstructure:"cookie_name"`
	TTLMinutes     int    `mapstructure:"ttl_minutes"`
	CookieSecure   bool   `mapstructure:"cookie_secure"`
	CookieSameSite string `mapstructure:"cookie_same_site"`
	KeyPrefix      string `mapstructure:"key_prefix"`
}

type AuthorizationConfig struct {
	// AdminEmails are granted the admin role on login in addition to users
	// stored with role=admin.
	AdminEmails []string `mapstructure:"admin_emails"`
	// ModelPath and PolicyPath override the built-in casbin model and
	// policy. Both are optional.
	ModelPath   string `mapstructure:"model_path"`
	PolicyPath  string `mapstructure:"policy_path"`
	EnableAudit bool   `mapstructure:"enable_audit"`
}

type EmailConfig struct {
	Enabled  bool       `mapstructure:"enabled"`
	From     string     `mapstructure:"from"`
	FromName string     `mapstructure:"from_name"`
	ReplyTo  string     `mapstructure:"reply_to"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
}

type SMTPConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	UseTLS         bool   `mapstructure:"use_tls"` // implicit TLS (SMTPS)
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type NotificationsConfig struct {
	MaxTries          uint `mapstructure:"max_tries"`
	InitialBackoffMs  int  `mapstructure:"initial_backoff_ms"`
	MaxElapsedSeconds int  `mapstructure:"max_elapsed_seconds"`
}

type UploadsConfig struct {
	MaxFileSize  int64    `mapstructure:"max_file_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
	PhotoDir     string   `mapstructure:"photo_dir"`
	LogoDir      string   `mapstructure:"logo_dir"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // local, s3
	Root   string `mapstructure:"root"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PresignTTLSec   int    `mapstructure:"presign_ttl_sec"`
}

type EventsConfig struct {
	NatsURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	Workers       int    `mapstructure:"workers"`
}

type PasswordConfig struct {
	MemoryKiB     uint32 `mapstructure:"memory_kib"`
	Iterations    uint32 `mapstructure:"iterations"`
	Parallelism   uint8  `mapstructure:"parallelism"`
	SaltLength    uint32 `mapstructure:"salt_length"`
	KeyLength     uint32 `mapstructure:"key_length"`
	LowMemoryMode bool   `mapstructure:"low_memory_mode"`
	MinLength     int    `mapstructure:"min_length"`
}

type ObservabilityConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Tracing        TracingConfig `mapstructure:"tracing"`
	Metrics        MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string       `mapstructure:"level"`  // debug, info, warn, error
	Format string       `mapstructure:"format"` // text, json
	Output OutputConfig `mapstructure:"output"`
}

type OutputConfig struct {
	Stdout bool          `mapstructure:"stdout"`
	File   FileLogConfig `mapstructure:"file"`
	Loki   LokiConfig    `mapstructure:"loki"`
}

type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`        // e.g. "logs/app.log"
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // rotate after N MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type LokiConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"` // e.g. "http://localhost:3100"
	TenantID string `mapstructure:"tenant_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "local":
		if c.Storage.Root == "" {
			errs = append(errs, errors.New("storage.root is required for the local driver"))
		}
	case "s3":
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver must be local or s3, got %q", c.Storage.Driver))
	}

	if c.Uploads.MaxFileSize <= 0 {
		errs = append(errs, errors.New("uploads.max_file_size must be positive"))
	}
	if len(c.Uploads.AllowedTypes) == 0 {
		errs = append(errs, errors.New("uploads.allowed_types must not be empty"))
	}
	if c.App.AdminEmail == "" {
		errs = append(errs, errors.New("app.admin_email is required"))
	}
	if c.Session.TTLMinutes <= 0 {
		errs = append(errs, errors.New("session.ttl_minutes must be positive"))
	}

	return errors.Join(errs...)
}
