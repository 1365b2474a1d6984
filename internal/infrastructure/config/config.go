package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Email     EmailConfig
	Storage   StorageConfig
	Export    ExportConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string // Absolute URL used in pagination links and emails
}

// IsDemo reports whether the platform runs outside production, in which case
// outgoing emails are flagged.
func (a AppConfig) IsDemo() bool {
	return a.Env == "demo"
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig holds the browser session settings.
// API clients authenticate with opaque tokens stored in the database.
type AuthConfig struct {
	SessionSecret   string
	SessionTTL      time.Duration
	CookieName      string
	CookieDomain    string
	CookieSecure    bool
	CookieSameSite  string // strict, lax or none
	LoginURL        string
	LogoutURL       string
	LoginRedirectTo string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string

	// Attempts allowed per client on the credential endpoints
	CredentialsRateLimit  int
	CredentialsRateWindow time.Duration
}

// EmailConfig holds the async email settings
type EmailConfig struct {
	Enabled    bool
	From       string
	Region     string
	Endpoint   string // Optional SES endpoint override
	QueueKey   string
	MaxRetries int
	RetryDelay time.Duration
	Workers    int
}

// StorageConfig holds the S3 compatible storage used for ASP exchange files
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// ExportConfig holds the employee record export settings
type ExportConfig struct {
	OutPrefix   string
	InPrefix    string
	ErrorPrefix string
	BatchSize   int
}

// SwaggerConfig controls the API documentation endpoint
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // Only authenticated callers may read the docs
	AllowedIPs  []string // IPs or CIDR ranges, empty allows everyone
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool
	DBTraceEnabled    bool
	DBSlowQueryThresh time.Duration
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
	LogsLevel         string // minimum level shipped to the collector
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with ITOU_ prefix (e.g., ITOU_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/itou")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ITOU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			BaseURL: v.GetString("app.base_url"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			SessionSecret:   v.GetString("auth.session_secret"),
			SessionTTL:      v.GetDuration("auth.session_ttl"),
			CookieName:      v.GetString("auth.cookie_name"),
			CookieDomain:    v.GetString("auth.cookie_domain"),
			CookieSecure:    v.GetBool("auth.cookie_secure"),
			CookieSameSite:  v.GetString("auth.cookie_same_site"),
			LoginURL:        v.GetString("auth.login_url"),
			LogoutURL:       v.GetString("auth.logout_url"),
			LoginRedirectTo: v.GetString("auth.login_redirect_to"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),

			CredentialsRateLimit:  v.GetInt("http.credentials_rate_limit"),
			CredentialsRateWindow: v.GetDuration("http.credentials_rate_window"),
		},
		Email: EmailConfig{
			Enabled:    v.GetBool("email.enabled"),
			From:       v.GetString("email.from"),
			Region:     v.GetString("email.region"),
			Endpoint:   v.GetString("email.endpoint"),
			QueueKey:   v.GetString("email.queue_key"),
			MaxRetries: v.GetInt("email.max_retries"),
			RetryDelay: v.GetDuration("email.retry_delay"),
			Workers:    v.GetInt("email.workers"),
		},
		Storage: StorageConfig{
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
		},
		Export: ExportConfig{
			OutPrefix:   v.GetString("export.out_prefix"),
			InPrefix:    v.GetString("export.in_prefix"),
			ErrorPrefix: v.GetString("export.error_prefix"),
			BatchSize:   v.GetInt("export.batch_size"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			LogsLevel:         v.GetString("telemetry.logs_level"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "itou"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:" + cfg.App.Port
	}
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "itou"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 14 * 24 * time.Hour
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "sessionid"
	}
	if cfg.Auth.CookieSameSite == "" {
		cfg.Auth.CookieSameSite = "lax"
	}
	if cfg.Auth.LoginURL == "" {
		cfg.Auth.LoginURL = "/accounts/login/"
	}
	if cfg.Auth.LogoutURL == "" {
		cfg.Auth.LogoutURL = "/accounts/logout/"
	}
	if cfg.Auth.LoginRedirectTo == "" {
		cfg.Auth.LoginRedirectTo = "/"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.CredentialsRateLimit == 0 {
		cfg.HTTP.CredentialsRateLimit = 10
	}
	if cfg.HTTP.CredentialsRateWindow == 0 {
		cfg.HTTP.CredentialsRateWindow = time.Minute
	}
	// No default CORS origin: cross-origin requests are refused until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "noreply@inclusion.beta.gouv.fr"
	}
	if cfg.Email.Region == "" {
		cfg.Email.Region = "eu-west-3"
	}
	if cfg.Email.QueueKey == "" {
		cfg.Email.QueueKey = "itou:emails"
	}
	if cfg.Email.MaxRetries == 0 {
		cfg.Email.MaxRetries = 5
	}
	if cfg.Email.RetryDelay == 0 {
		cfg.Email.RetryDelay = 10 * time.Second
	}
	if cfg.Email.Workers == 0 {
		cfg.Email.Workers = 2
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "eu-west-3"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "itou-asp"
	}
	if cfg.Export.OutPrefix == "" {
		cfg.Export.OutPrefix = "employee-records/out/"
	}
	if cfg.Export.InPrefix == "" {
		cfg.Export.InPrefix = "employee-records/in/"
	}
	if cfg.Export.ErrorPrefix == "" {
		cfg.Export.ErrorPrefix = "employee-records/error/"
	}
	if cfg.Export.BatchSize == 0 {
		cfg.Export.BatchSize = 700
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.LogsLevel == "" {
		cfg.Telemetry.LogsLevel = "info"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Export.BatchSize <= 0 || c.Export.BatchSize > 700 {
		return fmt.Errorf("export.batch_size must be between 1 and 700, got %d", c.Export.BatchSize)
	}
	if c.Email.Enabled && c.Email.MaxRetries < 0 {
		return fmt.Errorf("email.max_retries cannot be negative")
	}

	switch c.Auth.CookieSameSite {
	case "strict", "lax", "none":
	default:
		return fmt.Errorf("auth.cookie_same_site must be strict, lax or none, got %q", c.Auth.CookieSameSite)
	}

	if c.App.Env == "production" {
		if len(c.Auth.SessionSecret) < 32 {
			return fmt.Errorf("auth.session_secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if !c.Auth.CookieSecure {
			return fmt.Errorf("auth.cookie_secure must be true in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
			return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		}
	}

	if c.Auth.CookieSameSite == "none" && !c.Auth.CookieSecure {
		return fmt.Errorf("auth.cookie_same_site=none requires auth.cookie_secure=true")
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
