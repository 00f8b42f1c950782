package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Mail     MailConfig     `mapstructure:"mail"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ProdMode marks cookies Secure. Off for local http development.
	ProdMode bool `mapstructure:"prod_mode"`

	// FrontendURL is the base of password-reset links when the request
	// carries no Origin header.
	FrontendURL    string   `mapstructure:"frontend_url"    validate:"required,url"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,url"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                        validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"             validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"             validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"  validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// Token lifetimes, in minutes.
	AccessTokenLifetimeMinutes  int `mapstructure:"access_token_lifetime_minutes"  validate:"required,gt=0,lte=1440"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,gtfield=AccessTokenLifetimeMinutes"`
	SessionLifetimeMinutes      int `mapstructure:"session_lifetime_minutes"       validate:"required,gt=0"`
	ResetTokenLifetimeMinutes   int `mapstructure:"reset_token_lifetime_minutes"   validate:"required,gt=0"`

	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RedisConfig configures the rate limiter backend. An empty Addr disables
// rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       validate:"gte=0"`

	AuthRateLimit         int `mapstructure:"auth_rate_limit"          validate:"gt=0"`
	AuthRateWindowSeconds int `mapstructure:"auth_rate_window_seconds" validate:"gt=0"`
}

// MailConfig configures outgoing mail. An empty SMTPHost selects the
// logging mailer.
type MailConfig struct {
	From         string `mapstructure:"from"          validate:"required,email"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"     validate:"gt=0,lt=65536"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`

	// TimeoutSeconds bounds a whole SMTP session, greeting included.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// Timeout returns the SMTP session timeout as a duration.
func (c MailConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
