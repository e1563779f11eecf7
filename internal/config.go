package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env           string              `mapstructure:"env" env:"APP_ENV, default=development"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Journal       JournalConfig       `mapstructure:"journal"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Authorization AuthorizationConfig `mapstructure:"authorization"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"HTTP_PORT, default=8080"`
	BaseURL           string        `mapstructure:"base_url" env:"HTTP_BASE_URL"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT, default=5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"HTTP_READ_TIMEOUT, default=15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"HTTP_IDLE_TIMEOUT, default=60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"HTTP_WRITE_TIMEOUT, default=15s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"DB_MAX_OPEN_CONNS, default=10"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"DB_MAX_IDLE_CONNS, default=5"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME, default=30m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME, default=5m"`
	Source          string        `mapstructure:"source" env:"DB_SOURCE"`
}

type SecurityConfig struct {
	JWTAccessSecret      string        `mapstructure:"jwt_access_secret" env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" env:"JWT_REFRESH_SECRET"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" env:"ACCESS_TOKEN_DURATION, default=15m"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" env:"REFRESH_TOKEN_DURATION, default=168h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" env:"BCRYPT_COST, default=10"`
	ResetPasswordLength  int           `mapstructure:"reset_password_length" env:"RESET_PASSWORD_LENGTH, default=12"`
	// RevealResetPassword returns the generated password in the reset response body.
	RevealResetPassword bool `mapstructure:"reveal_reset_password" env:"REVEAL_RESET_PASSWORD, default=true"`
}

type JournalConfig struct {
	// ConsultationWindow is how long an identical read-only action is not journaled again.
	ConsultationWindow time.Duration `mapstructure:"consultation_window" env:"JOURNAL_CONSULTATION_WINDOW, default=5m"`
}

type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled" env:"REDIS_ENABLED, default=false"`
	Addr    string        `mapstructure:"addr" env:"REDIS_ADDR, default=localhost:6379"`
	DB      int           `mapstructure:"db" env:"REDIS_DB, default=0"`
	Timeout time.Duration `mapstructure:"timeout" env:"REDIS_TIMEOUT, default=5s"`
}

// AuthorizationConfig overrides the capability required per endpoint.
// A value of "-" removes the requirement.
type AuthorizationConfig struct {
	Endpoints map[string]string `mapstructure:"endpoints" env:"AUTHORIZATION_ENDPOINTS"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"METRICS_ENABLED, default=true"`
	Path    string `mapstructure:"path" env:"METRICS_PATH, default=/metrics"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LOG_LEVEL, default=info"`
	Format string `mapstructure:"format" env:"LOG_FORMAT, default=json"`
}

// LoadConfigFromEnv builds the configuration from environment variables (container deployments).
func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Journal.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("journal config: %v", err))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis config: addr is required when redis is enabled")
	}

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, "observability config: metrics path must start with /")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if c.JWTAccessSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("jwt access and refresh secrets are required")
	}
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("jwt access and refresh secrets must differ")
	}
	if c.BCryptCost < bcrypt.MinCost || c.BCryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ResetPasswordLength < 8 {
		return errors.New("reset_password_length must be at least 8")
	}
	return nil
}

func (c *JournalConfig) Validate() error {
	if c.ConsultationWindow < 0 {
		return errors.New("consultation_window cannot be negative")
	}
	return nil
}
