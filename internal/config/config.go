package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         string   `env:"PORT" envDefault:"8080"`
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
	LogstashAddr string   `env:"LOGSTASH_TCP_ADDR"`
	SwaggerSpec  string   `env:"SWAGGER_SPEC_PATH" envDefault:"docs/swagger.yaml"`

	Database   DatabaseConfig `envPrefix:"DATABASE_"`
	Session    SessionConfig
	Device     DeviceConfig     `envPrefix:"DEVICE_COOKIE_"`
	MinIO      MinIOConfig      `envPrefix:"MINIO_"`
	Upload     UploadConfig     `envPrefix:"UPLOAD_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	Submission SubmissionConfig `envPrefix:"SUBMISSION_"`
}

type DatabaseConfig struct {
	Driver       string `env:"DRIVER" envDefault:"pgx"`
	URL          string `env:"URL,required"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET,required"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"60m"`
	CookieName   string        `env:"SESSION_COOKIE_NAME" envDefault:"session_token"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
}

type DeviceConfig struct {
	CookieName string        `env:"NAME" envDefault:"ek_device_id"`
	TTL        time.Duration `env:"TTL" envDefault:"8760h"`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
	Bucket    string `env:"BUCKET" envDefault:"explore-karawang"`
	PublicURL string `env:"PUBLIC_URL"`
}

// Enabled reports whether uploads can be served.
func (c MinIOConfig) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

type UploadConfig struct {
	MaxBytes     int64 `env:"MAX_BYTES" envDefault:"5242880"`
	MaxDimension int   `env:"MAX_DIMENSION" envDefault:"2048"`
	MaxPixels    int64 `env:"MAX_PIXELS" envDefault:"40000000"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Enabled reports whether submission throttling is backed by Redis.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type SubmissionConfig struct {
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"5"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1h"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses configuration from the given variables only.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.AllowOrigins = trimAll(cfg.AllowOrigins)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "pgx", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: DATABASE_DRIVER must be pgx, postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	if c.Upload.MaxBytes <= 0 || c.Upload.MaxDimension <= 0 || c.Upload.MaxPixels <= 0 {
		return fmt.Errorf("config: UPLOAD_MAX_BYTES, UPLOAD_MAX_DIMENSION and UPLOAD_MAX_PIXELS must be positive")
	}
	return nil
}

func trimAll(input []string) []string {
	out := make([]string, 0, len(input))
	for _, p := range input {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
