package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr          string `env:"APP_ADDR" env-default:":8080"`
	Environment   string `env:"APP_ENV" env-default:"development"`
	DatabaseURL   string `env:"DATABASE_URL"`
	JWTSecret     string `env:"JWT_SECRET"`
	FrontendDir   string `env:"FRONTEND_DIR" env-default:"frontend/dist"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" env-default:"true"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"migrations"`
	MaxBodyBytes  int64  `env:"MAX_BODY_BYTES" env-default:"1048576"`
	// MaxUploadBytes caps multipart bodies such as spreadsheet imports.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" env-default:"20971520"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`

	DataEncryptionKey string `env:"DATA_ENCRYPTION_KEY"`

	// StoreRefreshInterval reloads the in-memory collections periodically; zero disables it.
	StoreRefreshInterval time.Duration `env:"STORE_REFRESH_INTERVAL" env-default:"0s"`

	MetricsEnabled bool `env:"METRICS_ENABLED" env-default:"true"`

	// Remote backend used by the export command.
	BackendURL   string        `env:"BACKEND_URL"`
	BackendToken string        `env:"BACKEND_TOKEN"`
	LoadTimeout  time.Duration `env:"LOAD_TIMEOUT" env-default:"15s"`

	AIEndpoint string `env:"AI_ENDPOINT"`
	AIModel    string `env:"AI_MODEL" env-default:"gpt-4o-mini"`
	AIAPIKey   string `env:"AI_API_KEY"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" env-separator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" env-default:"skills.assignments"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if len(strings.TrimSpace(c.JWTSecret)) < 32 {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.SeedAdminEmail != "" && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be set when SEED_ADMIN_EMAIL is set in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.MaxUploadBytes < c.MaxBodyBytes {
		return fmt.Errorf("MAX_UPLOAD_BYTES must not be smaller than MAX_BODY_BYTES")
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT must be positive")
	}
	if c.StoreRefreshInterval < 0 {
		return fmt.Errorf("STORE_REFRESH_INTERVAL must not be negative")
	}
	if c.AIAPIKey != "" && c.AIEndpoint != "" {
		return fmt.Errorf("set either AI_ENDPOINT or AI_API_KEY, not both")
	}
	return nil
}

// ValidateRemote checks the settings the export command needs.
func (c Config) ValidateRemote() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return fmt.Errorf("BACKEND_URL is required")
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT must be positive")
	}
	return nil
}
