package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"legacy.db"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"your-secret-key-change-in-production"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// Wizard drafts are kept in memory when RedisAddr is empty.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	UploadsDir    string `envconfig:"UPLOADS_DIR" default:"uploads"`
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`

	FCMServiceAccount string `envconfig:"FCM_SERVICE_ACCOUNT"`

	LoginMaxAttempts int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"5"`
	LoginWindow      time.Duration `envconfig:"LOGIN_WINDOW" default:"15m"`

	WizardDebounce time.Duration `envconfig:"WIZARD_DEBOUNCE" default:"500ms"`
	CORSOrigins    string        `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.PublicBaseURL = strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if cfg.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("load config: LOGIN_MAX_ATTEMPTS must be positive, got %d", cfg.LoginMaxAttempts)
	}
	return &cfg, nil
}
