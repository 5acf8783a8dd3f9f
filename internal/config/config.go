package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	Environment string `env:"APP_ENV,default=development"`
	HTTPPort    string `env:"HTTP_PORT,default=8080"`
	AppBaseURL  string `env:"APP_BASE_URL,default=http://localhost:3000"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	DatabaseURL    string `env:"DATABASE_URL"`
	DatabaseDriver string `env:"DATABASE_DRIVER,default=pgx"`

	RedisAddress  string        `env:"REDIS_ADDRESS"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	StepStateTTL  time.Duration `env:"STEP_STATE_TTL,default=24h"`

	RabbitMQURL string `env:"RABBITMQ_URL"`

	PlacesAPIKey  string `env:"GOOGLE_PLACES_API_KEY"`
	PlacesBaseURL string `env:"GOOGLE_PLACES_URL,default=https://maps.googleapis.com/maps/api/place"`

	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL,default=168h"`

	StripeSecretKey   string `env:"STRIPE_SECRET_KEY"`
	StripeBaseURL     string `env:"STRIPE_URL,default=https://api.stripe.com/v1"`
	AutomationHookURL string `env:"AUTOMATION_HOOK_URL"`

	MailHost string `env:"MAIL_HOST"`
	MailPort int    `env:"MAIL_PORT,default=587"`
	MailUser string `env:"MAIL_USER"`
	MailPass string `env:"MAIL_PASS"`
	MailFrom string `env:"MAIL_FROM,default=Rewards Network <no-reply@rewards.local>"`

	PhoneRegion    string `env:"PHONE_REGION,default=US"`
	RateLimitRPS   int    `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int    `env:"RATE_LIMIT_BURST,default=10"`
	CORSOrigins    string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:3000"`
}

// Load reads .env (when present) and decodes the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-only-secret"
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
