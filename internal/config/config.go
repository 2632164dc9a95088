package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `env:",prefix=SERVER_"`

	// Database configuration
	Database DatabaseConfig `env:",prefix=DB_"`

	// Application configuration
	App AppConfig `env:",prefix=APP_"`

	// Identity provider configuration
	Auth AuthConfig `env:",prefix=AUTH_"`

	// Payment gateway configuration
	Stripe StripeConfig `env:",prefix=STRIPE_"`

	// Transactional email configuration
	Mail MailConfig `env:",prefix=MAIL_"`

	// Object storage configuration
	Storage StorageConfig `env:",prefix=STORAGE_"`

	// Webhook replay guard configuration
	Redis RedisConfig `env:",prefix=REDIS_"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  int      `env:"READ_TIMEOUT,default=30"`  // seconds
	WriteTimeout int      `env:"WRITE_TIMEOUT,default=30"` // seconds
	CORSOrigins  []string `env:"CORS_ORIGINS,default=http://localhost:3000"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=postgres"`
	Password string `env:"PASSWORD,default=postgres"`
	Name     string `env:"NAME,default=hebed"`
	SSLMode  string `env:"SSL_MODE,default=disable"`
	MaxConns int    `env:"MAX_CONNS,default=25"`
	MinConns int    `env:"MIN_CONNS,default=5"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	Debug       bool   `env:"DEBUG,default=false"`
	// PublicURL is the frontend origin used in emails and checkout redirects
	PublicURL string `env:"PUBLIC_URL,default=http://localhost:3000"`
}

// AuthConfig holds the shared secret used to verify identity tokens
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	Issuer    string `env:"ISSUER"`
}

// StripeConfig holds payment gateway credentials
type StripeConfig struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Currency      string `env:"CURRENCY,default=usd"`
	// Prices maps subscription tiers to provider price ids, e.g. "pro:price_123,enterprise:price_456"
	Prices map[string]string `env:"PRICES"`
}

// MailConfig holds SMTP configuration
type MailConfig struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT,default=587"`
	Username  string `env:"USERNAME"`
	Password  string `env:"PASSWORD"`
	From      string `env:"FROM,default=HEBED AI <noreply@hebed.ai>"`
	QueueSize int    `env:"QUEUE_SIZE,default=256"`
}

// StorageConfig holds S3-compatible object storage configuration
type StorageConfig struct {
	Bucket      string `env:"BUCKET"`
	Region      string `env:"REGION,default=us-east-1"`
	EndpointURL string `env:"ENDPOINT_URL"`
	// PublicBaseURL, when set, is used to build public object URLs instead of presigned ones
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	Prefix        string `env:"PREFIX,default=documents"`
}

// RedisConfig holds the optional Redis connection used to deduplicate webhook events
type RedisConfig struct {
	URL string `env:"URL"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith loads configuration from the given lookuper and validates it
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	var result *multierror.Error

	if c.Auth.JWTSecret == "" {
		result = multierror.Append(result, errors.New("AUTH_JWT_SECRET is required"))
	}

	if c.App.IsProduction() {
		if c.Stripe.SecretKey == "" {
			result = multierror.Append(result, errors.New("STRIPE_SECRET_KEY is required in production"))
		}
		if c.Stripe.WebhookSecret == "" {
			result = multierror.Append(result, errors.New("STRIPE_WEBHOOK_SECRET is required in production"))
		}
		if c.Mail.Host == "" {
			result = multierror.Append(result, errors.New("MAIL_HOST is required in production"))
		}
	}

	if c.Mail.QueueSize <= 0 {
		result = multierror.Append(result, errors.Errorf("MAIL_QUEUE_SIZE must be positive, got %d", c.Mail.QueueSize))
	}

	for tier, price := range c.Stripe.Prices {
		if strings.TrimSpace(tier) == "" || strings.TrimSpace(price) == "" {
			result = multierror.Append(result, errors.Errorf("invalid STRIPE_PRICES entry %q:%q", tier, price))
		}
	}

	return result.ErrorOrNil()
}

// GetDatabaseURL returns the PostgreSQL connection URL
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// PriceForTier returns the provider price id configured for a subscription tier
func (c *StripeConfig) PriceForTier(tier string) (string, bool) {
	price, ok := c.Prices[tier]
	return price, ok
}
