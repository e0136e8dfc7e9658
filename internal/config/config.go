package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Secret     string `env:"SECRET,notEmpty"`

	PostgresqlURL string `env:"POSTGRESQL_URL,notEmpty"`
	RedisURL      string `env:"REDIS_URL,notEmpty"`
	RabbitmqURL   string `env:"RABBITMQ_URL"`

	HTTPAddress    string   `env:"HTTP_ADDRESS" envDefault:"0.0.0.0:9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	BcryptHasherCost  int `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"8"`

	// TokenExpiryHours accepts fractional values, e.g. 0.5 for 30 minutes.
	TokenExpiryHours      float64 `env:"TOKEN_EXPIRY_HOURS" envDefault:"24"`
	LookupField           string  `env:"LOOKUP_FIELD" envDefault:"email"`
	NoInformationLeakage  bool    `env:"NO_INFORMATION_LEAKAGE" envDefault:"false"`
	RequireUsablePassword bool    `env:"REQUIRE_USABLE_PASSWORD" envDefault:"true"`

	TokenGenerator string `env:"TOKEN_GENERATOR" envDefault:"random_string"`
	TokenMinLength int    `env:"TOKEN_MIN_LENGTH" envDefault:"10"`
	TokenMaxLength int    `env:"TOKEN_MAX_LENGTH" envDefault:"50"`
	TokenMinNumber int    `env:"TOKEN_MIN_NUMBER" envDefault:"10000"`
	TokenMaxNumber int    `env:"TOKEN_MAX_NUMBER" envDefault:"99999"`

	// RequestRateLimit is parsed as "<count>/<min|hour|day>". A value that
	// does not parse falls back to the default at wiring time.
	RequestRateLimit string `env:"REQUEST_RATE_LIMIT" envDefault:"3/day"`

	UserAgentHeader string `env:"USER_AGENT_HEADER" envDefault:"User-Agent"`
	IPHeader        string `env:"IP_HEADER" envDefault:"X-Forwarded-For"`

	AccountDetailsOnValidate bool `env:"ACCOUNT_DETAILS_ON_VALIDATE" envDefault:"false"`

	EmailSender        string  `env:"EMAIL_SENDER"`
	ResetEmailTemplate string  `env:"RESET_EMAIL_TEMPLATE" envDefault:"password-reset"`
	ResetPageBaseURL   url.URL `env:"RESET_PAGE_BASE_URL" envDefault:"http://localhost:3000/reset-password"`

	CredentialEventsExchange   string `env:"CREDENTIAL_EVENTS_EXCHANGE" envDefault:"credential.events"`
	CredentialEventsRoutingKey string `env:"CREDENTIAL_EVENTS_ROUTING_KEY" envDefault:"password.reset"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	if cfg.LookupField != "email" && cfg.LookupField != "username" {
		return nil, fmt.Errorf("invalid LOOKUP_FIELD value: %s", cfg.LookupField)
	}
	if cfg.TokenExpiryHours <= 0 {
		return nil, fmt.Errorf("TOKEN_EXPIRY_HOURS must be positive")
	}
	return cfg, nil
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.TokenExpiryHours * float64(time.Hour))
}
