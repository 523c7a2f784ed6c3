package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port                   int    `env:"PORT" envDefault:"8080"`
	DatabaseURL            string `env:"DATABASE_URL,required"`
	RedisURL               string `env:"REDIS_URL,required"`
	SessionSecret          string `env:"SESSION_SECRET"`
	SessionTTLHours        int    `env:"SESSION_TTL_HOURS" envDefault:"72"`
	RecoverySessionTTLMins int    `env:"RECOVERY_SESSION_TTL_MINUTES" envDefault:"30"`
	PasswordResetBaseURL   string `env:"PASSWORD_RESET_BASE_URL" envDefault:""`
	ProfileRetryAttempts   int    `env:"PROFILE_RETRY_ATTEMPTS" envDefault:"4"`
	ProfileRetryBaseMillis int    `env:"PROFILE_RETRY_BASE_MILLIS" envDefault:"500"`
	LogLevel               string `env:"LOG_LEVEL" envDefault:"info"`
	RunMigrations          bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) RecoverySessionTTL() time.Duration {
	return time.Duration(c.RecoverySessionTTLMins) * time.Minute
}

func (c *Config) ProfileRetryBase() time.Duration {
	return time.Duration(c.ProfileRetryBaseMillis) * time.Millisecond
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate(isProduction bool) error {
	if c.ProfileRetryAttempts < 0 || c.ProfileRetryAttempts > 10 {
		return fmt.Errorf("PROFILE_RETRY_ATTEMPTS must be between 0 and 10")
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if c.PasswordResetBaseURL == "" {
			log.Warn().Msg("PASSWORD_RESET_BASE_URL is empty in production: password reset links will have no target")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
