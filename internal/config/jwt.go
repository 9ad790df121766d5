package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTIssuer is the iss claim of dashboard tokens.
const DefaultJWTIssuer = "ai-jobs-tracker"

// JWTConfig configures dashboard bearer tokens.
type JWTConfig struct {
	Secret          string
	Issuer          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required), JWT_ISSUER and JWT_EXPIRATION_HOURS
// (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	hours := 24
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		hours = v
	}

	cfg := &JWTConfig{
		Secret:          os.Getenv("JWT_SECRET"),
		Issuer:          GetEnv("JWT_ISSUER", DefaultJWTIssuer),
		ExpirationHours: hours,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the secret and the token lifetime.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return &ValidationError{Field: "JWT_SECRET", Message: "is required"}
	}
	if len(c.Secret) < 16 {
		return &ValidationError{Field: "JWT_SECRET", Message: "must be at least 16 characters"}
	}
	if c.ExpirationHours < 1 {
		return &ValidationError{Field: "JWT_EXPIRATION_HOURS", Message: fmt.Sprintf("must be at least 1 hour, got %d", c.ExpirationHours)}
	}
	return nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
