package jwtauth

import (
	"crypto/rsa"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// algorithmValidator holds verification key and method for a specific algorithm
type algorithmValidator struct {
	verifyKey     any               // []byte for HS256, *rsa.PublicKey for RS256
	signingMethod jwt.SigningMethod // jwt.SigningMethodHS256 or jwt.SigningMethodRS256
}

// tokenSigner holds the key material used to issue tokens. At most one
// signer is configured; validation may still accept additional algorithms.
type tokenSigner struct {
	alg    string
	key    any // []byte for HS256, *rsa.PrivateKey for RS256
	method jwt.SigningMethod
}

// Config holds immutable configuration for token issuing and validation.
// It is built once at process startup and is safe for concurrent use: all
// fields are read-only after NewConfig returns.
type Config struct {
	validators      map[string]algorithmValidator // "HS256" -> validator, "RS256" -> validator
	signer          *tokenSigner
	tokenTTL        time.Duration
	issuer          string
	audience        string
	clockSkewLeeway time.Duration
	cookieName      string
	requiredClaims  []string
	logger          *slog.Logger
}

// ConfigOption is a functional option for building a Config
type ConfigOption func(*Config) error

// NewConfig creates a new immutable configuration with the given options
func NewConfig(opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		validators:      make(map[string]algorithmValidator),
		tokenTTL:        time.Hour,        // Default validity window
		clockSkewLeeway: 60 * time.Second, // Default 60 seconds
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, newAuthError(ErrConfigError, fmt.Sprintf("configuration error: %v", err), err)
		}
	}

	if len(cfg.validators) == 0 {
		return nil, newAuthError(ErrConfigError, "at least one algorithm must be configured (use WithHS256, WithRS256, or WithRS256KeyPair)", nil)
	}

	// Reject "none" algorithm variants
	for alg := range cfg.validators {
		if alg == "none" || alg == "None" || alg == "NONE" {
			return nil, newAuthError(ErrConfigError, "none algorithm is prohibited", nil)
		}
	}

	for alg, validator := range cfg.validators {
		if validator.verifyKey == nil {
			return nil, newAuthError(ErrConfigError, fmt.Sprintf("verification key for %s cannot be nil", alg), nil)
		}
		if validator.signingMethod == nil {
			return nil, newAuthError(ErrConfigError, fmt.Sprintf("signing method for %s cannot be nil", alg), nil)
		}
	}

	return cfg, nil
}

// WithHS256 configures HMAC-SHA256 with the given shared secret. The secret
// is used both to verify presented tokens and, unless an RS256 key pair is
// also configured, to sign issued tokens.
func WithHS256(secret []byte) ConfigOption {
	return func(c *Config) error {
		if len(secret) < 32 {
			return fmt.Errorf("HS256 secret must be at least 32 bytes (256 bits), got %d bytes", len(secret))
		}
		c.validators["HS256"] = algorithmValidator{
			verifyKey:     secret,
			signingMethod: jwt.SigningMethodHS256,
		}
		if c.signer == nil {
			c.signer = &tokenSigner{alg: "HS256", key: secret, method: jwt.SigningMethodHS256}
		}
		return nil
	}
}

// WithRS256 configures RSA-SHA256 validation with the given public key.
// Validation only: tokens cannot be issued without the private key.
func WithRS256(publicKey *rsa.PublicKey) ConfigOption {
	return func(c *Config) error {
		if publicKey == nil {
			return fmt.Errorf("RS256 public key cannot be nil")
		}
		c.validators["RS256"] = algorithmValidator{
			verifyKey:     publicKey,
			signingMethod: jwt.SigningMethodRS256,
		}
		return nil
	}
}

// WithRS256KeyPair configures RSA-SHA256 signing and validation from the
// given private key. Issued tokens are signed RS256 even if HS256 is also
// configured for validating tokens from other issuers.
func WithRS256KeyPair(privateKey *rsa.PrivateKey) ConfigOption {
	return func(c *Config) error {
		if privateKey == nil {
			return fmt.Errorf("RS256 private key cannot be nil")
		}
		c.validators["RS256"] = algorithmValidator{
			verifyKey:     &privateKey.PublicKey,
			signingMethod: jwt.SigningMethodRS256,
		}
		c.signer = &tokenSigner{alg: "RS256", key: privateKey, method: jwt.SigningMethodRS256}
		return nil
	}
}

// WithTokenTTL sets the validity window applied to issued tokens
func WithTokenTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) error {
		if ttl <= 0 {
			return fmt.Errorf("token TTL must be positive, got %v", ttl)
		}
		c.tokenTTL = ttl
		return nil
	}
}

// WithIssuer sets the iss claim stamped on issued tokens
func WithIssuer(issuer string) ConfigOption {
	return func(c *Config) error {
		c.issuer = issuer
		return nil
	}
}

// WithAudience sets the aud claim stamped on issued tokens
func WithAudience(audience string) ConfigOption {
	return func(c *Config) error {
		c.audience = audience
		return nil
	}
}

// WithClockSkew sets the clock skew tolerance for exp/nbf validation
func WithClockSkew(skew time.Duration) ConfigOption {
	return func(c *Config) error {
		if skew < 0 {
			return fmt.Errorf("clock skew must be non-negative, got %v", skew)
		}
		c.clockSkewLeeway = skew
		return nil
	}
}

// WithCookie enables token extraction from a cookie with the given name
func WithCookie(cookieName string) ConfigOption {
	return func(c *Config) error {
		c.cookieName = cookieName
		return nil
	}
}

// WithLogger sets a structured logger for security events
func WithLogger(logger *slog.Logger) ConfigOption {
	return func(c *Config) error {
		c.logger = logger
		return nil
	}
}

// WithRequiredClaims specifies claim names that must be present in the token
func WithRequiredClaims(claims ...string) ConfigOption {
	return func(c *Config) error {
		c.requiredClaims = append(c.requiredClaims, claims...)
		return nil
	}
}

// AvailableAlgorithms returns a sorted list of algorithms accepted during validation
func (c *Config) AvailableAlgorithms() []string {
	algs := make([]string, 0, len(c.validators))
	for alg := range c.validators {
		algs = append(algs, alg)
	}
	sort.Strings(algs)
	return algs
}

// SigningAlgorithm returns the algorithm used for issued tokens, or "" if
// the configuration is validation-only.
func (c *Config) SigningAlgorithm() string {
	if c.signer == nil {
		return ""
	}
	return c.signer.alg
}

// getValidator retrieves the validator for a given algorithm
func (c *Config) getValidator(alg string) (algorithmValidator, bool) {
	validator, exists := c.validators[alg]
	return validator, exists
}

func (c *Config) TokenTTL() time.Duration {
	return c.tokenTTL
}

func (c *Config) Issuer() string {
	return c.issuer
}

func (c *Config) Audience() string {
	return c.audience
}

func (c *Config) ClockSkewLeeway() time.Duration {
	return c.clockSkewLeeway
}

func (c *Config) CookieName() string {
	return c.cookieName
}

func (c *Config) RequiredClaims() []string {
	return c.requiredClaims
}

func (c *Config) Logger() *slog.Logger {
	return c.logger
}
