package jwtauth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Issuer exchanges client credentials for signed tokens. It is stateless
// beyond its two dependencies: the injected CredentialVerifier and the
// immutable Config used for encoding.
type Issuer struct {
	cfg      *Config
	verifier CredentialVerifier
}

// NewIssuer creates an Issuer. The config must be signing-capable
// (see Config.SignClaims).
func NewIssuer(cfg *Config, verifier CredentialVerifier) (*Issuer, error) {
	if cfg == nil {
		return nil, newAuthError(ErrConfigError, "config is required", nil)
	}
	if cfg.signer == nil {
		return nil, newAuthError(ErrConfigError, "config is validation-only, issuing requires a signing key", nil)
	}
	if verifier == nil {
		return nil, newAuthError(ErrConfigError, "credential verifier is required", nil)
	}
	return &Issuer{cfg: cfg, verifier: verifier}, nil
}

// Issue verifies the presented credentials and mints a token for the
// verified identity. Every verifier failure collapses into the single
// INVALID_CREDENTIALS code: callers cannot tell an unknown identifier from
// a wrong secret, which keeps credential enumeration off the table.
func (i *Issuer) Issue(ctx context.Context, clientID, clientSecret string) (string, *Claims, error) {
	identity, err := i.verifier.VerifyCredentials(ctx, clientID, clientSecret)
	if err != nil || identity == nil || identity.Subject == "" {
		i.logLoginFailure(clientID, err)
		return "", nil, newAuthError(ErrInvalidCredentials, "invalid client credentials", err)
	}

	now := time.Now()
	claims := &Claims{
		Subject:   identity.Subject,
		Issuer:    i.cfg.Issuer(),
		Audience:  i.cfg.Audience(),
		IssuedAt:  now,
		ExpiresAt: now.Add(i.cfg.TokenTTL()),
		JWTID:     uuid.New().String(),
		Roles:     identity.Roles,
		Custom:    identity.Custom,
	}

	token, err := i.cfg.SignClaims(claims)
	if err != nil {
		return "", nil, err
	}

	i.logLoginSuccess(claims, token)
	return token, claims, nil
}

// Config returns the configuration the issuer encodes with
func (i *Issuer) Config() *Config {
	return i.cfg
}

func (i *Issuer) logLoginFailure(clientID string, err error) {
	logger := i.cfg.Logger()
	if logger == nil {
		return
	}
	event := SecurityEvent{
		EventType:     "login_failure",
		Timestamp:     time.Now(),
		ClientID:      clientID,
		FailureReason: string(ErrInvalidCredentials),
	}
	if err != nil {
		event.FailureReason = errorCode(err)
	}
	logSecurityEvent(logger, event)
}

func (i *Issuer) logLoginSuccess(claims *Claims, token string) {
	logger := i.cfg.Logger()
	if logger == nil {
		return
	}
	logSecurityEvent(logger, SecurityEvent{
		EventType:    "login_success",
		Timestamp:    time.Now(),
		ClientID:     claims.Subject,
		UserID:       claims.Subject,
		TokenPreview: token,
	})
}
