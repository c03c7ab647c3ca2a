package jwtauth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignClaims encodes claims into a signed token string using the configured
// signing key. Zero-valued timestamps are stamped from the wall clock and
// the configured TTL; an empty JWTID is filled with a fresh uuid. The input
// claims are not mutated.
//
// Fails only when the configuration is validation-only (no signing key) or
// the underlying signing operation fails.
func (c *Config) SignClaims(claims *Claims) (string, error) {
	if c.signer == nil {
		return "", newAuthError(ErrConfigError, "configuration is validation-only, no signing key available", nil)
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = issuedAt.Add(c.tokenTTL)
	}
	if !expiresAt.After(issuedAt) {
		return "", newAuthError(ErrConfigError, "claims expiration must be after issue time", nil)
	}
	jwtID := claims.JWTID
	if jwtID == "" {
		jwtID = uuid.New().String()
	}
	issuer := claims.Issuer
	if issuer == "" {
		issuer = c.issuer
	}
	audience := claims.Audience
	if audience == "" {
		audience = c.audience
	}

	mapClaims := jwt.MapClaims{
		"sub": claims.Subject,
		"iat": issuedAt.Unix(),
		"exp": expiresAt.Unix(),
		"jti": jwtID,
	}
	if issuer != "" {
		mapClaims["iss"] = issuer
	}
	if audience != "" {
		mapClaims["aud"] = audience
	}
	if !claims.NotBefore.IsZero() {
		mapClaims["nbf"] = claims.NotBefore.Unix()
	}
	if len(claims.Roles) > 0 {
		mapClaims["roles"] = claims.Roles
	}
	for key, value := range claims.Custom {
		if !standardClaimNames[key] {
			mapClaims[key] = value
		}
	}

	token := jwt.NewWithClaims(c.signer.method, mapClaims)
	signed, err := token.SignedString(c.signer.key)
	if err != nil {
		return "", newAuthError(ErrConfigError, "token signing failed", err)
	}

	return signed, nil
}
