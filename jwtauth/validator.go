package jwtauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidateToken parses and validates a token string, returning the decoded
// claims. It reads only the immutable configuration and the wall clock, so
// it is safe to call concurrently from any number of requests.
func (c *Config) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Route the token to the validator for its declared algorithm
		return resolveVerifyKey(token, c)
	}, jwt.WithLeeway(c.clockSkewLeeway))

	if err != nil {
		// The JWT library may wrap the error returned from the keyfunc;
		// unwrap so algorithm-policy codes survive intact.
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, authErr
		}

		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, newAuthError(ErrExpired, "token has expired", err)
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, newAuthError(ErrExpired, "token not valid yet", err)
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, newAuthError(ErrInvalidSignature, "signature verification failed", err)
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, newAuthError(ErrMalformed, "malformed token", err)
		}

		if strings.Contains(err.Error(), "signature") {
			return nil, newAuthError(ErrInvalidSignature, "signature verification failed", err)
		}
		return nil, newAuthError(ErrMalformed, "malformed token", err)
	}

	if !token.Valid {
		return nil, newAuthError(ErrInvalidSignature, "token is invalid", nil)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, newAuthError(ErrMalformed, "invalid claims format", nil)
	}

	claims, err := decodeMapClaims(mapClaims)
	if err != nil {
		return nil, err
	}

	if err := c.checkTimeClaims(claims); err != nil {
		return nil, err
	}

	if err := c.checkRequiredClaims(mapClaims); err != nil {
		return nil, err
	}

	return claims, nil
}

// resolveVerifyKey ensures the token declares a configured algorithm and
// returns the matching verification key.
func resolveVerifyKey(token *jwt.Token, cfg *Config) (any, error) {
	alg, ok := token.Header["alg"].(string)
	if !ok {
		if _, exists := token.Header["alg"]; exists {
			return nil, newAuthError(ErrMalformedAlgorithmHeader, "algorithm header must be a string", nil)
		}
		return nil, newAuthError(ErrMalformed, "missing algorithm in token header", nil)
	}

	// Reject "none" explicitly, before the validator lookup
	if strings.EqualFold(alg, "none") {
		return nil, newAuthError(ErrNoneAlgorithm, "none algorithm not allowed", nil)
	}

	validator, exists := cfg.getValidator(alg)
	if !exists {
		return nil, newAuthError(
			ErrUnsupportedAlgorithm,
			fmt.Sprintf("algorithm %s not supported (available: %s)", alg, strings.Join(cfg.AvailableAlgorithms(), ", ")),
			nil,
		)
	}

	// The declared alg and the actual signing method must agree. This is
	// what blocks algorithm confusion attacks (an RS256 public key used as
	// an HS256 secret).
	if token.Method.Alg() != validator.signingMethod.Alg() {
		return nil, newAuthError(
			ErrInvalidSignature,
			fmt.Sprintf("algorithm confusion detected: token method %s does not match expected method %s",
				token.Method.Alg(), validator.signingMethod.Alg()),
			nil,
		)
	}

	return validator.verifyKey, nil
}

// standardClaimNames are lifted into Claims fields; everything else lands
// in Claims.Custom.
var standardClaimNames = map[string]bool{
	"sub": true, "iss": true, "aud": true, "exp": true,
	"nbf": true, "iat": true, "jti": true, "roles": true,
}

// decodeMapClaims converts jwt.MapClaims into the fixed Claims record
func decodeMapClaims(mapClaims jwt.MapClaims) (*Claims, error) {
	claims := &Claims{
		Custom: make(map[string]any),
	}

	if sub, ok := mapClaims["sub"].(string); ok {
		claims.Subject = sub
	}
	if iss, ok := mapClaims["iss"].(string); ok {
		claims.Issuer = iss
	}
	if aud, ok := mapClaims["aud"].(string); ok {
		claims.Audience = aud
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JWTID = jti
	}

	// JSON arrays decode as []any; tolerate a single string too
	switch roles := mapClaims["roles"].(type) {
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, s)
			}
		}
	case string:
		claims.Roles = []string{roles}
	}

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if nbf, err := mapClaims.GetNotBefore(); err == nil && nbf != nil {
		claims.NotBefore = nbf.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}

	for key, value := range mapClaims {
		if !standardClaimNames[key] {
			claims.Custom[key] = value
		}
	}

	return claims, nil
}

// checkTimeClaims validates exp/nbf against the wall clock with the
// configured skew leeway.
func (c *Config) checkTimeClaims(claims *Claims) error {
	now := time.Now()
	skew := c.ClockSkewLeeway()

	if !claims.ExpiresAt.IsZero() {
		if now.After(claims.ExpiresAt.Add(skew)) {
			return newAuthError(ErrExpired, fmt.Sprintf("token expired at %v", claims.ExpiresAt), nil)
		}
	}

	if !claims.NotBefore.IsZero() {
		if now.Before(claims.NotBefore.Add(-skew)) {
			return newAuthError(ErrExpired, fmt.Sprintf("token not valid until %v", claims.NotBefore), nil)
		}
	}

	return nil
}

// checkRequiredClaims ensures all configured required claims are present
func (c *Config) checkRequiredClaims(mapClaims jwt.MapClaims) error {
	for _, claimName := range c.RequiredClaims() {
		if _, ok := mapClaims[claimName]; !ok {
			return newAuthError(ErrMalformed, fmt.Sprintf("required claim missing: %s", claimName), nil)
		}
	}
	return nil
}
