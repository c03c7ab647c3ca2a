package jwtauth

import (
	"net/http"
	"strings"

	"google.golang.org/grpc/metadata"
)

// parseBearer splits an Authorization value of the shape "Bearer <token>".
// The scheme comparison is case-insensitive; the token must be non-empty.
func parseBearer(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", newAuthError(ErrMalformed, "invalid authorization header format, expected 'Bearer <token>'", nil)
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", newAuthError(ErrMissingToken, "token is empty", nil)
	}

	return token, nil
}

// extractTokenFromHeader extracts the token from the Authorization header
func extractTokenFromHeader(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", newAuthError(ErrMissingToken, "authorization header not found", nil)
	}
	return parseBearer(authHeader)
}

// extractTokenFromCookie extracts the token from a cookie
func extractTokenFromCookie(r *http.Request, cookieName string) (string, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", newAuthError(ErrMissingToken, "cookie not found", err)
	}

	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return "", newAuthError(ErrMissingToken, "cookie value is empty", nil)
	}

	return token, nil
}

// extractToken extracts the presented token from an HTTP request.
// Checks the Authorization header first, then falls back to the configured
// cookie. On failure the header error is returned: it is the primary
// credential channel and its code is the one worth logging.
func extractToken(r *http.Request, cfg *Config) (string, error) {
	token, err := extractTokenFromHeader(r)
	if err == nil {
		return token, nil
	}

	if cfg.CookieName() != "" {
		if token, cookieErr := extractTokenFromCookie(r, cfg.CookieName()); cookieErr == nil {
			return token, nil
		}
	}

	return "", err
}

// extractTokenFromMetadata extracts the presented token from gRPC metadata
func extractTokenFromMetadata(md metadata.MD) (string, error) {
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", newAuthError(ErrMissingToken, "authorization metadata not found", nil)
	}
	return parseBearer(values[0])
}
