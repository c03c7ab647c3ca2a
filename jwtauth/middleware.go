package jwtauth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// unauthorizedBody is the single response body for every authentication
// failure. Missing header, bad signature, expiry: a caller cannot tell
// them apart. The distinction is logged, never returned.
var unauthorizedBody = gin.H{"error": "unauthorized"}

// JWTAuth returns a Gin middleware handler gating protected routes. Each
// request moves through extract -> validate -> attach; the first failed
// stage short-circuits with 401 and the wrapped handler never runs.
func JWTAuth(cfg *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// Generate or extract request ID for correlation
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		token, err := extractToken(c.Request, cfg)
		if err != nil {
			logAuthFailure(cfg, requestID, token, err, time.Since(startTime))
			c.AbortWithStatusJSON(401, unauthorizedBody)
			return
		}

		claims, err := cfg.ValidateToken(token)
		if err != nil {
			logAuthFailure(cfg, requestID, token, err, time.Since(startTime))
			c.AbortWithStatusJSON(401, unauthorizedBody)
			return
		}

		// Attach claims and request ID for the protected handler
		ctx := WithClaims(c.Request.Context(), claims)
		ctx = WithRequestID(ctx, requestID)
		c.Request = c.Request.WithContext(ctx)

		logAuthSuccess(cfg, requestID, claims, token, time.Since(startTime))

		c.Next()
	}
}

// loginRequest is the login endpoint wire payload
type loginRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// loginResponse is the login endpoint success payload
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// LoginHandler returns a Gin handler exchanging client credentials for a
// token. A body that does not parse or has empty credential fields is a
// client integration bug and yields 400; failed verification yields the
// same 401 body as the middleware, whatever the underlying reason.
func LoginHandler(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad_request"})
			return
		}
		if req.ClientID == "" || req.ClientSecret == "" {
			c.JSON(400, gin.H{"error": "bad_request"})
			return
		}

		token, claims, err := issuer.Issue(c.Request.Context(), req.ClientID, req.ClientSecret)
		if err != nil {
			c.JSON(401, unauthorizedBody)
			return
		}

		c.JSON(200, loginResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(time.Until(claims.ExpiresAt).Seconds()),
		})
	}
}

// logAuthSuccess logs a successful authentication event
func logAuthSuccess(cfg *Config, requestID string, claims *Claims, token string, latency time.Duration) {
	if cfg.Logger() == nil {
		return
	}

	logSecurityEvent(cfg.Logger(), SecurityEvent{
		EventType:    "success",
		Timestamp:    time.Now(),
		RequestID:    requestID,
		UserID:       claims.Subject,
		Algorithm:    extractAlgorithmFromToken(token),
		TokenPreview: token,
		Latency:      latency,
	})
}

// logAuthFailure logs a failed authentication event
func logAuthFailure(cfg *Config, requestID string, token string, err error, latency time.Duration) {
	if cfg.Logger() == nil {
		return
	}

	logSecurityEvent(cfg.Logger(), SecurityEvent{
		EventType:     "failure",
		Timestamp:     time.Now(),
		RequestID:     requestID,
		Algorithm:     extractAlgorithmFromToken(token),
		FailureReason: errorCode(err),
		TokenPreview:  token,
		Latency:       latency,
	})
}

// extractAlgorithmFromToken reads the algorithm out of a token header for
// logging. Returns "MALFORMED" when the header does not decode; the token
// is being logged as invalid in that case anyway.
func extractAlgorithmFromToken(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return "MALFORMED"
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "MALFORMED"
	}

	var header map[string]any
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return "MALFORMED"
	}

	if alg, ok := header["alg"].(string); ok {
		return alg
	}

	return "MALFORMED"
}
