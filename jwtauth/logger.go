package jwtauth

import (
	"log/slog"
	"time"
)

// SecurityEvent is a structured security log entry. The internal error
// codes that the HTTP boundary hides live here, so operators can tell an
// expired token from a tampered one. Token values are redacted before
// emission and secrets are never carried at all: login events record the
// attempted client identifier, not the secret.
type SecurityEvent struct {
	EventType     string        // "success", "failure", "login_success", "login_failure"
	Timestamp     time.Time     // Event timestamp
	RequestID     string        // Correlation ID
	ClientID      string        // Attempted client identifier (login events)
	UserID        string        // Subject from claims (empty on failure)
	Algorithm     string        // Algorithm declared by the token
	FailureReason string        // Internal error code (on failure)
	TokenPreview  string        // Redacted token preview
	Latency       time.Duration // Validation latency
}

// LogValue implements slog.LogValuer for structured logging with redaction
func (e SecurityEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("event", e.EventType),
		slog.Time("timestamp", e.Timestamp),
		slog.String("request_id", e.RequestID),
		slog.String("client_id", e.ClientID),
		slog.String("user_id", e.UserID),
		slog.String("algorithm", e.Algorithm),
		slog.String("failure_reason", e.FailureReason),
		slog.String("token", redactToken(e.TokenPreview)),
		slog.Duration("latency", e.Latency),
	)
}

// redactToken redacts sensitive token data
func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

// logSecurityEvent emits a security event via the configured logger
func logSecurityEvent(logger *slog.Logger, event SecurityEvent) {
	if logger == nil {
		return // Logging disabled
	}

	switch event.EventType {
	case "failure", "login_failure":
		logger.Warn("authentication failed", "auth_event", event)
	default:
		logger.Info("authentication succeeded", "auth_event", event)
	}
}
