package jwtauth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestAlgorithmRouting tests that tokens are routed to the validator
// matching their declared algorithm
func TestAlgorithmRouting(t *testing.T) {
	hs256Secret := make([]byte, 32)
	rand.Read(hs256Secret)

	rs256PrivateKey, _ := rsa.GenerateKey(rand.Reader, 2048)
	rs256PublicKey := &rs256PrivateKey.PublicKey

	cfg, err := NewConfig(
		WithHS256(hs256Secret),
		WithRS256(rs256PublicKey),
	)
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	tests := []struct {
		name          string
		signingKey    any
		signingMethod jwt.SigningMethod
	}{
		{
			name:          "HS256 token routes to HS256 validator",
			signingKey:    hs256Secret,
			signingMethod: jwt.SigningMethodHS256,
		},
		{
			name:          "RS256 token routes to RS256 validator",
			signingKey:    rs256PrivateKey,
			signingMethod: jwt.SigningMethodRS256,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := jwt.MapClaims{
				"sub": "user123",
				"exp": time.Now().Add(1 * time.Hour).Unix(),
			}
			tokenString, err := jwt.NewWithClaims(tt.signingMethod, claims).SignedString(tt.signingKey)
			if err != nil {
				t.Fatalf("Failed to sign token: %v", err)
			}

			decoded, err := cfg.ValidateToken(tokenString)
			if err != nil {
				t.Fatalf("Expected successful validation, got %v", err)
			}
			if decoded.Subject != "user123" {
				t.Errorf("Expected subject user123, got %s", decoded.Subject)
			}
		})
	}
}

// TestValidateTokenFailures tests the decode error taxonomy
func TestValidateTokenFailures(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	cfg, err := NewConfig(WithHS256(secret), WithClockSkew(0))
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	makeToken := func(claims jwt.MapClaims, key []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		if err != nil {
			t.Fatalf("Failed to sign token: %v", err)
		}
		return s
	}

	wrongSecret := make([]byte, 32)
	rand.Read(wrongSecret)

	tests := []struct {
		name         string
		token        string
		expectedCode ErrorCode
	}{
		{
			name:         "garbage string is malformed",
			token:        "not-a-jwt-at-all",
			expectedCode: ErrMalformed,
		},
		{
			name:         "two segments is malformed",
			token:        "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJhIn0",
			expectedCode: ErrMalformed,
		},
		{
			name: "expired token",
			token: makeToken(jwt.MapClaims{
				"sub": "user123",
				"exp": time.Now().Add(-1 * time.Hour).Unix(),
			}, secret),
			expectedCode: ErrExpired,
		},
		{
			name: "wrong secret",
			token: makeToken(jwt.MapClaims{
				"sub": "user123",
				"exp": time.Now().Add(1 * time.Hour).Unix(),
			}, wrongSecret),
			expectedCode: ErrInvalidSignature,
		},
		{
			name: "not yet valid (nbf in the future)",
			token: makeToken(jwt.MapClaims{
				"sub": "user123",
				"exp": time.Now().Add(2 * time.Hour).Unix(),
				"nbf": time.Now().Add(1 * time.Hour).Unix(),
			}, secret),
			expectedCode: ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfg.ValidateToken(tt.token)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			authErr, ok := err.(*AuthError)
			if !ok {
				t.Fatalf("Expected AuthError, got %T: %v", err, err)
			}
			if authErr.Code != tt.expectedCode {
				t.Errorf("Expected code %s, got %s", tt.expectedCode, authErr.Code)
			}
		})
	}
}

// TestClaimsDecoding tests mapping of standard, roles, and custom claims
func TestClaimsDecoding(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	cfg, err := NewConfig(WithHS256(secret))
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub":     "user123",
		"iss":     "authgate",
		"aud":     "api",
		"jti":     "token-id-1",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
		"roles":   []string{"admin", "user"},
		"email":   "user@example.com",
		"company": "ACME",
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	claims, err := cfg.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("Validation failed: %v", err)
	}

	if claims.Subject != "user123" {
		t.Errorf("Expected subject user123, got %s", claims.Subject)
	}
	if claims.Issuer != "authgate" {
		t.Errorf("Expected issuer authgate, got %s", claims.Issuer)
	}
	if claims.Audience != "api" {
		t.Errorf("Expected audience api, got %s", claims.Audience)
	}
	if claims.JWTID != "token-id-1" {
		t.Errorf("Expected jti token-id-1, got %s", claims.JWTID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" || claims.Roles[1] != "user" {
		t.Errorf("Expected roles [admin user], got %v", claims.Roles)
	}
	if !claims.HasRole("admin") {
		t.Error("Expected HasRole(admin) to be true")
	}
	if claims.HasRole("superuser") {
		t.Error("Expected HasRole(superuser) to be false")
	}
	if claims.CustomString("email") != "user@example.com" {
		t.Errorf("Expected custom email claim, got %q", claims.CustomString("email"))
	}
	if claims.CustomString("company") != "ACME" {
		t.Errorf("Expected custom company claim, got %q", claims.CustomString("company"))
	}
	if _, ok := claims.Custom["sub"]; ok {
		t.Error("Standard claims must not leak into Custom")
	}
	if claims.ExpiresAt.Unix() != now.Add(time.Hour).Unix() {
		t.Errorf("Expected exp %d, got %d", now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	}
}

// TestRequiredClaims tests the required-claims configuration
func TestRequiredClaims(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	cfg, err := NewConfig(
		WithHS256(secret),
		WithRequiredClaims("sub", "email"),
	)
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	tests := []struct {
		name      string
		claims    jwt.MapClaims
		expectErr bool
	}{
		{
			name: "all required claims present",
			claims: jwt.MapClaims{
				"sub":   "user123",
				"email": "user@example.com",
				"exp":   time.Now().Add(time.Hour).Unix(),
			},
			expectErr: false,
		},
		{
			name: "missing email claim",
			claims: jwt.MapClaims{
				"sub": "user123",
				"exp": time.Now().Add(time.Hour).Unix(),
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString(secret)
			if err != nil {
				t.Fatalf("Failed to sign token: %v", err)
			}

			_, err = cfg.ValidateToken(tokenString)
			if tt.expectErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Expected success, got %v", err)
			}
		})
	}
}

// TestClockSkewLeeway tests that a just-expired token within the leeway
// still validates
func TestClockSkewLeeway(t *testing.T) {
	secret := make([]byte, 32)
	rand.Read(secret)

	cfg, err := NewConfig(WithHS256(secret), WithClockSkew(2*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user123",
		"exp": time.Now().Add(-30 * time.Second).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	if _, err := cfg.ValidateToken(tokenString); err != nil {
		t.Errorf("Expected token within leeway to validate, got %v", err)
	}
}
