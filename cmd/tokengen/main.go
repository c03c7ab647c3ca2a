package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/acme/authgate/jwtauth"
)

func main() {
	var (
		secret  = flag.String("secret", "your-256-bit-secret-key-min-32-bytes-here-for-demo!", "Secret key (minimum 32 bytes)")
		subject = flag.String("sub", "user123", "Subject (user ID)")
		email   = flag.String("email", "user@example.com", "Email address")
		roles   = flag.String("roles", "user", "Comma-separated roles")
		issuer  = flag.String("issuer", "authgate", "Token issuer")
		ttl     = flag.Duration("ttl", time.Hour, "Token validity window")
	)

	flag.Parse()

	cfg, err := jwtauth.NewConfig(
		jwtauth.WithHS256([]byte(*secret)),
		jwtauth.WithIssuer(*issuer),
		jwtauth.WithTokenTTL(*ttl),
	)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	now := time.Now()
	claims := &jwtauth.Claims{
		Subject:   *subject,
		IssuedAt:  now,
		NotBefore: now,
		ExpiresAt: now.Add(*ttl),
		Roles:     strings.Split(*roles, ","),
		Custom:    map[string]any{"email": *email},
	}

	token, err := cfg.SignClaims(claims)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println("\n=== Token Generated ===")
	fmt.Printf("\nToken: %s\n\n", token)
	fmt.Println("Claims:")
	fmt.Printf("  Subject: %s\n", *subject)
	fmt.Printf("  Email:   %s\n", *email)
	fmt.Printf("  Roles:   %s\n", *roles)
	fmt.Printf("  Expires: %s\n\n", claims.ExpiresAt.Format(time.RFC3339))
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/protected/profile\n\n", token)
}
