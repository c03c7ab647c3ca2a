package jwtauth

import "time"

// Claims is the decoded identity payload carried by a token. Instances
// produced by validation are immutable: they are attached to the request
// context and must not be modified by downstream handlers.
type Claims struct {
	Subject   string         // User or client identifier (sub claim)
	Issuer    string         // Token issuer (iss claim)
	Audience  string         // Intended audience (aud claim)
	ExpiresAt time.Time      // Expiration time (exp claim)
	NotBefore time.Time      // Not-before time (nbf claim)
	IssuedAt  time.Time      // Issue time (iat claim)
	JWTID     string         // JWT ID (jti claim)
	Roles     []string       // Granted roles (roles claim)
	Custom    map[string]any // Custom application-specific claims
}

// HasRole reports whether the claims grant the given role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CustomString returns a custom claim as a string, or "" if the claim is
// absent or not a string.
func (c *Claims) CustomString(key string) string {
	if v, ok := c.Custom[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
