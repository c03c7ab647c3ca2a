package jwtauth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// Identity is the result of a successful credential verification
type Identity struct {
	Subject string         // Stable identifier stamped into the token subject
	Roles   []string       // Roles granted to this identity
	Custom  map[string]any // Extra claims to embed in issued tokens
}

// CredentialVerifier checks a client identifier and secret against an
// identity store. Implementations may do I/O; the request context is passed
// through for cancellation. The issuer treats any returned error as an
// opaque credential failure, so implementations need not (and should not)
// distinguish unknown identifiers from wrong secrets.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, clientID, clientSecret string) (*Identity, error)
}

// CredentialVerifierFunc adapts a function to the CredentialVerifier interface
type CredentialVerifierFunc func(ctx context.Context, clientID, clientSecret string) (*Identity, error)

func (f CredentialVerifierFunc) VerifyCredentials(ctx context.Context, clientID, clientSecret string) (*Identity, error) {
	return f(ctx, clientID, clientSecret)
}

// HashSecret hashes a client secret for storage with bcrypt
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", newAuthError(ErrInvalidCredentials, "secret cannot be empty", nil)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// StaticVerifier is an in-memory CredentialVerifier backed by bcrypt
// secret hashes. Suitable for demos, tests, and small fixed client sets;
// production systems inject their own CredentialVerifier.
type StaticVerifier struct {
	credentials map[string]staticCredential
	// dummyHash is compared against when the identifier is unknown, so
	// lookup misses and secret mismatches cost the same bcrypt work.
	dummyHash string
}

type staticCredential struct {
	secretHash string
	identity   Identity
}

// NewStaticVerifier creates an empty in-memory verifier. Register is not
// safe to call concurrently with VerifyCredentials: populate the verifier
// during startup, before serving requests.
func NewStaticVerifier() *StaticVerifier {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("authgate-dummy-credential"), bcrypt.DefaultCost)
	return &StaticVerifier{
		credentials: make(map[string]staticCredential),
		dummyHash:   string(dummy),
	}
}

// Register adds a client with the given plaintext secret
func (v *StaticVerifier) Register(clientID, clientSecret string, identity Identity) error {
	hash, err := HashSecret(clientSecret)
	if err != nil {
		return err
	}
	if identity.Subject == "" {
		identity.Subject = clientID
	}
	v.credentials[clientID] = staticCredential{secretHash: hash, identity: identity}
	return nil
}

// VerifyCredentials implements CredentialVerifier. Unknown identifiers and
// wrong secrets return the same error.
func (v *StaticVerifier) VerifyCredentials(ctx context.Context, clientID, clientSecret string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cred, found := v.credentials[clientID]
	hash := cred.secretHash
	if !found {
		hash = v.dummyHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(clientSecret)); err != nil || !found {
		return nil, newAuthError(ErrInvalidCredentials, "invalid client credentials", nil)
	}

	identity := cred.identity
	return &identity, nil
}
