// internal/session/session.go
//
// Session identity for the client. Token issuance and verification belong
// to the API server's identity provider; the client only decodes the
// claims it needs (subject, display name, role, expiry) to pick the right
// dashboard and sign requests.

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned when the stored token's exp claim has passed.
var ErrTokenExpired = errors.New("session: token expired")

// Session is the identity the rest of the client works with.
type Session struct {
	UserID      string
	DisplayName string
	Role        Role
	Token       string
	ExpiresAt   time.Time
}

type bridgeClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// FromToken decodes a bearer token into a Session. Signature verification
// stays server-side; the client parses claims unverified and rejects
// tokens that are expired or carry an unknown role.
func FromToken(raw string) (*Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("session: empty token")
	}
	parser := jwt.NewParser()
	var claims bridgeClaims
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("session: token missing subject")
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, err
	}
	s := &Session{
		UserID:      claims.Subject,
		DisplayName: claims.Name,
		Role:        role,
		Token:       raw,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
		if time.Now().After(s.ExpiresAt) {
			return nil, ErrTokenExpired
		}
	}
	return s, nil
}

// Save persists the bearer token so the next launch can restore the
// session without logging in again.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("session: ensure dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.Token), 0o600); err != nil {
		return fmt.Errorf("session: write token: %w", err)
	}
	return nil
}

// Restore loads a previously saved token and rebuilds the session from
// it. The TALENTBRIDGE_TOKEN environment variable wins over the file.
func Restore(path string) (*Session, error) {
	if raw := strings.TrimSpace(os.Getenv("TALENTBRIDGE_TOKEN")); raw != "" {
		return FromToken(raw)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read token: %w", err)
	}
	return FromToken(strings.TrimSpace(string(data)))
}

// Clear removes the persisted token, logging the user out on next launch.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear token: %w", err)
	}
	return nil
}
