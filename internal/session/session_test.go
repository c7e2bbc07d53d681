package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "user-42",
		"name": "Dana",
		"role": role,
	}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestFromTokenDecodesClaims(t *testing.T) {
	raw := signedToken(t, "company", time.Now().Add(time.Hour))
	s, err := FromToken(raw)
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	if s.UserID != "user-42" {
		t.Fatalf("UserID = %q, want user-42", s.UserID)
	}
	if s.DisplayName != "Dana" {
		t.Fatalf("DisplayName = %q", s.DisplayName)
	}
	if !s.Role.IsCompany() {
		t.Fatalf("Role = %q, want company", s.Role)
	}
	if s.Token != raw {
		t.Fatal("token not retained")
	}
}

func TestFromTokenRejectsExpired(t *testing.T) {
	raw := signedToken(t, "talent", time.Now().Add(-time.Minute))
	if _, err := FromToken(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestFromTokenRejectsUnknownRole(t *testing.T) {
	raw := signedToken(t, "admin", time.Now().Add(time.Hour))
	if _, err := FromToken(raw); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		raw     string
		want    Role
		wantErr bool
	}{
		{"talent", RoleTalent, false},
		{" Company ", RoleCompany, false},
		{"", "", true},
		{"recruiter", "", true},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRole(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSaveAndRestoreRoundTrip(t *testing.T) {
	raw := signedToken(t, "talent", time.Now().Add(time.Hour))
	s, err := FromToken(raw)
	if err != nil {
		t.Fatalf("FromToken: %v", err)
	}
	path := filepath.Join(t.TempDir(), "token")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	restored, err := Restore(path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.UserID != s.UserID || restored.Role != s.Role {
		t.Fatalf("restored session mismatch: %+v", restored)
	}
	if err := Clear(path); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := Restore(path); err == nil {
		t.Fatal("expected error after Clear")
	}
}

func TestRestorePrefersEnvToken(t *testing.T) {
	raw := signedToken(t, "company", time.Now().Add(time.Hour))
	t.Setenv("TALENTBRIDGE_TOKEN", raw)
	s, err := Restore(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Restore from env: %v", err)
	}
	if !s.Role.IsCompany() {
		t.Fatalf("Role = %q", s.Role)
	}
}
