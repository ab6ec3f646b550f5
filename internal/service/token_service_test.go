package service

import (
	"testing"
	"time"

	"github.com/sk800/ai-interview/config"
)

func newTestTokenService() TokenService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTLMins = 60
	return NewTokenService(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.Sign(42, "jo@example.com")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "jo@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := newTestTokenService()
	if _, err := svc.Parse("not.a.token"); err == nil {
		t.Fatal("Parse() accepted a malformed token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := newTestTokenService()
	token, err := svc.Sign(1, "a@b.c")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	other := &tokenService{secret: []byte("different-secret"), ttl: time.Hour, now: time.Now}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("Parse() accepted a token signed with another secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	past := &tokenService{
		secret: []byte("test-secret"),
		ttl:    time.Minute,
		now:    func() time.Time { return time.Now().Add(-2 * time.Hour) },
	}
	token, err := past.Sign(1, "a@b.c")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := newTestTokenService().Parse(token); err == nil {
		t.Fatal("Parse() accepted an expired token")
	}
}
