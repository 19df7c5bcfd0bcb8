package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/mkoval/cinetix/internal/domain"
)

const testSecret = "test-secret-please-rotate"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, exp, err := NewAccessToken(testSecret, 42, domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expiry %v is not in the future", exp)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
	if claims.Exp.Unix() != exp.Unix() {
		t.Errorf("Exp = %v, want %v", claims.Exp, exp)
	}
}

func TestParseTokenRejects(t *testing.T) {
	valid, _, err := NewAccessToken(testSecret, 1, domain.RoleGuest, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	expired, _, err := NewAccessToken(testSecret, 1, domain.RoleGuest, -time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other-secret", valid},
		{"expired", testSecret, expired},
		{"garbage", testSecret, "not.a.jwt"},
		{"empty", testSecret, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseToken(tt.secret, tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("want ErrInvalidToken, got %v", err)
			}
		})
	}
}
