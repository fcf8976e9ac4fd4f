package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAdminToken(t *testing.T) {
	tok, err := NewAdminToken("s3cret", "ops", time.Hour)
	if err != nil {
		t.Fatalf("NewAdminToken() = %v", err)
	}
	if time.Until(tok.Exp) <= 59*time.Minute {
		t.Errorf("Exp = %v, want about one hour from now", tok.Exp)
	}

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["role"] != RoleAdmin || claims["sub"] != "ops" {
		t.Errorf("claims = %v", claims)
	}
}

func TestNewAccessToken_WrongSecretFails(t *testing.T) {
	tok, err := NewAccessToken("a", "ops", "ADMIN", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("b"), nil }); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func TestNewAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken("a", "ops", "ADMIN", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("a"), nil }); err == nil {
		t.Error("expired token verified")
	}
}
