package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", 15*time.Minute)

	userID := uuid.New()
	token, err := CreateToken(userID)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	got, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if got != userID {
		t.Errorf("subject mismatch: got %s, want %s", got, userID)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	ConfigureJWT("test-secret", 15*time.Minute)

	if _, err := ValidateToken("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	ConfigureJWT("first-secret", 15*time.Minute)
	token, err := CreateToken(uuid.New())
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	ConfigureJWT("second-secret", 15*time.Minute)
	if _, err := ValidateToken(token); err != ErrTokenInvalid {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	ConfigureJWT("test-secret", time.Nanosecond)
	token, err := CreateToken(uuid.New())
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := ValidateToken(token); err != ErrTokenInvalid {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestConfigureJWT_TTL(t *testing.T) {
	ConfigureJWT("test-secret", 30*time.Minute)
	if TokenTTL() != 30*time.Minute {
		t.Errorf("got %v, want 30m", TokenTTL())
	}
}
