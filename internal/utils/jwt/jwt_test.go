package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndVerify(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	token, err := GenerateAccessToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := VerifyToken(token, secret)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := VerifyToken(token, "wrong-secret"); err == nil {
		t.Errorf("wrong secret should fail verification")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken(uuid.New(), "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	_, err = VerifyToken(token, "secret")
	if err != ErrExpiredToken {
		t.Errorf("error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token", "secret"); err == nil {
		t.Errorf("garbage token should fail verification")
	}
}
