package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManagerGenerateAndParse(t *testing.T) {
	manager := NewJWTManager("top-secret", time.Minute)

	userID := uuid.New()
	tokenID := uuid.New()
	token, expiresAt, err := manager.Generate(userID, "admin", "admin", tokenID)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token to be non-empty")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatalf("expected expiry in the future")
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "admin" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != tokenID.String() {
		t.Fatalf("expected jti %s, got %s", tokenID, claims.ID)
	}
}

func TestJWTManagerParseExpiredToken(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)
	issued := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, _, err := manager.Generate(uuid.New(), "admin", "admin", uuid.New())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }

	if _, err := manager.Parse(token); err == nil {
		t.Fatalf("expected parse error for expired token")
	}
}

func TestJWTManagerRejectsForeignSecret(t *testing.T) {
	token, _, err := NewJWTManager("one", time.Minute).Generate(uuid.New(), "admin", "admin", uuid.New())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := NewJWTManager("two", time.Minute).Parse(token); err == nil {
		t.Fatalf("expected signature error")
	}
}
