package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret-that-is-at-least-32-chars!"

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "paddock-test")
	userID := uuid.New()

	token, err := m.GenerateToken(userID, 15*time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := m.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != userID {
		t.Errorf("user id: got %v, want %v", got, userID)
	}
}

func TestJWTManager_EmptyToken(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "paddock-test")

	if _, err := m.ValidateToken(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "paddock-test")
	token, err := m.GenerateToken(uuid.New(), -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := "paddock-test"
	m1 := NewJWTManager(testSecret, issuer)
	m2 := NewJWTManager("another-secret-that-is-32-characters!", issuer)

	token, err := m1.GenerateToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m2.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestJWTManager_WrongIssuer(t *testing.T) {
	t.Parallel()

	m1 := NewJWTManager(testSecret, "issuer-a")
	m2 := NewJWTManager(testSecret, "issuer-b")

	token, err := m1.GenerateToken(uuid.New(), time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := m2.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestJWTManager_WrongSigningMethod(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "paddock-test")

	// Token signed with "none" must be rejected.
	claims := jwt.RegisteredClaims{
		Subject: uuid.New().String(),
		Issuer:  "paddock-test",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.ValidateToken(context.Background(), signed); err == nil {
		t.Fatal("expected error for alg=none token")
	}
}

func TestJWTManager_NonUUIDSubject(t *testing.T) {
	t.Parallel()

	m := NewJWTManager(testSecret, "paddock-test")

	claims := jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "paddock-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.ValidateToken(context.Background(), signed); err == nil {
		t.Fatal("expected error for non-UUID subject")
	}
}
