package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    5,
		Email: "ann@x.com",
		Role:  models.RoleUser,
	}
}

func TestGenerateAndParse_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	user := testUser()

	tok, err := GenerateToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("UserID mismatch: got %d want %d", claims.UserID, user.ID)
	}
	if claims.Email != user.Email {
		t.Fatalf("Email mismatch: got %q want %q", claims.Email, user.Email)
	}
	if claims.Role != string(user.Role) {
		t.Fatalf("Role mismatch: got %q want %q", claims.Role, user.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti claim")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken(testUser(), secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testUser(), []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken(testUser(), secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// Flip a byte somewhere in the payload segment.
	b := []byte(tok)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	_, err = ParseToken(string(b), secret)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken for malformed token, got %v", err)
	}
}
