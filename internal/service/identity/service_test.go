package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/mocks"
)

func newTestService() (*Service, *mocks.MockCache) {
	cache := mocks.NewMockCache()
	return NewService("test-secret-key", time.Hour, cache, zap.NewNop()), cache
}

func TestIssueAndResolve(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _ := newTestService()

	// Act
	token, err := service.IssueToken("applicant@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	identity, err := service.ResolveIdentity(ctx, token)

	// Assert
	if err != nil {
		t.Fatalf("ResolveIdentity: %v", err)
	}
	if identity != "applicant@example.com" {
		t.Errorf("identity = %q", identity)
	}
}

func TestResolveGarbageToken(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	if _, err := service.ResolveIdentity(ctx, "not-a-jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestResolveWrongSecret(t *testing.T) {
	// Arrange
	ctx := context.Background()
	issuer := NewService("secret-a", time.Hour, mocks.NewMockCache(), zap.NewNop())
	verifier := NewService("secret-b", time.Hour, mocks.NewMockCache(), zap.NewNop())

	token, err := issuer.IssueToken("applicant@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Act / Assert
	if _, err := verifier.ResolveIdentity(ctx, token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestResolveExpiredToken(t *testing.T) {
	// Arrange: negative duration issues an already-expired token.
	ctx := context.Background()
	service := NewService("test-secret-key", -time.Minute, mocks.NewMockCache(), zap.NewNop())

	token, err := service.IssueToken("applicant@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	// Act / Assert
	if _, err := service.ResolveIdentity(ctx, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestRevokedTokenIsRejected(t *testing.T) {
	// Arrange
	ctx := context.Background()
	service, _ := newTestService()

	token, err := service.IssueToken("applicant@example.com")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse token: %v", err)
	}

	// Act
	if err := service.RevokeToken(ctx, claims.ID); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	// Assert
	if _, err := service.ResolveIdentity(ctx, token); err == nil {
		t.Fatal("expected error for revoked token")
	}
}
