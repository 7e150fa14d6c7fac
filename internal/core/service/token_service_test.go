package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adminhub/admin-system/internal/core/domain"
)

func newTestTokenService(revocations *memRevocationList, rotate bool) *TokenService {
	return NewTokenService(TokenConfig{
		Secret:             "test-secret",
		Issuer:             "admin-system-test",
		AccessTTL:          50 * time.Minute,
		RefreshTTL:         24 * time.Hour,
		RememberAccessTTL:  12 * time.Hour,
		RememberRefreshTTL: 7 * 24 * time.Hour,
		RotateRefresh:      rotate,
	}, revocations, zerolog.Nop())
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	user := &domain.User{ID: 42, Username: "alice"}

	pair, err := svc.Issue(user, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.RememberMe {
		t.Fatalf("pair should not carry remember-me")
	}

	claims, err := svc.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess returned error: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
}

func TestTokenService_RememberMeExtendsLifetimes(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	user := &domain.User{ID: 1}

	short, err := svc.Issue(user, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	long, err := svc.Issue(user, true)
	if err != nil {
		t.Fatalf("Issue with remember-me returned error: %v", err)
	}

	if !long.RememberMe {
		t.Fatalf("expected remember-me pair to be marked")
	}
	if !long.AccessExpiresAt.After(short.AccessExpiresAt) {
		t.Fatalf("remember-me access expiry %v not after standard %v", long.AccessExpiresAt, short.AccessExpiresAt)
	}
	if !long.RefreshExpiresAt.After(short.RefreshExpiresAt) {
		t.Fatalf("remember-me refresh expiry %v not after standard %v", long.RefreshExpiresAt, short.RefreshExpiresAt)
	}
}

func TestTokenService_ValidateAccess_RejectsRefreshToken(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.ValidateAccess(pair.RefreshToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for refresh token, got %v", err)
	}
}

func TestTokenService_ValidateAccess_Expired(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	past := time.Now().UTC().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().UTC() }
	if _, err := svc.ValidateAccess(pair.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestTokenService_Refresh_RotationRevokesOldToken(t *testing.T) {
	revocations := newMemRevocationList()
	svc := newTestTokenService(revocations, true)
	pair, err := svc.Issue(&domain.User{ID: 7}, true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	next, claims, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("expected user 7, got %d", claims.UserID)
	}
	if !next.RememberMe {
		t.Fatalf("refresh must preserve the remember-me policy")
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation must mint a new refresh token")
	}

	// Replaying the rotated-out token must fail.
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken on replay, got %v", err)
	}

	// The replacement still works.
	if _, _, err := svc.Refresh(context.Background(), next.RefreshToken); err != nil {
		t.Fatalf("refresh of rotated token returned error: %v", err)
	}
}

func TestTokenService_Refresh_WithoutRotationKeepsTokenValid(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	pair, err := svc.Issue(&domain.User{ID: 7}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("first refresh returned error: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("second refresh returned error: %v", err)
	}
}

func TestTokenService_Refresh_RevokedTokenRejected(t *testing.T) {
	revocations := newMemRevocationList()
	svc := newTestTokenService(revocations, false)
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if err := svc.Revoke(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken after revocation, got %v", err)
	}
}

func TestTokenService_Refresh_RevocationBackendDownRejects(t *testing.T) {
	revocations := newMemRevocationList()
	revocations.lookupErr = errBackendDown
	svc := newTestTokenService(revocations, false)
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected rejection when the revocation list is unreachable, got %v", err)
	}
}

func TestTokenService_Refresh_RevocationWriteFailureRejects(t *testing.T) {
	revocations := newMemRevocationList()
	svc := newTestTokenService(revocations, true)
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	// The old token cannot be retired, so no replacement may be handed out.
	revocations.revokeErr = errBackendDown
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken when rotation cannot revoke, got %v", err)
	}

	// The token was never blacklisted, so it works once the backend recovers.
	revocations.revokeErr = nil
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("refresh after backend recovery returned error: %v", err)
	}
}

func TestTokenService_Refresh_GarbageTokenRejected(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	if _, _, err := svc.Refresh(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestTokenService_Revoke_ExpiredTokenIsNoOp(t *testing.T) {
	revocations := newMemRevocationList()
	svc := newTestTokenService(revocations, false)

	past := time.Now().UTC().Add(-48 * time.Hour)
	svc.now = func() time.Time { return past }
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().UTC() }
	if err := svc.Revoke(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Revoke of expired token returned error: %v", err)
	}
	if len(revocations.revoked) != 0 {
		t.Fatalf("expired token must not reach the revocation list")
	}
}

func TestTokenService_AccessTokenRemaining(t *testing.T) {
	svc := newTestTokenService(newMemRevocationList(), false)
	pair, err := svc.Issue(&domain.User{ID: 1}, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	remaining, err := svc.AccessTokenRemaining(pair.AccessToken)
	if err != nil {
		t.Fatalf("AccessTokenRemaining returned error: %v", err)
	}
	if remaining <= 49*time.Minute || remaining > 50*time.Minute {
		t.Fatalf("unexpected remaining lifetime: %v", remaining)
	}
}
