package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

// AuthService implements login, logout, refresh and identity resolution.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenService
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenService, audit ports.AuditRecorder, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, audit: audit, logger: logger}
}

// Login verifies credentials and mints a token pair. Unknown usernames, bad
// passwords, and inactive or soft-deleted accounts all fail with the same
// ErrInvalidCredentials so the response reveals nothing about which check
// failed.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool, ip string) (domain.TokenPair, *domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.auditLogin(0, username, ip, false, "unknown username")
			return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, nil, err
	}

	if !user.IsActive() {
		s.auditLogin(user.ID, username, ip, false, "inactive account")
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.auditLogin(user.ID, username, ip, false, "bad password")
		return domain.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user, rememberMe)
	if err != nil {
		return domain.TokenPair{}, nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to persist last login")
	}
	user.LastLoginAt = &now

	s.auditLogin(user.ID, username, ip, true, "")
	return pair, user, nil
}

// Logout revokes the refresh token and records the event. It never fails the
// request: a missing, expired or already-revoked token leaves nothing to do.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, identity *domain.Identity, ip string) {
	if refreshToken != "" {
		if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
			s.logger.Warn().Err(err).Msg("refresh token revocation on logout failed")
		}
	}

	event := domain.AuditEvent{
		Action:    domain.AuditActionLogout,
		Module:    domain.AuditModuleAuth,
		Success:   true,
		IP:        ip,
		Timestamp: time.Now().UTC(),
	}
	if identity != nil {
		event.ActorID = identity.UserID
		event.Actor = identity.Username
	}
	s.audit.Record(event)
}

// Refresh rotates the session per policy. The subject must still resolve to
// an active account; a deactivated user cannot keep a session alive through
// refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, ip string) (domain.TokenPair, error) {
	pair, claims, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive() {
		return domain.TokenPair{}, domain.ErrInvalidRefreshToken
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:   user.ID,
		Actor:     user.Username,
		Action:    domain.AuditActionLogin,
		Module:    domain.AuditModuleAuth,
		Detail:    "token refresh",
		Success:   true,
		IP:        ip,
		Timestamp: time.Now().UTC(),
	})
	return pair, nil
}

// ResolveIdentity validates an access token and loads live role membership.
// Role codes come from the store, not the token, so a role change takes
// effect on the next request rather than the next login.
func (s *AuthService) ResolveIdentity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	roles, err := s.users.RolesFor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}

	return &domain.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		RoleCodes: codes,
	}, nil
}

func (s *AuthService) auditLogin(userID int64, username, ip string, success bool, message string) {
	s.audit.Record(domain.AuditEvent{
		ActorID:   userID,
		Actor:     username,
		Action:    domain.AuditActionLogin,
		Module:    domain.AuditModuleAuth,
		Success:   success,
		Message:   message,
		IP:        ip,
		Timestamp: time.Now().UTC(),
	})
}
