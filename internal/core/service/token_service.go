package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adminhub/admin-system/internal/core/domain"
	"github.com/adminhub/admin-system/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenConfig holds the signing and lifetime policy for session tokens.
type TokenConfig struct {
	Secret string
	Issuer string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Remember-me variants extend both lifetimes.
	RememberAccessTTL  time.Duration
	RememberRefreshTTL time.Duration

	// RotateRefresh enables refresh-token rotation: each refresh revokes the
	// presented token and issues a new one.
	RotateRefresh bool
}

// accessTokenClaims is the fixed wire shape of an access token. Claims are a
// typed struct rather than an open map so new fields are a code change, not a
// runtime surprise.
type accessTokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// refreshTokenClaims is the fixed wire shape of a refresh token. RememberMe
// is carried so a later refresh can preserve the extended lifetime policy.
type refreshTokenClaims struct {
	TokenType  string `json:"token_type"`
	RememberMe bool   `json:"remember_me"`
	jwt.RegisteredClaims
}

// TokenService implements ports.TokenService with HS256 JWTs and a durable
// revocation list for refresh tokens.
type TokenService struct {
	cfg         TokenConfig
	revocations ports.RevocationList
	logger      zerolog.Logger
	now         func() time.Time
}

func NewTokenService(cfg TokenConfig, revocations ports.RevocationList, logger zerolog.Logger) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 50 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	if cfg.RememberAccessTTL <= 0 {
		cfg.RememberAccessTTL = 12 * time.Hour
	}
	if cfg.RememberRefreshTTL <= 0 {
		cfg.RememberRefreshTTL = 7 * 24 * time.Hour
	}
	return &TokenService{
		cfg:         cfg,
		revocations: revocations,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Issue builds an access/refresh pair for the user.
func (s *TokenService) Issue(user *domain.User, rememberMe bool) (domain.TokenPair, error) {
	return s.mint(user.ID, rememberMe)
}

func (s *TokenService) mint(userID int64, rememberMe bool) (domain.TokenPair, error) {
	now := s.now()

	accessTTL, refreshTTL := s.cfg.AccessTTL, s.cfg.RefreshTTL
	if rememberMe {
		accessTTL, refreshTTL = s.cfg.RememberAccessTTL, s.cfg.RememberRefreshTTL
	}

	accessExp := now.Add(accessTTL)
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	})
	accessSigned, err := access.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := now.Add(refreshTTL)
	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshTokenClaims{
		TokenType:  tokenTypeRefresh,
		RememberMe: rememberMe,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	})
	refreshSigned, err := refresh.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:      accessSigned,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshSigned,
		RefreshExpiresAt: refreshExp,
		RememberMe:       rememberMe,
	}, nil
}

// ValidateAccess verifies signature and expiry. Access tokens are stateless:
// the revocation list is never consulted here.
func (s *TokenService) ValidateAccess(token string) (*domain.AccessClaims, error) {
	claims := &accessTokenClaims{}
	if err := s.parse(token, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.AccessClaims{
		UserID:    userID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Refresh validates the refresh token and issues a new pair. Token problems
// of every kind collapse into ErrInvalidRefreshToken; revocation-list backend
// failure fails safe toward rejection.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, *domain.RefreshClaims, error) {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return domain.TokenPair{}, nil, domain.ErrInvalidRefreshToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.JTI)
	if err != nil {
		s.logger.Error().Err(err).Msg("revocation list lookup failed, rejecting refresh")
		return domain.TokenPair{}, nil, domain.ErrInvalidRefreshToken
	}
	if revoked {
		return domain.TokenPair{}, nil, domain.ErrInvalidRefreshToken
	}

	// Revoke before handing out the replacement so a replayed old token can
	// never race a successful rotation. A failed revocation write means the
	// presented token cannot be retired, so no replacement is issued.
	if s.cfg.RotateRefresh {
		if err := s.revocations.Revoke(ctx, claims.JTI, claims.ExpiresAt.Sub(s.now())); err != nil {
			s.logger.Error().Err(err).Msg("revocation write failed during rotation, rejecting refresh")
			return domain.TokenPair{}, nil, domain.ErrInvalidRefreshToken
		}
	}

	pair, err := s.mint(claims.UserID, claims.RememberMe)
	if err != nil {
		return domain.TokenPair{}, nil, err
	}
	return pair, claims, nil
}

// Revoke blacklists the refresh token until its natural expiry. Expired or
// already-revoked tokens are a no-op.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefreshLenient(refreshToken)
	if err != nil {
		return domain.ErrInvalidRefreshToken
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.JTI, ttl)
}

// AccessTokenRemaining returns the time left before expiry without consuming
// the token.
func (s *TokenService) AccessTokenRemaining(token string) (time.Duration, error) {
	claims, err := s.ValidateAccess(token)
	if err != nil {
		return 0, err
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *TokenService) parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
		default:
			return domain.ErrUnauthorized
		}
	}
	if !parsed.Valid {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *TokenService) parseRefresh(token string) (*domain.RefreshClaims, error) {
	claims := &refreshTokenClaims{}
	if err := s.parse(token, claims); err != nil {
		return nil, err
	}
	return s.toRefreshClaims(claims)
}

// parseRefreshLenient accepts expired tokens (signature still verified) so
// revocation stays idempotent past expiry.
func (s *TokenService) parseRefreshLenient(token string) (*domain.RefreshClaims, error) {
	claims := &refreshTokenClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidRefreshToken
	}
	return s.toRefreshClaims(claims)
}

func (s *TokenService) toRefreshClaims(claims *refreshTokenClaims) (*domain.RefreshClaims, error) {
	if claims.TokenType != tokenTypeRefresh || claims.ID == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}
	return &domain.RefreshClaims{
		UserID:     userID,
		JTI:        claims.ID,
		RememberMe: claims.RememberMe,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return []byte(s.cfg.Secret), nil
}
