package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
}

// Service resolves bearer tokens to the opaque identity that keys sessions
// and tickets. Tokens are HS256 JWTs; revocations are blacklisted in the
// cache until the token would have expired anyway.
type Service struct {
	secret   string
	duration time.Duration
	cache    ports.Cache
	log      *zap.Logger
}

func NewService(secret string, duration time.Duration, cache ports.Cache, log *zap.Logger) *Service {
	log.Info("Identity service initialized",
		zap.Duration("token_duration", duration),
	)

	return &Service{
		secret:   secret,
		duration: duration,
		cache:    cache,
		log:      log,
	}
}

// IssueToken creates a signed JWT for the given identity. The token carries
// sub (the identity), exp, and jti (unique ID).
func (s *Service) IssueToken(identity string) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.secret))
	if err != nil {
		s.log.Error("failed to sign token",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Debug("token issued",
		zap.String("identity", identity),
		zap.String("jti", jti),
	)

	return signedToken, nil
}

// ResolveIdentity parses and validates a token string and returns the
// identity it was issued to. Revoked tokens fail even before expiry.
func (s *Service) ResolveIdentity(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	if s.isRevoked(ctx, claims.ID) {
		return "", fmt.Errorf("token has been revoked")
	}

	return claims.Subject, nil
}

// RevokeToken blacklists the token ID in the cache with a TTL that outlasts
// any token still carrying it.
func (s *Service) RevokeToken(ctx context.Context, tokenID string) error {
	key := fmt.Sprintf("revoked_token:%s", tokenID)

	err := s.cache.Set(ctx, key, "revoked", s.duration)
	if err != nil {
		s.log.Error("failed to revoke token",
			zap.String("token_id", tokenID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked",
		zap.String("token_id", tokenID),
	)

	return nil
}

func (s *Service) isRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}
	key := fmt.Sprintf("revoked_token:%s", tokenID)

	val, err := s.cache.Get(ctx, key)
	if err != nil {
		// Absent or unreachable both read as not revoked.
		return false
	}

	return val == "revoked"
}
