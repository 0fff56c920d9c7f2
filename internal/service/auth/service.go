package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"restaurante-notificacoes/internal/repository"
)

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrTokenNotRevocable = errors.New("token has no id and cannot be revoked")
)

// Service verifies the access tokens issued by the restaurant's
// authentication service. Issuing tokens is not done here.
type Service interface {
	ValidateAccessToken(token string) (*Claims, error)
	Authenticate(ctx context.Context, token string) (*Claims, error)
	Revoke(ctx context.Context, claims *Claims) error
}

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type service struct {
	secret      []byte
	revokedRepo repository.RevokedTokenRepository
}

// NewService builds the token verifier. revokedRepo may be nil, in which case
// logout is unsupported and tokens stay valid until they expire.
func NewService(secret string, revokedRepo repository.RevokedTokenRepository) Service {
	return &service{secret: []byte(secret), revokedRepo: revokedRepo}
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Authenticate validates the token and rejects it if it was revoked.
func (s *service) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if s.revokedRepo == nil || claims.ID == "" {
		return claims, nil
	}

	revoked, err := s.revokedRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *service) Revoke(ctx context.Context, claims *Claims) error {
	if s.revokedRepo == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrTokenNotRevocable
	}

	if err := s.revokedRepo.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
