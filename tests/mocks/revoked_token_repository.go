package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type RevokedTokenRepository struct {
	mock.Mock
}

func (m *RevokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	args := m.Called(ctx, jti, expiresAt)
	return args.Error(0)
}

func (m *RevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
