package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MesaRepository struct {
	mock.Mock
}

func (m *MesaRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
