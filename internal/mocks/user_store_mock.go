package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	a := m.Called(ctx, username)
	return a.Bool(0), a.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	a := m.Called(ctx, username)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*model.User), a.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	a := m.Called(ctx, id)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*model.User), a.Error(1)
}
