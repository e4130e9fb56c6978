package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

type TokenLedger struct{ mock.Mock }

func (m *TokenLedger) Issue(ctx context.Context, userID uint64, token string, exp time.Time) error {
	return m.Called(ctx, userID, token, exp).Error(0)
}

func (m *TokenLedger) Lookup(ctx context.Context, token string) (*model.RefreshToken, error) {
	a := m.Called(ctx, token)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(*model.RefreshToken), a.Error(1)
}

func (m *TokenLedger) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *TokenLedger) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	a := m.Called(ctx, now)
	return a.Get(0).(int64), a.Error(1)
}
