package mocks

import (
	"context"

	"stars_raffle_bot/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateUser(ctx context.Context, u *model.User, referrerID *int64) error {
	args := m.Called(ctx, u, referrerID)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordPurchase(ctx context.Context, telegramID int64, planKey string, starsPaid, ticketsGranted int64) error {
	args := m.Called(ctx, telegramID, planKey, starsPaid, ticketsGranted)
	return args.Error(0)
}

func (m *MockLedgerRepository) SaveWish(ctx context.Context, telegramID int64, wish string) error {
	args := m.Called(ctx, telegramID, wish)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkCompleted(ctx context.Context, telegramID int64) error {
	args := m.Called(ctx, telegramID)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockLedgerRepository) GetTicketCount(ctx context.Context, telegramID int64) (int64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetReferralCount(ctx context.Context, telegramID int64) (int64, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) GetStats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) GetDrawSnapshot(ctx context.Context) ([]model.DrawEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DrawEntry), args.Error(1)
}

func (m *MockDrawRepository) RecordDraw(ctx context.Context, draw *model.DrawResult) error {
	args := m.Called(ctx, draw)
	return args.Error(0)
}

func (m *MockDrawRepository) ListDraws(ctx context.Context, limit int) ([]*model.DrawResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DrawResult), args.Error(1)
}

func (m *MockDrawRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
