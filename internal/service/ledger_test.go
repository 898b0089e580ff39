package service

import (
	"context"
	"strings"
	"testing"

	"stars_raffle_bot/internal/model"
	"stars_raffle_bot/internal/repository"
	"stars_raffle_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLedgerService_RegisterUser(t *testing.T) {
	referrerID := int64(100)

	tests := []struct {
		name          string
		telegramID    int64
		username      string
		referrerID    *int64
		mockSetup     func(mockRepo *mocks.MockLedgerRepository)
		expectedError error
	}{
		{
			name:       "New user without referrer",
			telegramID: 200,
			username:   "alice",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.TelegramID == 200 && u.Username == "alice" && !u.CreatedAt.IsZero()
				}), (*int64)(nil)).Return(nil)
			},
		},
		{
			name:       "New user with referrer",
			telegramID: 200,
			username:   "alice",
			referrerID: &referrerID,
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.TelegramID == 200
				}), &referrerID).Return(nil)
			},
		},
		{
			name:       "Storage failure propagates",
			telegramID: 200,
			username:   "alice",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("CreateUser", mock.Anything, mock.Anything, (*int64)(nil)).
					Return(assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLedgerRepository{}
			tt.mockSetup(mockRepo)
			svc := NewLedgerService(mockRepo)

			err := svc.RegisterUser(context.Background(), tt.telegramID, tt.username, tt.referrerID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_RecordPurchase(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(mockRepo *mocks.MockLedgerRepository)
		expectedError error
	}{
		{
			name: "Successful purchase",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("RecordPurchase", mock.Anything, int64(100), "plan_300", int64(300), int64(5)).
					Return(nil)
			},
		},
		{
			name: "Unknown user",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("RecordPurchase", mock.Anything, int64(100), "plan_300", int64(300), int64(5)).
					Return(repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
		{
			name: "Storage failure propagates",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("RecordPurchase", mock.Anything, int64(100), "plan_300", int64(300), int64(5)).
					Return(assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLedgerRepository{}
			tt.mockSetup(mockRepo)
			svc := NewLedgerService(mockRepo)

			err := svc.RecordPurchase(context.Background(), 100, "plan_300", 300, 5)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_RecordWish(t *testing.T) {
	tests := []struct {
		name          string
		wish          string
		mockSetup     func(mockRepo *mocks.MockLedgerRepository)
		expectedError error
	}{
		{
			name: "Wish saved",
			wish: "Hello World",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("SaveWish", mock.Anything, int64(100), "Hello World").Return(nil)
			},
		},
		{
			name: "Wish at the limit is accepted",
			wish: strings.Repeat("x", MaxWishLength),
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("SaveWish", mock.Anything, int64(100), strings.Repeat("x", MaxWishLength)).
					Return(nil)
			},
		},
		{
			name:          "Wish over the limit is rejected without a repo call",
			wish:          strings.Repeat("x", MaxWishLength+1),
			mockSetup:     func(mockRepo *mocks.MockLedgerRepository) {},
			expectedError: ErrWishTooLong,
		},
		{
			name: "Unknown user",
			wish: "Hello",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("SaveWish", mock.Anything, int64(100), "Hello").
					Return(repository.ErrNotFound)
			},
			expectedError: ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLedgerRepository{}
			tt.mockSetup(mockRepo)
			svc := NewLedgerService(mockRepo)

			err := svc.RecordWish(context.Background(), 100, tt.wish)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_GetTicketCount(t *testing.T) {
	tests := []struct {
		name            string
		mockSetup       func(mockRepo *mocks.MockLedgerRepository)
		expectedTickets int64
		expectedError   error
	}{
		{
			name: "Known user",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("GetTicketCount", mock.Anything, int64(100)).Return(int64(4), nil)
			},
			expectedTickets: 4,
		},
		{
			name: "Unknown user reads as zero, not an error",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("GetTicketCount", mock.Anything, int64(100)).
					Return(int64(0), repository.ErrNotFound)
			},
			expectedTickets: 0,
		},
		{
			name: "Storage failure propagates",
			mockSetup: func(mockRepo *mocks.MockLedgerRepository) {
				mockRepo.On("GetTicketCount", mock.Anything, int64(100)).
					Return(int64(0), assert.AnError)
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockLedgerRepository{}
			tt.mockSetup(mockRepo)
			svc := NewLedgerService(mockRepo)

			tickets, err := svc.GetTicketCount(context.Background(), 100)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTickets, tickets)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLedgerService_GetStats(t *testing.T) {
	mockRepo := &mocks.MockLedgerRepository{}
	svc := NewLedgerService(mockRepo)

	expected := &model.Stats{
		TotalUsers:     10,
		PaidUsers:      4,
		TotalWishes:    3,
		TotalCompleted: 3,
		TotalStars:     900,
		TotalTickets:   17,
	}
	mockRepo.On("GetStats", mock.Anything).Return(expected, nil)

	stats, err := svc.GetStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, stats)
	mockRepo.AssertExpectations(t)
}
