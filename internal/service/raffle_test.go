package service

import (
	"context"
	"math/rand"
	"testing"

	"stars_raffle_bot/internal/model"
	"stars_raffle_bot/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRaffleService_DrawWinner_NoParticipants(t *testing.T) {
	tests := []struct {
		name     string
		snapshot []model.DrawEntry
	}{
		{
			name:     "Empty population",
			snapshot: []model.DrawEntry{},
		},
		{
			name: "All ticket counts zero",
			snapshot: []model.DrawEntry{
				{TelegramID: 100, Tickets: 0},
				{TelegramID: 200, Tickets: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockDrawRepository{}
			mockRepo.On("GetDrawSnapshot", mock.Anything).Return(tt.snapshot, nil)
			svc := NewRaffleService(mockRepo)

			result, err := svc.DrawWinner(context.Background())

			assert.ErrorIs(t, err, ErrNoParticipants)
			assert.Nil(t, result)
			mockRepo.AssertNotCalled(t, "RecordDraw", mock.Anything, mock.Anything)
		})
	}
}

func TestRaffleService_DrawWinner_SingleParticipant(t *testing.T) {
	mockRepo := &mocks.MockDrawRepository{}
	mockRepo.On("GetDrawSnapshot", mock.Anything).Return([]model.DrawEntry{
		{TelegramID: 100, Tickets: 4},
	}, nil)
	mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(&model.User{
		TelegramID: 100,
		Username:   "alice",
	}, nil)
	mockRepo.On("RecordDraw", mock.Anything, mock.MatchedBy(func(d *model.DrawResult) bool {
		return d.WinnerID == 100 && d.TotalTickets == 4 && d.Participants == 1
	})).Return(nil)

	svc := NewRaffleService(mockRepo)

	result, err := svc.DrawWinner(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(100), result.WinnerID)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, int64(4), result.Tickets)
	assert.Equal(t, int64(4), result.TotalTickets)
	assert.NotZero(t, result.ID)
	mockRepo.AssertExpectations(t)
}

func TestRaffleService_DrawWinner_RecordFailurePropagates(t *testing.T) {
	mockRepo := &mocks.MockDrawRepository{}
	mockRepo.On("GetDrawSnapshot", mock.Anything).Return([]model.DrawEntry{
		{TelegramID: 100, Tickets: 1},
	}, nil)
	mockRepo.On("GetUserByTelegramID", mock.Anything, int64(100)).Return(&model.User{
		TelegramID: 100,
	}, nil)
	mockRepo.On("RecordDraw", mock.Anything, mock.Anything).Return(assert.AnError)

	svc := NewRaffleService(mockRepo)

	result, err := svc.DrawWinner(context.Background())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, result)
}

// A population of {A:3, B:1} must converge to 75/25 over many draws, and
// drawing must never shrink the snapshot: the winner stays eligible.
func TestRaffleService_DrawWinner_Distribution(t *testing.T) {
	const draws = 10000

	snapshot := []model.DrawEntry{
		{TelegramID: 100, Tickets: 3},
		{TelegramID: 200, Tickets: 1},
	}

	mockRepo := &mocks.MockDrawRepository{}
	mockRepo.On("GetDrawSnapshot", mock.Anything).Return(snapshot, nil)
	mockRepo.On("GetUserByTelegramID", mock.Anything, mock.Anything).Return(&model.User{}, nil)
	mockRepo.On("RecordDraw", mock.Anything, mock.Anything).Return(nil)

	svc := NewRaffleServiceWithSource(mockRepo, rand.NewSource(1))

	wins := map[int64]int{}
	for i := 0; i < draws; i++ {
		result, err := svc.DrawWinner(context.Background())
		assert.NoError(t, err)
		wins[result.WinnerID]++
	}

	assert.Equal(t, draws, wins[100]+wins[200])

	// 4-sigma band around the expected 7500/2500 split.
	ratio := float64(wins[100]) / float64(draws)
	assert.InDelta(t, 0.75, ratio, 0.02, "user 100 won %d of %d draws", wins[100], draws)
}

func TestRaffleService_PickWeighted_ZeroEntriesSkipped(t *testing.T) {
	svc := NewRaffleServiceWithSource(&mocks.MockDrawRepository{}, rand.NewSource(7))

	entries := []model.DrawEntry{
		{TelegramID: 100, Tickets: 0},
		{TelegramID: 200, Tickets: 2},
		{TelegramID: 300, Tickets: 0},
	}

	for i := 0; i < 100; i++ {
		winner, total, ok := svc.pickWeighted(entries)
		assert.True(t, ok)
		assert.Equal(t, int64(200), winner.TelegramID)
		assert.Equal(t, int64(2), total)
	}
}

func TestRaffleService_ListDraws(t *testing.T) {
	mockRepo := &mocks.MockDrawRepository{}
	expected := []*model.DrawResult{
		{WinnerID: 100, Username: "alice", TotalTickets: 4, Participants: 2},
	}
	mockRepo.On("ListDraws", mock.Anything, 10).Return(expected, nil)

	svc := NewRaffleService(mockRepo)

	draws, err := svc.ListDraws(context.Background(), 10)

	assert.NoError(t, err)
	assert.Equal(t, expected, draws)
	mockRepo.AssertExpectations(t)
}
