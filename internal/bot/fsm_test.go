package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversations_Fire(t *testing.T) {
	tests := []struct {
		name          string
		setup         []Event
		event         Event
		expectedState State
		expectedError error
	}{
		{
			name:          "Start creates a session",
			event:         EventUserStarted,
			expectedState: StateAwaitingPlanChoice,
		},
		{
			name:          "Plan selection without a session is rejected",
			event:         EventPlanSelected,
			expectedError: ErrInvalidTransition,
		},
		{
			name:          "Plan selection after start",
			setup:         []Event{EventUserStarted},
			event:         EventPlanSelected,
			expectedState: StateAwaitingPayment,
		},
		{
			name:          "Plan can be re-selected before paying",
			setup:         []Event{EventUserStarted, EventPlanSelected},
			event:         EventPlanSelected,
			expectedState: StateAwaitingPayment,
		},
		{
			name:          "Payment moves to wish",
			setup:         []Event{EventUserStarted, EventPlanSelected},
			event:         EventPaymentConfirmed,
			expectedState: StateAwaitingWish,
		},
		{
			name:          "Payment before plan selection is rejected",
			setup:         []Event{EventUserStarted},
			event:         EventPaymentConfirmed,
			expectedError: ErrInvalidTransition,
		},
		{
			name:          "Wish completes the flow",
			setup:         []Event{EventUserStarted, EventPlanSelected, EventPaymentConfirmed},
			event:         EventWishSubmitted,
			expectedState: StateDone,
		},
		{
			name:          "Wish without payment is rejected",
			setup:         []Event{EventUserStarted, EventPlanSelected},
			event:         EventWishSubmitted,
			expectedError: ErrInvalidTransition,
		},
		{
			name:          "Start restarts a finished conversation",
			setup:         []Event{EventUserStarted, EventPlanSelected, EventPaymentConfirmed, EventWishSubmitted},
			event:         EventUserStarted,
			expectedState: StateAwaitingPlanChoice,
		},
		{
			name:          "Late settlement after completion re-opens the wish prompt",
			setup:         []Event{EventUserStarted, EventPlanSelected, EventPaymentConfirmed, EventWishSubmitted},
			event:         EventPaymentConfirmed,
			expectedState: StateAwaitingWish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConversations()
			for _, e := range tt.setup {
				_, err := c.Fire(1, e)
				assert.NoError(t, err)
			}

			state, err := c.Fire(1, tt.event)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedState, state)
		})
	}
}

func TestConversations_InvalidEventKeepsState(t *testing.T) {
	c := NewConversations()

	_, err := c.Fire(1, EventUserStarted)
	assert.NoError(t, err)

	_, err = c.Fire(1, EventWishSubmitted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	state, ok := c.Current(1)
	assert.True(t, ok)
	assert.Equal(t, StateAwaitingPlanChoice, state)
}

func TestConversations_SessionsAreIndependent(t *testing.T) {
	c := NewConversations()

	_, err := c.Fire(1, EventUserStarted)
	assert.NoError(t, err)
	_, err = c.Fire(1, EventPlanSelected)
	assert.NoError(t, err)

	_, err = c.Fire(2, EventUserStarted)
	assert.NoError(t, err)

	first, _ := c.Current(1)
	second, _ := c.Current(2)
	assert.Equal(t, StateAwaitingPayment, first)
	assert.Equal(t, StateAwaitingPlanChoice, second)

	_, ok := c.Current(3)
	assert.False(t, ok)
}
