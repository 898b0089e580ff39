package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReferralPayload(t *testing.T) {
	tests := []struct {
		name     string
		args     string
		userID   int64
		expected *int64
	}{
		{
			name:     "Valid referral payload",
			args:     "ref_100",
			userID:   200,
			expected: ptr(int64(100)),
		},
		{
			name:   "Self-referral ignored",
			args:   "ref_200",
			userID: 200,
		},
		{
			name:   "Missing prefix ignored",
			args:   "100",
			userID: 200,
		},
		{
			name:   "Non-numeric id ignored",
			args:   "ref_abc",
			userID: 200,
		},
		{
			name:   "Empty argument ignored",
			args:   "",
			userID: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseReferralPayload(tt.args, tt.userID)

			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}

			assert.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func ptr(v int64) *int64 {
	return &v
}
