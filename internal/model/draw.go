package model

import (
	"time"

	"github.com/google/uuid"
)

// DrawEntry is one row of the draw snapshot: a participant and their weight.
type DrawEntry struct {
	TelegramID int64
	Tickets    int64
}

type DrawResult struct {
	ID           uuid.UUID
	WinnerID     int64
	Username     string
	Tickets      int64
	TotalTickets int64
	Participants int
	CreatedAt    time.Time
}
