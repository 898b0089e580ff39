package model

import "time"

type User struct {
	TelegramID int64
	Username   string
	PlanKey    *string
	StarsPaid  int64
	Tickets    int64
	Wish       *string
	Completed  bool
	CreatedAt  time.Time
}

type Referral struct {
	ID        int64
	InviterID int64
	InvitedID int64
	CreatedAt time.Time
}

type Stats struct {
	TotalUsers     int64
	PaidUsers      int64
	TotalWishes    int64
	TotalCompleted int64
	TotalStars     int64
	TotalTickets   int64
}
