package service

import (
	"context"
	"errors"

	"stars_raffle_bot/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrNoParticipants = errors.New("no eligible participants")
	ErrWishTooLong    = errors.New("wish exceeds maximum length")
)

type Service struct {
	*LedgerService
	*RaffleService
}

func NewService(ledgerService *LedgerService, raffleService *RaffleService) *Service {
	return &Service{
		LedgerService: ledgerService,
		RaffleService: raffleService,
	}
}

type LedgerServiceI interface {
	RegisterUser(ctx context.Context, telegramID int64, username string, referrerID *int64) error
	RecordPurchase(ctx context.Context, telegramID int64, planKey string, starsPaid, ticketsGranted int64) error
	RecordWish(ctx context.Context, telegramID int64, wish string) error
	MarkCompleted(ctx context.Context, telegramID int64) error
	GetUser(ctx context.Context, telegramID int64) (*model.User, error)
	GetTicketCount(ctx context.Context, telegramID int64) (int64, error)
	GetReferralCount(ctx context.Context, telegramID int64) (int64, error)
	GetStats(ctx context.Context) (*model.Stats, error)
}

type LedgerRepository interface {
	CreateUser(ctx context.Context, u *model.User, referrerID *int64) error
	RecordPurchase(ctx context.Context, telegramID int64, planKey string, starsPaid, ticketsGranted int64) error
	SaveWish(ctx context.Context, telegramID int64, wish string) error
	MarkCompleted(ctx context.Context, telegramID int64) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetTicketCount(ctx context.Context, telegramID int64) (int64, error)
	GetReferralCount(ctx context.Context, telegramID int64) (int64, error)
	GetStats(ctx context.Context) (*model.Stats, error)
}

type RaffleServiceI interface {
	DrawWinner(ctx context.Context) (*model.DrawResult, error)
	ListDraws(ctx context.Context, limit int) ([]*model.DrawResult, error)
}

type DrawRepository interface {
	GetDrawSnapshot(ctx context.Context) ([]model.DrawEntry, error)
	RecordDraw(ctx context.Context, draw *model.DrawResult) error
	ListDraws(ctx context.Context, limit int) ([]*model.DrawResult, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
}
