package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"stars_raffle_bot/internal/model"
	"stars_raffle_bot/internal/repository"
)

// MaxWishLength caps submitted wishes, matching the prompt shown to users.
const MaxWishLength = 500

type LedgerService struct {
	repo LedgerRepository
}

func NewLedgerService(repo LedgerRepository) *LedgerService {
	return &LedgerService{
		repo: repo,
	}
}

func (s *LedgerService) RegisterUser(ctx context.Context, telegramID int64, username string, referrerID *int64) error {
	u := &model.User{
		TelegramID: telegramID,
		Username:   username,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.repo.CreateUser(ctx, u, referrerID)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	return nil
}

func (s *LedgerService) RecordPurchase(ctx context.Context, telegramID int64, planKey string, starsPaid, ticketsGranted int64) error {
	err := s.repo.RecordPurchase(ctx, telegramID, planKey, starsPaid, ticketsGranted)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	return nil
}

// RecordWish overwrites any previous wish, last write wins.
func (s *LedgerService) RecordWish(ctx context.Context, telegramID int64, wish string) error {
	if utf8.RuneCountInString(wish) > MaxWishLength {
		return ErrWishTooLong
	}

	err := s.repo.SaveWish(ctx, telegramID, wish)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to record wish: %w", err)
	}

	return nil
}

func (s *LedgerService) MarkCompleted(ctx context.Context, telegramID int64) error {
	err := s.repo.MarkCompleted(ctx, telegramID)
	if err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
	}

	return nil
}

func (s *LedgerService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetTicketCount returns 0 for unknown users: a never-seen user is a
// legitimate state on read paths, not a fault.
func (s *LedgerService) GetTicketCount(ctx context.Context, telegramID int64) (int64, error) {
	tickets, err := s.repo.GetTicketCount(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get ticket count: %w", err)
	}

	return tickets, nil
}

func (s *LedgerService) GetReferralCount(ctx context.Context, telegramID int64) (int64, error) {
	count, err := s.repo.GetReferralCount(ctx, telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to get referral count: %w", err)
	}

	return count, nil
}

func (s *LedgerService) GetStats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}
