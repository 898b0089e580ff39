package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"stars_raffle_bot/internal/model"
	"stars_raffle_bot/internal/repository"

	"github.com/google/uuid"
)

type RaffleService struct {
	repo DrawRepository

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRaffleService(repo DrawRepository) *RaffleService {
	return NewRaffleServiceWithSource(repo, rand.NewSource(time.Now().UnixNano()))
}

// NewRaffleServiceWithSource takes an explicit random source so draws can be
// made deterministic in tests. The draw is promotional, not a security
// control, so math/rand is sufficient.
func NewRaffleServiceWithSource(repo DrawRepository, src rand.Source) *RaffleService {
	return &RaffleService{
		repo: repo,
		rnd:  rand.New(src),
	}
}

// DrawWinner selects one user with probability proportional to their ticket
// count. It never mutates the ledger: the winner keeps their tickets and
// stays eligible for future draws.
func (s *RaffleService) DrawWinner(ctx context.Context) (*model.DrawResult, error) {
	entries, err := s.repo.GetDrawSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw snapshot: %w", err)
	}

	winner, total, ok := s.pickWeighted(entries)
	if !ok {
		return nil, ErrNoParticipants
	}

	result := &model.DrawResult{
		ID:           uuid.New(),
		WinnerID:     winner.TelegramID,
		Tickets:      winner.Tickets,
		TotalTickets: total,
		Participants: len(entries),
		CreatedAt:    time.Now().UTC(),
	}

	user, err := s.repo.GetUserByTelegramID(ctx, winner.TelegramID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to resolve winner: %w", err)
	}
	if user != nil {
		result.Username = user.Username
	}

	if err := s.repo.RecordDraw(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to record draw: %w", err)
	}

	return result, nil
}

// pickWeighted draws a uniform integer in [0, totalTickets) and walks the
// snapshot accumulating counts, returning the first entry whose cumulative
// count exceeds it. Equivalent to drawing one element from the multiset in
// which each user appears once per ticket.
func (s *RaffleService) pickWeighted(entries []model.DrawEntry) (model.DrawEntry, int64, bool) {
	var total int64
	for _, e := range entries {
		if e.Tickets > 0 {
			total += e.Tickets
		}
	}
	if total == 0 {
		return model.DrawEntry{}, 0, false
	}

	s.mu.Lock()
	r := s.rnd.Int63n(total)
	s.mu.Unlock()

	var cumulative int64
	for _, e := range entries {
		if e.Tickets <= 0 {
			continue
		}
		cumulative += e.Tickets
		if r < cumulative {
			return e, total, true
		}
	}

	// Unreachable: cumulative reaches total and r < total.
	return model.DrawEntry{}, 0, false
}

func (s *RaffleService) ListDraws(ctx context.Context, limit int) ([]*model.DrawResult, error) {
	draws, err := s.repo.ListDraws(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}

	return draws, nil
}
