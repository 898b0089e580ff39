package repository

import (
	"context"
	"fmt"
	"time"

	"stars_raffle_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type drawEntry struct {
	UserID  int64 `db:"user_id"`
	Tickets int64 `db:"tickets"`
}

type drawRow struct {
	ID           uuid.UUID `db:"id"`
	WinnerID     int64     `db:"winner_id"`
	TotalTickets int64     `db:"total_tickets"`
	Participants int       `db:"participants"`
	CreatedAt    time.Time `db:"created_at"`
}

// GetDrawSnapshot returns every user holding at least one ticket. The order
// is fixed so a seeded draw over the same population is reproducible.
func (r *Repository) GetDrawSnapshot(ctx context.Context) ([]model.DrawEntry, error) {
	query, args, err := squirrel.
		Select("user_id", "tickets").
		From("users").
		Where(squirrel.Gt{"tickets": 0}).
		OrderBy("user_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []drawEntry
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw snapshot: %w", err)
	}

	entries := make([]model.DrawEntry, len(rows))
	for i, row := range rows {
		entries[i] = model.DrawEntry{
			TelegramID: row.UserID,
			Tickets:    row.Tickets,
		}
	}

	return entries, nil
}

func (r *Repository) RecordDraw(ctx context.Context, draw *model.DrawResult) error {
	query, args, err := squirrel.
		Insert("draws").
		SetMap(map[string]interface{}{
			"id":            draw.ID,
			"winner_id":     draw.WinnerID,
			"total_tickets": draw.TotalTickets,
			"participants":  draw.Participants,
			"created_at":    draw.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build draw insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record draw: %w", err)
	}

	return nil
}

func (r *Repository) ListDraws(ctx context.Context, limit int) ([]*model.DrawResult, error) {
	query, args, err := squirrel.
		Select("id", "winner_id", "total_tickets", "participants", "created_at").
		From("draws").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []drawRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.WinnerID)
	}

	type userName struct {
		UserID   int64  `db:"user_id"`
		Username string `db:"username"`
	}

	var names []userName
	err = r.db.SelectContext(ctx, &names,
		"SELECT user_id, username FROM users WHERE user_id = ANY($1)", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve winner usernames: %w", err)
	}

	nameByID := make(map[int64]string, len(names))
	for _, n := range names {
		nameByID[n.UserID] = n.Username
	}

	draws := make([]*model.DrawResult, len(rows))
	for i, row := range rows {
		draws[i] = &model.DrawResult{
			ID:           row.ID,
			WinnerID:     row.WinnerID,
			Username:     nameByID[row.WinnerID],
			TotalTickets: row.TotalTickets,
			Participants: row.Participants,
			CreatedAt:    row.CreatedAt,
		}
	}

	return draws, nil
}
