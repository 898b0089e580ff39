package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stars_raffle_bot/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type user struct {
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	PlanKey   *string   `db:"plan_key"`
	StarsPaid int64     `db:"stars_paid"`
	Tickets   int64     `db:"tickets"`
	Wish      *string   `db:"wish"`
	Completed bool      `db:"completed"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateUser inserts the user if absent. Referral attribution happens only
// when the insert actually created the row: re-running /start must never
// credit the inviter twice. The edge insert and the inviter's ticket
// increment are applied in the same transaction.
func (r *Repository) CreateUser(ctx context.Context, u *model.User, referrerID *int64) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"user_id":    u.TelegramID,
				"username":   u.Username,
				"created_at": u.CreatedAt,
			}).
			Suffix("ON CONFLICT (user_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}

		inserted, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}

		if inserted == 0 || referrerID == nil || *referrerID == u.TelegramID {
			return nil
		}

		return r.creditReferralWithTx(ctx, tx, *referrerID, u.TelegramID)
	})
}

func (r *Repository) creditReferralWithTx(ctx context.Context, tx *sqlx.Tx, inviterID, invitedID int64) error {
	existsQuery, existsArgs, err := squirrel.
		Select("1").
		From("users").
		Where(squirrel.Eq{"user_id": inviterID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build inviter lookup query: %w", err)
	}

	var one int
	err = tx.GetContext(ctx, &one, existsQuery, existsArgs...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown inviter, nothing to credit.
			return nil
		}
		return fmt.Errorf("failed to look up inviter: %w", err)
	}

	edgeQuery, edgeArgs, err := squirrel.
		Insert("referrals").
		SetMap(map[string]interface{}{
			"inviter_id": inviterID,
			"invited_id": invitedID,
		}).
		Suffix("ON CONFLICT (invited_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral insert query: %w", err)
	}

	res, err := tx.ExecContext(ctx, edgeQuery, edgeArgs...)
	if err != nil {
		return fmt.Errorf("failed to insert referral: %w", err)
	}

	edgeInserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if edgeInserted == 0 {
		// Invited id already claimed by an earlier referral.
		return nil
	}

	updateQuery, updateArgs, err := squirrel.
		Update("users").
		Set("tickets", squirrel.Expr("tickets + 1")).
		Where(squirrel.Eq{"user_id": inviterID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build inviter update query: %w", err)
	}

	_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
	if err != nil {
		return fmt.Errorf("failed to update inviter tickets: %w", err)
	}

	return nil
}

// RecordPurchase is additive: stars and tickets accumulate across purchases,
// plan_key keeps the most recent tier.
func (r *Repository) RecordPurchase(ctx context.Context, telegramID int64, planKey string, starsPaid, ticketsGranted int64) error {
	query, args, err := squirrel.
		Update("users").
		Set("plan_key", planKey).
		Set("stars_paid", squirrel.Expr("stars_paid + ?", starsPaid)).
		Set("tickets", squirrel.Expr("tickets + ?", ticketsGranted)).
		Where(squirrel.Eq{"user_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build purchase update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) SaveWish(ctx context.Context, telegramID int64, wish string) error {
	query, args, err := squirrel.
		Update("users").
		Set("wish", wish).
		Where(squirrel.Eq{"user_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build wish update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save wish: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) MarkCompleted(ctx context.Context, telegramID int64) error {
	query, args, err := squirrel.
		Update("users").
		Set("completed", true).
		Where(squirrel.Eq{"user_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build completed update query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to mark completed: %w", err)
	}

	return nil
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var u user
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(squirrel.Eq{"user_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &model.User{
		TelegramID: u.UserID,
		Username:   u.Username,
		PlanKey:    u.PlanKey,
		StarsPaid:  u.StarsPaid,
		Tickets:    u.Tickets,
		Wish:       u.Wish,
		Completed:  u.Completed,
		CreatedAt:  u.CreatedAt,
	}, nil
}

func (r *Repository) GetTicketCount(ctx context.Context, telegramID int64) (int64, error) {
	var tickets int64
	query, args, err := squirrel.
		Select("tickets").
		From("users").
		Where(squirrel.Eq{"user_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	err = r.db.GetContext(ctx, &tickets, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	return tickets, nil
}

func (r *Repository) GetReferralCount(ctx context.Context, telegramID int64) (int64, error) {
	var count int64
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("referrals").
		Where(squirrel.Eq{"inviter_id": telegramID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	err = r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w", err)
	}

	return count, nil
}

type statsRow struct {
	TotalUsers     int64 `db:"total_users"`
	PaidUsers      int64 `db:"paid_users"`
	TotalWishes    int64 `db:"total_wishes"`
	TotalCompleted int64 `db:"total_completed"`
	TotalStars     int64 `db:"total_stars"`
	TotalTickets   int64 `db:"total_tickets"`
}

func (r *Repository) GetStats(ctx context.Context) (*model.Stats, error) {
	query, args, err := squirrel.
		Select(
			"COUNT(*) AS total_users",
			"COUNT(*) FILTER (WHERE stars_paid > 0) AS paid_users",
			"COUNT(wish) AS total_wishes",
			"COUNT(*) FILTER (WHERE completed) AS total_completed",
			"COALESCE(SUM(stars_paid), 0) AS total_stars",
			"COALESCE(SUM(tickets), 0) AS total_tickets",
		).
		From("users").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row statsRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &model.Stats{
		TotalUsers:     row.TotalUsers,
		PaidUsers:      row.PaidUsers,
		TotalWishes:    row.TotalWishes,
		TotalCompleted: row.TotalCompleted,
		TotalStars:     row.TotalStars,
		TotalTickets:   row.TotalTickets,
	}, nil
}
