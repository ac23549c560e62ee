// AngelaMos | 2026
// repository.go

package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

const subscriptionColumns = `
	id, user_id, tier, start_date, end_date, is_active,
	created_at, updated_at`

const historyColumns = `
	id, subscription_id, user_id, tier, status,
	start_date, end_date, recorded_at`

type Repository interface {
	// GetActiveByUserID returns the user's current active record whose
	// paid window has not lapsed. Lapsed or missing records return
	// core.ErrNotFound.
	GetActiveByUserID(ctx context.Context, userID string) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	// Replace deactivates any active record the user holds, marking it
	// replaced in history, then inserts rec as the new active record.
	// Both sides commit or neither does.
	Replace(ctx context.Context, rec *Record) error
	Renew(ctx context.Context, id string, endDate time.Time) (*Record, error)
	Cancel(ctx context.Context, id string) error
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveByUserID(
	ctx context.Context,
	userID string,
) (*Record, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		  AND is_active = TRUE
		  AND end_date >= NOW()
		ORDER BY end_date DESC
		LIMIT 1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf(
				"active subscription for user: %w",
				core.ErrNotFound,
			)
		}
		return nil, fmt.Errorf("get active subscription: %w", err)
	}

	return &rec, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE id = $1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subscription: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}

	return &rec, nil
}

func (r *repository) Replace(ctx context.Context, rec *Record) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		deactivate := `
			UPDATE subscriptions
			SET is_active = FALSE, updated_at = NOW()
			WHERE user_id = $1 AND is_active = TRUE
			RETURNING ` + subscriptionColumns

		var old []Record
		err := tx.SelectContext(ctx, &old, deactivate, rec.UserID)
		if err != nil {
			return fmt.Errorf("deactivate prior subscription: %w", err)
		}

		for i := range old {
			if err := appendHistory(
				ctx, tx, &old[i], StatusReplaced,
			); err != nil {
				return err
			}
		}

		insert := `
			INSERT INTO subscriptions
				(id, user_id, tier, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			RETURNING created_at, updated_at`

		err = tx.GetContext(ctx, rec, insert,
			rec.ID,
			rec.UserID,
			rec.Tier,
			rec.StartDate,
			rec.EndDate,
		)
		if err != nil {
			return fmt.Errorf("insert subscription: %w", err)
		}
		rec.IsActive = true

		return appendHistory(ctx, tx, rec, StatusActive)
	})
}

func (r *repository) Renew(
	ctx context.Context,
	id string,
	endDate time.Time,
) (*Record, error) {
	var rec Record

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE subscriptions
			SET end_date = $2, is_active = TRUE, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + subscriptionColumns

		if err := tx.GetContext(ctx, &rec, query, id, endDate); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("subscription: %w", core.ErrNotFound)
			}
			return fmt.Errorf("renew subscription: %w", err)
		}

		return appendHistory(ctx, tx, &rec, StatusRenewed)
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) Cancel(ctx context.Context, id string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE subscriptions
			SET is_active = FALSE, updated_at = NOW()
			WHERE id = $1
			RETURNING ` + subscriptionColumns

		var rec Record
		if err := tx.GetContext(ctx, &rec, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("subscription: %w", core.ErrNotFound)
			}
			return fmt.Errorf("cancel subscription: %w", err)
		}

		return appendHistory(ctx, tx, &rec, StatusCancelled)
	})
}

func (r *repository) History(
	ctx context.Context,
	userID string,
) ([]HistoryEntry, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM subscription_history
		WHERE user_id = $1
		ORDER BY recorded_at DESC`

	var entries []HistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("subscription history: %w", err)
	}

	return entries, nil
}

func appendHistory(
	ctx context.Context,
	tx *sqlx.Tx,
	rec *Record,
	status string,
) error {
	query := `
		INSERT INTO subscription_history
			(id, subscription_id, user_id, tier, status, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.ExecContext(ctx, query,
		uuid.NewString(),
		rec.ID,
		rec.UserID,
		rec.Tier,
		status,
		rec.StartDate,
		rec.EndDate,
	)
	if err != nil {
		return fmt.Errorf("append subscription history: %w", err)
	}

	return nil
}
