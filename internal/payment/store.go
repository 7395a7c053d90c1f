package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOrderNotFound indicates the webhook referenced an unknown order.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore settles an order after payment confirmation. MarkPaid must be
// idempotent: invoking it more than once for the same order id is safe.
type OrderStore interface {
	MarkPaid(ctx context.Context, orderID string) error
}

// PGOrderStore settles orders in Postgres.
type PGOrderStore struct {
	Pool *pgxpool.Pool
}

// MarkPaid moves the order to PROCESSING and clears the originating cart. The
// status predicate makes re-delivery a no-op rather than an error.
func (s PGOrderStore) MarkPaid(ctx context.Context, orderID string) error {
	if s.Pool == nil {
		return errors.New("order store not configured")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET status = 'PROCESSING', updated_at = now()
		WHERE id = $1::uuid AND status IN ('PENDING_PAYMENT', 'PROCESSING')`, orderID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1::uuid)`, orderID).Scan(&exists); err != nil {
			return fmt.Errorf("check order: %w", err)
		}
		if !exists {
			return fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
		}
		// Terminal status already; nothing to settle.
		return nil
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT cart_id FROM orders WHERE id = $1::uuid)`, orderID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return tx.Commit(ctx)
}
