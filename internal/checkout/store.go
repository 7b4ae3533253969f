package checkout

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aswin-111/ecommerce-server/internal/order"
)

// PostgresStore commits checkout in a single transaction: order insert,
// cart-item delete, and a version bump guarded by the version the workflow
// read. Losing the version check rolls everything back, so a retried
// checkout can never double-charge a cart.
type PostgresStore struct {
	db     *sql.DB
	orders order.Repository
}

func NewPostgresStore(db *sql.DB, orders order.Repository) *PostgresStore {
	return &PostgresStore{db: db, orders: orders}
}

func (s *PostgresStore) CommitOrder(ctx context.Context, o *order.Order, cartID string, cartVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.orders.CreateTx(ctx, tx, o); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE carts SET version = version + 1, updated_at = NOW()
         WHERE id = $1 AND version = $2`,
		cartID, cartVersion,
	)
	if err != nil {
		return fmt.Errorf("bump cart version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrCartConflict
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID,
	); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
