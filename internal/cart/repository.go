package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errors.New("item not in cart")
	ErrBadQuantity  = errors.New("quantity must be positive")
)

type Repository interface {
	// GetByUser never returns nil; a user without a cart row gets an empty cart.
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	// Clear is idempotent: clearing an absent or already-empty cart succeeds.
	Clear(ctx context.Context, userID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetByUser(ctx context.Context, userID string) (*Cart, error) {
	c := &Cart{UserID: userID, Items: []Item{}}

	err := r.db.QueryRowContext(ctx,
		`SELECT id, version, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&c.ID, &c.Version, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_items WHERE cart_id = $1 ORDER BY product_id`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return c, nil
}

// AddItem applies the single merge policy: an existing line for the product
// has its quantity incremented, otherwise a new line is appended.
func (r *repo) AddItem(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return nil, ErrBadQuantity
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cartID, err := touchCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_items (id, cart_id, product_id, quantity)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (cart_id, product_id)
         DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uuid.NewString(), cartID, productID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cart_item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return r.GetByUser(ctx, userID)
}

func (r *repo) RemoveItem(ctx context.Context, userID, productID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cartID, err := touchCart(ctx, tx, userID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID,
	); err != nil {
		return fmt.Errorf("delete cart_item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrBadQuantity
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	cartID, err := touchCart(ctx, tx, userID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND product_id = $2`,
		cartID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart_item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrItemNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) Clear(ctx context.Context, userID string) error {
	var cartID string
	err := r.db.QueryRowContext(ctx,
		`UPDATE carts SET version = version + 1, updated_at = NOW()
         WHERE user_id = $1 RETURNING id`, userID,
	).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// no cart row, nothing to clear
			return nil
		}
		return fmt.Errorf("touch cart: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1`, cartID,
	); err != nil {
		return fmt.Errorf("delete cart_items: %w", err)
	}
	return nil
}

// touchCart creates the user's cart row on first use and bumps its version
// on every later mutation, so concurrent checkouts see the change.
func touchCart(ctx context.Context, tx *sql.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRowContext(ctx,
		`INSERT INTO carts (id, user_id, version, updated_at)
         VALUES ($1, $2, 1, NOW())
         ON CONFLICT (user_id)
         DO UPDATE SET version = carts.version + 1, updated_at = NOW()
         RETURNING id`,
		uuid.NewString(), userID,
	).Scan(&cartID)
	if err != nil {
		return "", fmt.Errorf("touch cart: %w", err)
	}
	return cartID, nil
}
