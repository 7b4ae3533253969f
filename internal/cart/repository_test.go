package cart

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByUser_NoCartRowMeansEmptyCart(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, version, updated_at FROM carts`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "updated_at"}))

	repo := NewRepository(database)
	c, err := repo.GetByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
	assert.Equal(t, "u1", c.UserID)
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	database, _, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	repo := NewRepository(database)
	_, err = repo.AddItem(context.Background(), "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrBadQuantity)
}

func TestAddItem_MergesViaUpsert(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO carts`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (cart_id, product_id)`)).
		WithArgs(sqlmock.AnyArg(), "c1", "p1", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, version, updated_at FROM carts`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version", "updated_at"}).
			AddRow("c1", 2, time.Unix(0, 0)))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, quantity FROM cart_items`)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).AddRow("p1", 5))

	repo := NewRepository(database)
	c, err := repo.AddItem(context.Background(), "u1", "p1", 2)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.EqualValues(t, 2, c.Version, "mutation must bump cart version")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetItemQuantity_MissingItem(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO carts`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("c1"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE cart_items SET quantity`)).
		WithArgs("c1", "p404", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewRepository(database)
	err = repo.SetItemQuantity(context.Background(), "u1", "p404", 3)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestClear_NoCartIsNoop(t *testing.T) {
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE carts SET version = version + 1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewRepository(database)
	assert.NoError(t, repo.Clear(context.Background(), "u1"))
}
