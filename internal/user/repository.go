package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already exists")
)

const uniqueViolation = "23505"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, fname, lname, email, phone, password_hash)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING created_at`,
		u.ID, u.FName, u.LName, u.Email, u.Phone, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *repo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *repo) get(ctx context.Context, where string, arg any) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fname, lname, email, phone, password_hash, address, city, state, zip_code, country, created_at
         FROM users `+where, arg,
	).Scan(&u.ID, &u.FName, &u.LName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Address, &u.City, &u.State, &u.ZipCode, &u.Country, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// UpdateProfile overwrites only the fields present in upd, leaving the rest untouched.
func (r *repo) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`UPDATE users SET
            fname    = COALESCE($2, fname),
            lname    = COALESCE($3, lname),
            email    = COALESCE($4, email),
            phone    = COALESCE($5, phone),
            address  = COALESCE($6, address),
            city     = COALESCE($7, city),
            state    = COALESCE($8, state),
            zip_code = COALESCE($9, zip_code),
            country  = COALESCE($10, country)
         WHERE id = $1
         RETURNING id, fname, lname, email, phone, password_hash, address, city, state, zip_code, country, created_at`,
		id, upd.FName, upd.LName, upd.Email, upd.Phone,
		upd.Address, upd.City, upd.State, upd.ZipCode, upd.Country,
	).Scan(&u.ID, &u.FName, &u.LName, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Address, &u.City, &u.State, &u.ZipCode, &u.Country, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}
