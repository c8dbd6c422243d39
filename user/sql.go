package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create registers a new, unapproved user. The duplicate check and the
// insert run in one transaction so a losing writer never gets past it.
// Email matching is exact and case-sensitive.
func (r *Repository) Create(ctx context.Context, name, email, password string) (User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	var existing int64
	err = tx.GetContext(ctx, &existing, getUserIDByEmail, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}
	if err == nil {
		return User{}, ErrDuplicateEmail
	}

	var u User
	err = tx.GetContext(ctx, &u, createUser, name, email, password, time.Now().UTC())
	if err != nil {
		return User{}, err
	}

	return u, tx.Commit()
}

const getUserIDByEmail = `SELECT id FROM users WHERE email = $1`

const createUser = `
INSERT INTO users (name, email, password, is_admin, is_approved, created_at)
VALUES ($1, $2, $3, 0, 0, $4)
RETURNING *
`

// Authenticate returns the user matching email, password and approval in a
// single predicate. A pending user fails exactly like a wrong password.
func (r *Repository) Authenticate(ctx context.Context, email, password string) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, authenticateUser, email, password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	return u, err
}

const authenticateUser = `SELECT * FROM users WHERE email = $1 AND password = $2 AND is_approved = 1`

func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, getUserByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

const getUserByID = `SELECT * FROM users WHERE id = $1`

// ListPending returns users awaiting approval, oldest registration first.
func (r *Repository) ListPending(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.SelectContext(ctx, &users, listPendingUsers)
	return users, err
}

const listPendingUsers = `SELECT * FROM users WHERE is_approved = 0 ORDER BY created_at ASC`

// ListRiders returns approved non-admin users for the admin dashboard.
func (r *Repository) ListRiders(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.SelectContext(ctx, &users, listRiders)
	return users, err
}

const listRiders = `SELECT * FROM users WHERE is_approved = 1 AND is_admin = 0 ORDER BY created_at ASC`

// Approve marks a user approved and returns the updated row.
func (r *Repository) Approve(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, approveUser, id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

const approveUser = `UPDATE users SET is_approved = 1 WHERE id = $1 RETURNING *`

// Reject permanently deletes a user. The spec allows rejecting any user by
// id, not only pending ones.
func (r *Repository) Reject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, rejectUser, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const rejectUser = `DELETE FROM users WHERE id = $1`

// EnsureAdmin seeds the admin account on boot. Idempotent: if the email is
// already taken the existing row is returned untouched.
func (r *Repository) EnsureAdmin(ctx context.Context, name, email, password string) (User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer tx.Rollback()

	var u User
	err = tx.GetContext(ctx, &u, getUserByEmail, email)
	if err == nil {
		return u, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, err
	}

	err = tx.GetContext(ctx, &u, createAdmin, name, email, password, time.Now().UTC())
	if err != nil {
		return User{}, err
	}

	return u, tx.Commit()
}

const getUserByEmail = `SELECT * FROM users WHERE email = $1`

const createAdmin = `
INSERT INTO users (name, email, password, is_admin, is_approved, created_at)
VALUES ($1, $2, $3, 1, 1, $4)
RETURNING *
`
