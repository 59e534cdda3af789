package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User is an operator account allowed to mutate data through the API.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash, bcrypt
	CreatedAt    time.Time // users.created_at
}

// UserRepo manages operator accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create stores a new operator account and assigns the generated ID.
// The unique index on email surfaces duplicates as a driver error.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (email, password_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, strings.ToLower(u.Email), u.PasswordHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail looks up an account by email (case-insensitive).
// Returns ErrUserNotFound when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`
	var u User
	var created dbTime
	err := r.db.QueryRowContext(ctx, q, strings.ToLower(email)).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &created)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = created.t
	return &u, nil
}
