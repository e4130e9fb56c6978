package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const userCols = "id, first_name, last_name, username, password_hash, phone_number, age, role, created_at"

// UserRepo persists user accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(s rowScanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash,
		&u.PhoneNumber, &u.Age, &u.Role, &u.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Create inserts u and sets its ID.  The password must already be hashed
// via SetPassword.  A taken username yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Username = strings.TrimSpace(u.Username)
	id, err := insert(ctx, r.DB,
		"INSERT INTO users (first_name, last_name, username, password_hash, phone_number, age, role) VALUES (?,?,?,?,?,?,?)",
		u.FirstName, u.LastName, u.Username, u.PasswordHash, u.PhoneNumber, u.Age, string(u.Role))
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// ExistsByUsername reports whether an account with username exists.
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByUsername fetches a user by username or returns ErrNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
}

// GetByID fetches a user by id or returns ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}
