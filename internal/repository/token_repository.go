package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

// TokenRepo is the refresh token ledger.  Rows are keyed by the SHA-256
// of the token string; revocation deletes the row.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Issue inserts a ledger row associating token with userID.
func (r *TokenRepo) Issue(ctx context.Context, userID uint64, token string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, utils.HashRefreshRaw(token), exp.UTC())
	return translate(err)
}

// Lookup returns the ledger row for token or ErrTokenNotFound.
func (r *TokenRepo) Lookup(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		utils.HashRefreshRaw(token)).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke deletes the ledger row for token.  It returns ErrTokenNotFound
// when the token was never issued or is already revoked, so a token can
// be revoked at most once.
func (r *TokenRepo) Revoke(ctx context.Context, token string) error {
	hash := utils.HashRefreshRaw(token)
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var id uint64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM refresh_tokens WHERE token_hash=? FOR UPDATE", hash).Scan(&id)
		if err == sql.ErrNoRows {
			return ErrTokenNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE id=?", id)
		return err
	})
}

// DeleteExpired removes every row whose expiry is before now and returns
// how many were removed.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
