package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// insert executes an INSERT and returns the generated id.
func insert(ctx context.Context, q database.Querier, query string, args ...any) (uint64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// lockByID takes a row lock on table.id inside tx.  It returns ErrNotFound
// when the row does not exist, which lets updates distinguish a missing
// row from an update that changed nothing.
func lockByID(ctx context.Context, tx *sql.Tx, table string, id uint64) error {
	var got uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM "+table+" WHERE id = ? FOR UPDATE", id).Scan(&got)
	return translate(err)
}

// deleteByID removes table.id and reports ErrNotFound when no row matched.
// Dependent rows are removed by the ON DELETE rules of the schema.
func deleteByID(ctx context.Context, db *sql.DB, table string, id uint64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return translate(err)
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

// updateByID locks the row, runs the UPDATE and reloads the row with get,
// all in one transaction.
func updateByID(ctx context.Context, db *sql.DB, table string, id uint64, query string, args []any, reload func(q database.Querier) error) error {
	return database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := lockByID(ctx, tx, table, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return translate(err)
		}
		return reload(tx)
	})
}

// listRows runs query and scans every row with scan.  The result is never
// nil so it serialises as an empty JSON array.
func listRows[T any](ctx context.Context, db *sql.DB, query string, scan func(rowScanner) (*T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
