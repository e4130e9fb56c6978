// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// knowing about the MySQL driver.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique key, such as a
// duplicate username or category name. Handlers should translate this
// into an HTTP 409 response (400 on registration).
var ErrConflict = errors.New("conflict")

// ErrInvalidReference is returned when a foreign key points at a row that
// does not exist, or a delete is blocked by a referencing row.
var ErrInvalidReference = errors.New("invalid reference")

// ErrTokenNotFound is returned by the refresh token ledger when a token
// has never been issued or has already been revoked.
var ErrTokenNotFound = errors.New("refresh token not found")

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// translate maps driver errors onto the sentinels above.  Errors it does
// not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrConflict
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return ErrInvalidReference
		}
	}
	return err
}
