package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/glovo-marketplace/internal/model"
)

var comboColumns = []string{"id", "name", "description", "price", "image", "store_id"}

func TestComboCreate(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	img := "combo.png"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_combos (name, description, price, image, store_id) VALUES (?, ?, ?, ?, ?)")).
		WithArgs("Menu", "Burger and fries", "9.99", img, 2).
		WillReturnResult(sqlmock.NewResult(6, 1))

	p := &model.ProductCombo{Name: "Menu", Description: "Burger and fries", Price: decimal.RequireFromString("9.99"), Image: &img, StoreID: 2}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint64(6), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboCreateUnknownStore(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_combos")).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	err := repo.Create(context.Background(), &model.ProductCombo{Name: "Menu", StoreID: 99})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestComboList(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + comboCols + " FROM product_combos ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(comboColumns).AddRow(6, "Menu", "", "9.99", nil, 2))

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(items[0].Price))
	assert.Nil(t, items[0].Image)
}

func TestComboUpdate(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM product_combos WHERE id = ? FOR UPDATE")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE product_combos SET name = ?, description = ?, price = ?, image = ?, store_id = ? WHERE id = ?")).
		WithArgs("Big menu", "d", "14", nil, 2, 6).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + comboCols + " FROM product_combos WHERE id = ?")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows(comboColumns).AddRow(6, "Big menu", "d", "14.00", nil, 2))
	mock.ExpectCommit()

	p := &model.ProductCombo{Name: "Big menu", Description: "d", Price: decimal.NewFromInt(14), StoreID: 2}
	require.NoError(t, repo.Update(context.Background(), 6, p))
	assert.Equal(t, uint64(6), p.ID)
	assert.True(t, decimal.NewFromInt(14).Equal(p.Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboUpdateNotFoundRollsBack(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM product_combos WHERE id = ? FOR UPDATE")).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 6, &model.ProductCombo{Name: "x", StoreID: 2})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboDelete(t *testing.T) {
	db, mock := newDB(t)
	repo := NewComboRepo(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM product_combos WHERE id = ?")).
		WithArgs(6).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 6))
	assert.NoError(t, mock.ExpectationsWereMet())
}
