package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const categoryCols = "id, name"

// CategoryRepo encapsulates all database queries related to categories.
type CategoryRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCategoryRepo constructs a CategoryRepo with the provided DB handle.
func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func scanCategory(s rowScanner) (*model.Category, error) {
	var c model.Category
	if err := s.Scan(&c.ID, &c.Name); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CategoryRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Category, error) {
	return scanCategory(q.QueryRowContext(ctx, "SELECT "+categoryCols+" FROM categories WHERE id = ?", id))
}

// Create inserts a new category and populates its ID.  A duplicate name
// yields ErrConflict.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	id, err := insert(ctx, r.db, "INSERT INTO categories (name) VALUES (?)", c.Name)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// List returns every category ordered by id.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	return listRows(ctx, r.db, "SELECT "+categoryCols+" FROM categories ORDER BY id", scanCategory)
}

// Get fetches a category by id or returns ErrNotFound.
func (r *CategoryRepo) Get(ctx context.Context, id uint64) (*model.Category, error) {
	return r.get(ctx, r.db, id)
}

// Update overwrites every column of category id with c.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, c *model.Category) error {
	return updateByID(ctx, r.db, "categories", id,
		"UPDATE categories SET name = ? WHERE id = ?", []any{c.Name, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*c = *got
			return nil
		})
}

// Delete removes the category and, through the schema's cascade rules,
// its stores.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "categories", id)
}
