package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const storeCols = "id, name, description, address, image, owner_id, category_id"

// StoreRepo persists stores.
type StoreRepo struct {
	db *sql.DB
}

func NewStoreRepo(db *sql.DB) *StoreRepo {
	return &StoreRepo{db: db}
}

func scanStore(s rowScanner) (*model.Store, error) {
	var st model.Store
	if err := s.Scan(&st.ID, &st.Name, &st.Description, &st.Address, &st.Image, &st.OwnerID, &st.CategoryID); err != nil {
		return nil, translate(err)
	}
	return &st, nil
}

func (r *StoreRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Store, error) {
	return scanStore(q.QueryRowContext(ctx, "SELECT "+storeCols+" FROM stores WHERE id = ?", id))
}

// Create inserts a store.  Unknown owner or category ids yield
// ErrInvalidReference.
func (r *StoreRepo) Create(ctx context.Context, st *model.Store) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO stores (name, description, address, image, owner_id, category_id) VALUES (?, ?, ?, ?, ?, ?)",
		st.Name, st.Description, st.Address, st.Image, st.OwnerID, st.CategoryID)
	if err != nil {
		return err
	}
	st.ID = id
	return nil
}

func (r *StoreRepo) List(ctx context.Context) ([]model.Store, error) {
	return listRows(ctx, r.db, "SELECT "+storeCols+" FROM stores ORDER BY id", scanStore)
}

func (r *StoreRepo) Get(ctx context.Context, id uint64) (*model.Store, error) {
	return r.get(ctx, r.db, id)
}

func (r *StoreRepo) Update(ctx context.Context, id uint64, st *model.Store) error {
	return updateByID(ctx, r.db, "stores", id,
		"UPDATE stores SET name = ?, description = ?, address = ?, image = ?, owner_id = ?, category_id = ? WHERE id = ?",
		[]any{st.Name, st.Description, st.Address, st.Image, st.OwnerID, st.CategoryID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*st = *got
			return nil
		})
}

// Delete removes the store together with its contacts, products, combos
// and reviews.
func (r *StoreRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "stores", id)
}
