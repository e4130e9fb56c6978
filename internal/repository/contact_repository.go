package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const contactCols = "id, phone_number, store_id"

// ContactRepo persists store contact numbers.
type ContactRepo struct {
	db *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

func scanContact(s rowScanner) (*model.StoreContact, error) {
	var c model.StoreContact
	if err := s.Scan(&c.ID, &c.PhoneNumber, &c.StoreID); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *ContactRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.StoreContact, error) {
	return scanContact(q.QueryRowContext(ctx, "SELECT "+contactCols+" FROM store_contacts WHERE id = ?", id))
}

func (r *ContactRepo) Create(ctx context.Context, c *model.StoreContact) error {
	id, err := insert(ctx, r.db, "INSERT INTO store_contacts (phone_number, store_id) VALUES (?, ?)", c.PhoneNumber, c.StoreID)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *ContactRepo) List(ctx context.Context) ([]model.StoreContact, error) {
	return listRows(ctx, r.db, "SELECT "+contactCols+" FROM store_contacts ORDER BY id", scanContact)
}

func (r *ContactRepo) Get(ctx context.Context, id uint64) (*model.StoreContact, error) {
	return r.get(ctx, r.db, id)
}

func (r *ContactRepo) Update(ctx context.Context, id uint64, c *model.StoreContact) error {
	return updateByID(ctx, r.db, "store_contacts", id,
		"UPDATE store_contacts SET phone_number = ?, store_id = ? WHERE id = ?",
		[]any{c.PhoneNumber, c.StoreID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*c = *got
			return nil
		})
}

func (r *ContactRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "store_contacts", id)
}
