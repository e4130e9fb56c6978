package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const comboCols = "id, name, description, price, image, store_id"

// ComboRepo persists product combos.
type ComboRepo struct {
	db *sql.DB
}

func NewComboRepo(db *sql.DB) *ComboRepo {
	return &ComboRepo{db: db}
}

func scanCombo(s rowScanner) (*model.ProductCombo, error) {
	var p model.ProductCombo
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.StoreID); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ComboRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.ProductCombo, error) {
	return scanCombo(q.QueryRowContext(ctx, "SELECT "+comboCols+" FROM product_combos WHERE id = ?", id))
}

func (r *ComboRepo) Create(ctx context.Context, p *model.ProductCombo) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO product_combos (name, description, price, image, store_id) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Description, p.Price, p.Image, p.StoreID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *ComboRepo) List(ctx context.Context) ([]model.ProductCombo, error) {
	return listRows(ctx, r.db, "SELECT "+comboCols+" FROM product_combos ORDER BY id", scanCombo)
}

func (r *ComboRepo) Get(ctx context.Context, id uint64) (*model.ProductCombo, error) {
	return r.get(ctx, r.db, id)
}

func (r *ComboRepo) Update(ctx context.Context, id uint64, p *model.ProductCombo) error {
	return updateByID(ctx, r.db, "product_combos", id,
		"UPDATE product_combos SET name = ?, description = ?, price = ?, image = ?, store_id = ? WHERE id = ?",
		[]any{p.Name, p.Description, p.Price, p.Image, p.StoreID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*p = *got
			return nil
		})
}

func (r *ComboRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "product_combos", id)
}
