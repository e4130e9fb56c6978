package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const productCols = "id, name, description, price, image, store_id"

// ProductRepo persists catalog products.  Prices are read and written as
// decimal.Decimal, which implements sql.Scanner and driver.Valuer.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func scanProduct(s rowScanner) (*model.Product, error) {
	var p model.Product
	if err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.StoreID); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Product, error) {
	return scanProduct(q.QueryRowContext(ctx, "SELECT "+productCols+" FROM products WHERE id = ?", id))
}

func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO products (name, description, price, image, store_id) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.Description, p.Price, p.Image, p.StoreID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	return listRows(ctx, r.db, "SELECT "+productCols+" FROM products ORDER BY id", scanProduct)
}

func (r *ProductRepo) Get(ctx context.Context, id uint64) (*model.Product, error) {
	return r.get(ctx, r.db, id)
}

func (r *ProductRepo) Update(ctx context.Context, id uint64, p *model.Product) error {
	return updateByID(ctx, r.db, "products", id,
		"UPDATE products SET name = ?, description = ?, price = ?, image = ?, store_id = ? WHERE id = ?",
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

func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "products", id)
}
