package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const courierCols = "id, user_id, status, order_id"

// CourierRepo persists courier registrations.
type CourierRepo struct {
	db *sql.DB
}

func NewCourierRepo(db *sql.DB) *CourierRepo {
	return &CourierRepo{db: db}
}

func scanCourier(s rowScanner) (*model.Courier, error) {
	var c model.Courier
	if err := s.Scan(&c.ID, &c.UserID, &c.Status, &c.OrderID); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CourierRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Courier, error) {
	return scanCourier(q.QueryRowContext(ctx, "SELECT "+courierCols+" FROM couriers WHERE id = ?", id))
}

func (r *CourierRepo) Create(ctx context.Context, c *model.Courier) error {
	id, err := insert(ctx, r.db,
		"INSERT INTO couriers (user_id, status, order_id) VALUES (?, ?, ?)",
		c.UserID, string(c.Status), c.OrderID)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *CourierRepo) List(ctx context.Context) ([]model.Courier, error) {
	return listRows(ctx, r.db, "SELECT "+courierCols+" FROM couriers ORDER BY id", scanCourier)
}

func (r *CourierRepo) Get(ctx context.Context, id uint64) (*model.Courier, error) {
	return r.get(ctx, r.db, id)
}

func (r *CourierRepo) Update(ctx context.Context, id uint64, c *model.Courier) error {
	return updateByID(ctx, r.db, "couriers", id,
		"UPDATE couriers SET user_id = ?, status = ?, order_id = ? WHERE id = ?",
		[]any{c.UserID, string(c.Status), c.OrderID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*c = *got
			return nil
		})
}

func (r *CourierRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "couriers", id)
}
