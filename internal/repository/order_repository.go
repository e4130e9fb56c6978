package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const orderCols = "id, delivery_address, status, client_id, courier_id, created_at"

// OrderRepo persists orders.  Concurrent updates of the same order are
// serialised by the row lock taken in Update.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func scanOrder(s rowScanner) (*model.Order, error) {
	var o model.Order
	if err := s.Scan(&o.ID, &o.DeliveryAddress, &o.Status, &o.ClientID, &o.CourierID, &o.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.Order, error) {
	return scanOrder(q.QueryRowContext(ctx, "SELECT "+orderCols+" FROM orders WHERE id = ?", id))
}

// Create inserts an order and reloads it so that created_at is populated.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := insert(ctx, tx,
			"INSERT INTO orders (delivery_address, status, client_id, courier_id) VALUES (?, ?, ?, ?)",
			o.DeliveryAddress, string(o.Status), o.ClientID, o.CourierID)
		if err != nil {
			return err
		}
		got, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		*o = *got
		return nil
	})
}

func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	return listRows(ctx, r.db, "SELECT "+orderCols+" FROM orders ORDER BY id", scanOrder)
}

func (r *OrderRepo) Get(ctx context.Context, id uint64) (*model.Order, error) {
	return r.get(ctx, r.db, id)
}

// Update overwrites address, status, client and courier.  created_at is
// kept.
func (r *OrderRepo) Update(ctx context.Context, id uint64, o *model.Order) error {
	return updateByID(ctx, r.db, "orders", id,
		"UPDATE orders SET delivery_address = ?, status = ?, client_id = ?, courier_id = ? WHERE id = ?",
		[]any{o.DeliveryAddress, string(o.Status), o.ClientID, o.CourierID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*o = *got
			return nil
		})
}

func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "orders", id)
}
