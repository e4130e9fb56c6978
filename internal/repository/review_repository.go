package repository

// This file holds the two review repositories.  Store and courier reviews
// share a shape but live in separate tables with different subject
// foreign keys.

import (
	"context"
	"database/sql"

	"github.com/iliyamo/glovo-marketplace/internal/database"
	"github.com/iliyamo/glovo-marketplace/internal/model"
)

const (
	storeReviewCols   = "id, rating, comment, client_id, store_id, created_at"
	courierReviewCols = "id, rating, comment, client_id, courier_id, created_at"
)

// StoreReviewRepo persists store reviews.
type StoreReviewRepo struct {
	db *sql.DB
}

func NewStoreReviewRepo(db *sql.DB) *StoreReviewRepo {
	return &StoreReviewRepo{db: db}
}

func scanStoreReview(s rowScanner) (*model.StoreReview, error) {
	var rv model.StoreReview
	if err := s.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.ClientID, &rv.StoreID, &rv.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *StoreReviewRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.StoreReview, error) {
	return scanStoreReview(q.QueryRowContext(ctx, "SELECT "+storeReviewCols+" FROM store_reviews WHERE id = ?", id))
}

func (r *StoreReviewRepo) Create(ctx context.Context, rv *model.StoreReview) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := insert(ctx, tx,
			"INSERT INTO store_reviews (rating, comment, client_id, store_id) VALUES (?, ?, ?, ?)",
			rv.Rating, rv.Comment, rv.ClientID, rv.StoreID)
		if err != nil {
			return err
		}
		got, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		*rv = *got
		return nil
	})
}

func (r *StoreReviewRepo) List(ctx context.Context) ([]model.StoreReview, error) {
	return listRows(ctx, r.db, "SELECT "+storeReviewCols+" FROM store_reviews ORDER BY id", scanStoreReview)
}

func (r *StoreReviewRepo) Get(ctx context.Context, id uint64) (*model.StoreReview, error) {
	return r.get(ctx, r.db, id)
}

func (r *StoreReviewRepo) Update(ctx context.Context, id uint64, rv *model.StoreReview) error {
	return updateByID(ctx, r.db, "store_reviews", id,
		"UPDATE store_reviews SET rating = ?, comment = ?, client_id = ?, store_id = ? WHERE id = ?",
		[]any{rv.Rating, rv.Comment, rv.ClientID, rv.StoreID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*rv = *got
			return nil
		})
}

func (r *StoreReviewRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "store_reviews", id)
}

// CourierReviewRepo persists courier reviews.
type CourierReviewRepo struct {
	db *sql.DB
}

func NewCourierReviewRepo(db *sql.DB) *CourierReviewRepo {
	return &CourierReviewRepo{db: db}
}

func scanCourierReview(s rowScanner) (*model.CourierReview, error) {
	var rv model.CourierReview
	if err := s.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.ClientID, &rv.CourierID, &rv.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &rv, nil
}

func (r *CourierReviewRepo) get(ctx context.Context, q database.Querier, id uint64) (*model.CourierReview, error) {
	return scanCourierReview(q.QueryRowContext(ctx, "SELECT "+courierReviewCols+" FROM courier_reviews WHERE id = ?", id))
}

func (r *CourierReviewRepo) Create(ctx context.Context, rv *model.CourierReview) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := insert(ctx, tx,
			"INSERT INTO courier_reviews (rating, comment, client_id, courier_id) VALUES (?, ?, ?, ?)",
			rv.Rating, rv.Comment, rv.ClientID, rv.CourierID)
		if err != nil {
			return err
		}
		got, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		*rv = *got
		return nil
	})
}

func (r *CourierReviewRepo) List(ctx context.Context) ([]model.CourierReview, error) {
	return listRows(ctx, r.db, "SELECT "+courierReviewCols+" FROM courier_reviews ORDER BY id", scanCourierReview)
}

func (r *CourierReviewRepo) Get(ctx context.Context, id uint64) (*model.CourierReview, error) {
	return r.get(ctx, r.db, id)
}

func (r *CourierReviewRepo) Update(ctx context.Context, id uint64, rv *model.CourierReview) error {
	return updateByID(ctx, r.db, "courier_reviews", id,
		"UPDATE courier_reviews SET rating = ?, comment = ?, client_id = ?, courier_id = ? WHERE id = ?",
		[]any{rv.Rating, rv.Comment, rv.ClientID, rv.CourierID, id},
		func(q database.Querier) error {
			got, err := r.get(ctx, q, id)
			if err != nil {
				return err
			}
			*rv = *got
			return nil
		})
}

func (r *CourierReviewRepo) Delete(ctx context.Context, id uint64) error {
	return deleteByID(ctx, r.db, "courier_reviews", id)
}
