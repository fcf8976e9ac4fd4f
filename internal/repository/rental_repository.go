package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

// RentalRepo toggles and reads the return state of rentals.  A rental
// matches a (customer, movie) pair when its inventory copy is of that film.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo constructs a RentalRepo with the provided DB handle.
func NewRentalRepo(db *sql.DB) *RentalRepo {
	return &RentalRepo{db: db}
}

// MarkReturned sets return_date to the store's current time on every
// rental of filmID by customerID and reports how many rows changed.
func (r *RentalRepo) MarkReturned(ctx context.Context, customerID, filmID uint64) (n int64, err error) {
	defer func(start time.Time) { observe("rental.return", start, err) }(time.Now())
	const q = `UPDATE rental AS r
	           INNER JOIN inventory AS i ON r.inventory_id = i.inventory_id
	           SET r.return_date = NOW()
	           WHERE r.customer_id = ? AND i.film_id = ?`
	return r.exec(ctx, q, customerID, filmID)
}

// MarkUnreturned clears return_date on the same rentals MarkReturned touches.
func (r *RentalRepo) MarkUnreturned(ctx context.Context, customerID, filmID uint64) (n int64, err error) {
	defer func(start time.Time) { observe("rental.unreturn", start, err) }(time.Now())
	const q = `UPDATE rental AS r
	           INNER JOIN inventory AS i ON r.inventory_id = i.inventory_id
	           SET r.return_date = NULL
	           WHERE r.customer_id = ? AND i.film_id = ?`
	return r.exec(ctx, q, customerID, filmID)
}

// ListByCustomerAndFilm returns the rentals matched by the return toggles.
func (r *RentalRepo) ListByCustomerAndFilm(ctx context.Context, customerID, filmID uint64) (out []model.Rental, err error) {
	defer func(start time.Time) { observe("rental.list", start, err) }(time.Now())
	const q = `SELECT r.rental_id, r.customer_id, r.inventory_id, r.rental_date, r.return_date
	           FROM rental AS r
	           INNER JOIN inventory AS i ON r.inventory_id = i.inventory_id
	           WHERE r.customer_id = ? AND i.film_id = ?
	           ORDER BY r.rental_id`
	rows, err := r.db.QueryContext(ctx, q, customerID, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out = []model.Rental{}
	for rows.Next() {
		var rt model.Rental
		if err = rows.Scan(&rt.RentalID, &rt.CustomerID, &rt.InventoryID, &rt.RentalDate, &rt.ReturnDate); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RentalRepo) exec(ctx context.Context, q string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
