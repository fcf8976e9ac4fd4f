package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/movie-rental-api/internal/model"
)

// NewCustomer carries the columns written by Create.  CustomerID is
// optional; when nil the store assigns the id.
type NewCustomer struct {
	CustomerID *uint64
	StoreID    uint64
	AddressID  uint64
	FirstName  string
	LastName   string
	Email      string
}

// CustomerUpdate carries the columns written by Update.  A nil StoreID
// keeps the stored value.
type CustomerUpdate struct {
	StoreID   *uint64
	FirstName string
	LastName  string
	Email     string
}

// CustomerRepo encapsulates all queries on the customer table.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

const customerColumns = "customer_id, store_id, first_name, last_name, email"

// searchColumns maps a search field to the column it filters.  The column
// name in the SQL text only ever comes from this map.
var searchColumns = map[model.CustomerSearchField]string{
	model.SearchByID:        "customer_id",
	model.SearchByFirstName: "first_name",
	model.SearchByLastName:  "last_name",
}

// List returns every customer ordered by id.
func (r *CustomerRepo) List(ctx context.Context) (out []model.Customer, err error) {
	defer func(start time.Time) { observe("customer.list", start, err) }(time.Now())
	return r.query(ctx, "SELECT "+customerColumns+" FROM customer ORDER BY customer_id")
}

// SearchByID returns the customer with exactly this id, as a 0 or 1 element list.
func (r *CustomerRepo) SearchByID(ctx context.Context, id uint64) (out []model.Customer, err error) {
	defer func(start time.Time) { observe("customer.search", start, err) }(time.Now())
	return r.query(ctx, "SELECT "+customerColumns+" FROM customer WHERE customer_id = ?", id)
}

// SearchByName returns customers whose name column contains term.  The
// term is matched literally: LIKE metacharacters in it are escaped before
// it is bound.  Case sensitivity follows the column collation.
func (r *CustomerRepo) SearchByName(ctx context.Context, field model.CustomerSearchField, term string) (out []model.Customer, err error) {
	defer func(start time.Time) { observe("customer.search", start, err) }(time.Now())
	col, ok := searchColumns[field]
	if !ok || field == model.SearchByID {
		return nil, errors.New("unsupported search field: " + string(field))
	}
	q := "SELECT " + customerColumns + " FROM customer WHERE " + col + " LIKE ? ESCAPE '!' ORDER BY customer_id"
	return r.query(ctx, q, ContainsPattern(term))
}

// ContainsPattern turns term into a LIKE pattern matching any value that
// contains it, using '!' as the escape character.
func ContainsPattern(term string) string {
	esc := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(term)
	return "%" + esc + "%"
}

// GetByID fetches one customer.  It returns ErrCustomerNotFound if no row is found.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (c *model.Customer, err error) {
	defer func(start time.Time) { observe("customer.get", start, err) }(time.Now())
	var cust model.Customer
	err = r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customer WHERE customer_id = ?", id).
		Scan(&cust.CustomerID, &cust.StoreID, &cust.FirstName, &cust.LastName, &cust.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &cust, nil
}

// Create inserts a customer and returns its id.  create_date is set by the
// store clock.
func (r *CustomerRepo) Create(ctx context.Context, c NewCustomer) (id uint64, err error) {
	defer func(start time.Time) { observe("customer.insert", start, err) }(time.Now())
	var res sql.Result
	if c.CustomerID != nil {
		const q = `INSERT INTO customer (customer_id, store_id, first_name, last_name, email, address_id, create_date)
		           VALUES (?, ?, ?, ?, ?, ?, NOW())`
		res, err = r.db.ExecContext(ctx, q, *c.CustomerID, c.StoreID, c.FirstName, c.LastName, c.Email, c.AddressID)
	} else {
		const q = `INSERT INTO customer (store_id, first_name, last_name, email, address_id, create_date)
		           VALUES (?, ?, ?, ?, ?, NOW())`
		res, err = r.db.ExecContext(ctx, q, c.StoreID, c.FirstName, c.LastName, c.Email, c.AddressID)
	}
	if err != nil {
		return 0, err
	}
	if c.CustomerID != nil {
		return *c.CustomerID, nil
	}
	last, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(last), nil
}

// Update overwrites the customer's names and email, and its store when
// given.  A missing customer is not an error; the statement just affects
// no rows.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, u CustomerUpdate) (err error) {
	defer func(start time.Time) { observe("customer.update", start, err) }(time.Now())
	const q = `UPDATE customer
	           SET first_name = ?, last_name = ?, email = ?, store_id = COALESCE(?, store_id)
	           WHERE customer_id = ?`
	_, err = r.db.ExecContext(ctx, q, u.FirstName, u.LastName, u.Email, u.StoreID, id)
	return err
}

// Delete removes the customer row.  A missing customer is not an error.
// Foreign keys from rental or payment rows surface as store errors.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) (err error) {
	defer func(start time.Time) { observe("customer.delete", start, err) }(time.Now())
	_, err = r.db.ExecContext(ctx, "DELETE FROM customer WHERE customer_id = ?", id)
	return err
}

func (r *CustomerRepo) query(ctx context.Context, q string, args ...any) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.CustomerID, &c.StoreID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
