package model

// Customer mirrors the columns of the `customer` table this API reads and
// writes.  Email is nullable in the schema.
type Customer struct {
	CustomerID uint64  `json:"customer_id"`
	StoreID    uint64  `json:"store_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      *string `json:"email"`
}

// CustomerSearchField names a column customers can be searched by.
type CustomerSearchField string

const (
	SearchByID        CustomerSearchField = "customer_id"
	SearchByFirstName CustomerSearchField = "first_name"
	SearchByLastName  CustomerSearchField = "last_name"
)

// Valid reports whether f is one of the searchable columns.
func (f CustomerSearchField) Valid() bool {
	switch f {
	case SearchByID, SearchByFirstName, SearchByLastName:
		return true
	}
	return false
}
