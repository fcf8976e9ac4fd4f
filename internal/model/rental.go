package model

import "time"

// Rental mirrors the `rental` table.  ReturnDate is nil while the copy is
// still out.
type Rental struct {
	RentalID    uint64     `json:"rental_id"`
	CustomerID  uint64     `json:"customer_id"`
	InventoryID uint64     `json:"inventory_id"`
	RentalDate  time.Time  `json:"rental_date"`
	ReturnDate  *time.Time `json:"return_date"`
}
