package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// HealthRepo checks that the store answers queries.
type HealthRepo struct {
	db *sql.DB
}

// NewHealthRepo constructs a HealthRepo with the provided DB handle.
func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

// Check runs a trivial arithmetic query and verifies its result.
func (r *HealthRepo) Check(ctx context.Context) (err error) {
	defer func(start time.Time) { observe("health.check", start, err) }(time.Now())
	var result int
	if err = r.db.QueryRowContext(ctx, "SELECT 1+1 AS result").Scan(&result); err != nil {
		return err
	}
	if result != 2 {
		return fmt.Errorf("unexpected connectivity result %d", result)
	}
	return nil
}
