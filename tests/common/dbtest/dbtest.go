//go:build e2e

package dbtest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ResetDB truncates mutable tables so each subtest starts from a clean slate.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, "TRUNCATE TABLE pricing_rules RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate pricing_rules: %w", err)
	}
	return nil
}

// CountRules returns the number of stored pricing rules, used to assert
// side effects of mutation endpoints directly against the database.
func CountRules(pool *pgxpool.Pool) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM pricing_rules").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pricing_rules: %w", err)
	}
	return count, nil
}
