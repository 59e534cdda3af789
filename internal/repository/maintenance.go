package repository

import (
	"context"
	"database/sql"
)

// Optimize reclaims table space after large cleanups.  MySQL-specific;
// errors are returned so the caller can log and continue, since a
// failed OPTIMIZE never affects data correctness.
func Optimize(ctx context.Context, db *sql.DB) error {
	for _, q := range []string{
		"OPTIMIZE TABLE products",
		"OPTIMIZE TABLE exhibitions",
		"OPTIMIZE TABLE product_exhibition_records",
	} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
