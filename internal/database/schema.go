package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for all application tables.  Statements are
// idempotent so EnsureSchema can run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		product_id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		model      VARCHAR(50)  NOT NULL,
		name       VARCHAR(100) NOT NULL,
		color      VARCHAR(20)  NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (product_id),
		KEY idx_products_model (model)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS exhibitions (
		exhibition_id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		name       VARCHAR(100) NOT NULL,
		address    VARCHAR(100) NOT NULL,
		start_date DATE NOT NULL,
		end_date   DATE NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (exhibition_id),
		KEY idx_exhibitions_dates (start_date, end_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product_exhibition_records (
		record_id     INT UNSIGNED NOT NULL AUTO_INCREMENT,
		product_id    INT UNSIGNED NOT NULL,
		exhibition_id INT UNSIGNED NOT NULL,
		status ENUM('pending','in-progress','ended') NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (record_id),
		KEY idx_records_product (product_id),
		KEY idx_records_exhibition (exhibition_id),
		CONSTRAINT fk_records_product FOREIGN KEY (product_id)
			REFERENCES products (product_id),
		CONSTRAINT fk_records_exhibition FOREIGN KEY (exhibition_id)
			REFERENCES exhibitions (exhibition_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT,
		email         VARCHAR(100) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY idx_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates all tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
