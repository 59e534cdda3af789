package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dentexpo/expo-manager/internal/config"
)

// Open connects to MySQL using the database section of the settings
// file and verifies the connection.  Pool size and acquire timeout
// come from configuration, defaulting to a pool of 5 and a 30 second
// timeout.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=%s&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.Database, charset)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	pool := cfg.PoolSize
	if pool <= 0 {
		pool = 5
	}
	db.SetMaxOpenConns(pool)
	db.SetMaxIdleConns(pool)
	db.SetConnMaxLifetime(30 * time.Minute)

	timeout := time.Duration(cfg.PoolTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
