package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dentexpo/expo-manager/internal/model"
)

// testSchema mirrors the production tables in sqlite dialect so the
// repositories can run against an in-memory database.
var testSchema = []string{
	`CREATE TABLE products (
		product_id INTEGER PRIMARY KEY AUTOINCREMENT,
		model      TEXT NOT NULL,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE exhibitions (
		exhibition_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		address    TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE product_exhibition_records (
		record_id     INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id    INTEGER NOT NULL,
		exhibition_id INTEGER NOT NULL,
		status        TEXT NOT NULL DEFAULT 'pending',
		created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// One connection so every statement sees the same in-memory DB.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range testSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return db
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustProduct(t *testing.T, repo *ProductRepo, model_, name, color string) *model.Product {
	t.Helper()
	p := &model.Product{Model: model_, Name: name, Color: color}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func mustExhibition(t *testing.T, repo *ExhibitionRepo, name string, start, end time.Time) *model.Exhibition {
	t.Helper()
	e := &model.Exhibition{Name: name, Address: "1 Expo Way", StartDate: start, EndDate: end}
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("create exhibition: %v", err)
	}
	return e
}

func mustRecord(t *testing.T, repo *RecordRepo, productID, exhibitionID uint64, status model.RecordStatus) *model.ParticipationRecord {
	t.Helper()
	rec := &model.ParticipationRecord{ProductID: productID, ExhibitionID: exhibitionID, Status: status}
	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("create record: %v", err)
	}
	return rec
}
