package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dentexpo/expo-manager/internal/model"
)

// ExhibitionRepo manages persistence for exhibitions.
type ExhibitionRepo struct {
	db *sql.DB
}

// NewExhibitionRepo constructs an ExhibitionRepo with the given DB handle.
func NewExhibitionRepo(db *sql.DB) *ExhibitionRepo {
	return &ExhibitionRepo{db: db}
}

const exhibitionCols = `exhibition_id, name, address, start_date, end_date, created_at, updated_at`

func scanExhibition(row interface{ Scan(...any) error }) (*model.Exhibition, error) {
	var e model.Exhibition
	var start, end, created, updated dbTime
	if err := row.Scan(&e.ID, &e.Name, &e.Address, &start, &end, &created, &updated); err != nil {
		return nil, err
	}
	e.StartDate, e.EndDate = start.t, end.t
	e.CreatedAt, e.UpdatedAt = created.t, updated.t
	return &e, nil
}

// Create inserts a new exhibition and populates the generated ID and
// timestamps on the given struct.
func (r *ExhibitionRepo) Create(ctx context.Context, e *model.Exhibition) error {
	const q = `INSERT INTO exhibitions (name, address, start_date, end_date) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Address, dateStr(e.StartDate), dateStr(e.EndDate))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	const sel = `SELECT ` + exhibitionCols + ` FROM exhibitions WHERE exhibition_id = ?`
	stored, err := scanExhibition(r.db.QueryRowContext(ctx, sel, e.ID))
	if err != nil {
		return err
	}
	*e = *stored
	return nil
}

// CreateBatch inserts several exhibitions in one transaction.
func (r *ExhibitionRepo) CreateBatch(ctx context.Context, exhibitions []model.Exhibition) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO exhibitions (name, address, start_date, end_date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for _, e := range exhibitions {
		res, err := stmt.ExecContext(ctx, e.Name, e.Address, dateStr(e.StartDate), dateStr(e.EndDate))
		if err != nil {
			return 0, err
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	return n, tx.Commit()
}

// GetByID retrieves an exhibition by its ID.  Returns
// ErrExhibitionNotFound when no row matches.
func (r *ExhibitionRepo) GetByID(ctx context.Context, id uint64) (*model.Exhibition, error) {
	const q = `SELECT ` + exhibitionCols + ` FROM exhibitions WHERE exhibition_id = ?`
	e, err := scanExhibition(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrExhibitionNotFound
	}
	return e, err
}

// List returns all exhibitions ordered by start date.
func (r *ExhibitionRepo) List(ctx context.Context) ([]model.Exhibition, error) {
	const q = `SELECT ` + exhibitionCols + ` FROM exhibitions ORDER BY start_date`
	return r.queryExhibitions(ctx, q)
}

// ListByDateRange returns exhibitions whose start or end date falls
// inside [from, to], ordered by start date.  The composite index on
// (start_date, end_date) serves this query.
func (r *ExhibitionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.Exhibition, error) {
	const q = `SELECT ` + exhibitionCols + ` FROM exhibitions
		WHERE (start_date BETWEEN ? AND ?) OR (end_date BETWEEN ? AND ?)
		ORDER BY start_date`
	f, t := dateStr(from), dateStr(to)
	return r.queryExhibitions(ctx, q, f, t, f, t)
}

func (r *ExhibitionRepo) queryExhibitions(ctx context.Context, q string, args ...any) ([]model.Exhibition, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Exhibition
	for rows.Next() {
		e, err := scanExhibition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of an exhibition.  Returns
// ErrExhibitionNotFound when the row does not exist.
func (r *ExhibitionRepo) Update(ctx context.Context, e *model.Exhibition) error {
	const q = `UPDATE exhibitions SET name = ?, address = ?, start_date = ?, end_date = ? WHERE exhibition_id = ?`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Address, dateStr(e.StartDate), dateStr(e.EndDate), e.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		if _, err := r.GetByID(ctx, e.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an exhibition.  Exhibitions with participation
// records yield ErrConflict unless cascade is set.
func (r *ExhibitionRepo) Delete(ctx context.Context, id uint64, cascade bool) error {
	var n int
	const cnt = `SELECT COUNT(*) FROM product_exhibition_records WHERE exhibition_id = ?`
	if err := r.db.QueryRowContext(ctx, cnt, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 && !cascade {
		return ErrConflict
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if n > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_exhibition_records WHERE exhibition_id = ?`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM exhibitions WHERE exhibition_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrExhibitionNotFound
	}
	return tx.Commit()
}
