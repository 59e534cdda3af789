package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dentexpo/expo-manager/internal/model"
)

// RecordRepo manages persistence for participation records, the join
// entity between products and exhibitions.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo constructs a RecordRepo with the given DB handle.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// recordCols selects records joined with the parent names so list
// responses can be displayed without extra lookups.
const recordCols = `r.record_id, r.product_id, r.exhibition_id, r.status,
	p.name, e.name, r.created_at, r.updated_at`

const recordJoin = ` FROM product_exhibition_records r
	JOIN products p ON r.product_id = p.product_id
	JOIN exhibitions e ON r.exhibition_id = e.exhibition_id`

func scanRecord(row interface{ Scan(...any) error }) (*model.ParticipationRecord, error) {
	var rec model.ParticipationRecord
	var created, updated dbTime
	if err := row.Scan(&rec.ID, &rec.ProductID, &rec.ExhibitionID, &rec.Status,
		&rec.ProductName, &rec.ExhibitionName, &created, &updated); err != nil {
		return nil, err
	}
	rec.CreatedAt, rec.UpdatedAt = created.t, updated.t
	return &rec, nil
}

// Create inserts a participation record after verifying both parents
// exist, which turns a driver-level FK violation into a friendly
// sentinel the handler can map to 404.
func (r *RecordRepo) Create(ctx context.Context, rec *model.ParticipationRecord) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM products WHERE product_id = ?`, rec.ProductID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrProductNotFound
		}
		return err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM exhibitions WHERE exhibition_id = ?`, rec.ExhibitionID).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrExhibitionNotFound
		}
		return err
	}

	if rec.Status == "" {
		rec.Status = model.StatusPending
	}
	const q = `INSERT INTO product_exhibition_records (product_id, exhibition_id, status) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rec.ProductID, rec.ExhibitionID, string(rec.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)

	stored, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	*rec = *stored
	return nil
}

// GetByID retrieves a record with its joined parent names.  Returns
// ErrRecordNotFound when no row matches.
func (r *RecordRepo) GetByID(ctx context.Context, id uint64) (*model.ParticipationRecord, error) {
	const q = `SELECT ` + recordCols + recordJoin + ` WHERE r.record_id = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return rec, err
}

// List returns all records, most recent exhibitions first.
func (r *RecordRepo) List(ctx context.Context) ([]model.ParticipationRecord, error) {
	const q = `SELECT ` + recordCols + recordJoin + ` ORDER BY e.start_date DESC, r.record_id`
	return r.queryRecords(ctx, q)
}

// ListByStatus returns records in the given participation state,
// ordered by exhibition start date.
func (r *RecordRepo) ListByStatus(ctx context.Context, status model.RecordStatus) ([]model.ParticipationRecord, error) {
	const q = `SELECT ` + recordCols + recordJoin + ` WHERE r.status = ? ORDER BY e.start_date, r.record_id`
	return r.queryRecords(ctx, q, string(status))
}

// ListByProduct returns the participation history of one product.
func (r *RecordRepo) ListByProduct(ctx context.Context, productID uint64) ([]model.ParticipationRecord, error) {
	const q = `SELECT ` + recordCols + recordJoin + ` WHERE r.product_id = ? ORDER BY e.start_date DESC`
	return r.queryRecords(ctx, q, productID)
}

// ListByExhibition returns all records of one exhibition.
func (r *RecordRepo) ListByExhibition(ctx context.Context, exhibitionID uint64) ([]model.ParticipationRecord, error) {
	const q = `SELECT ` + recordCols + recordJoin + ` WHERE r.exhibition_id = ? ORDER BY r.record_id`
	return r.queryRecords(ctx, q, exhibitionID)
}

func (r *RecordRepo) queryRecords(ctx context.Context, q string, args ...any) ([]model.ParticipationRecord, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ParticipationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// UpdateStatus sets the participation status of a record.  Returns
// ErrRecordNotFound when the row does not exist.
func (r *RecordRepo) UpdateStatus(ctx context.Context, id uint64, status model.RecordStatus) error {
	const q = `UPDATE product_exhibition_records SET status = ? WHERE record_id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM product_exhibition_records WHERE record_id = ?`, id).Scan(&one)
		if err == sql.ErrNoRows {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

// Delete removes a participation record.
func (r *RecordRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_exhibition_records WHERE record_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CountForProduct returns how many exhibitions a product attends.
func (r *RecordRepo) CountForProduct(ctx context.Context, productID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_exhibition_records WHERE product_id = ?`, productID).Scan(&n)
	return n, err
}

// CountForExhibition returns how many products attend an exhibition.
func (r *RecordRepo) CountForExhibition(ctx context.Context, exhibitionID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_exhibition_records WHERE exhibition_id = ?`, exhibitionID).Scan(&n)
	return n, err
}

// RefreshStatuses derives every record's status from its exhibition
// window as of the given day and persists the rows that changed.  It
// returns the number of updated records.
func (r *RecordRepo) RefreshStatuses(ctx context.Context, day time.Time) (int, error) {
	const q = `SELECT r.record_id, r.status, e.start_date, e.end_date` + recordJoin
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	type pending struct {
		id     uint64
		status model.RecordStatus
	}
	var changes []pending
	for rows.Next() {
		var id uint64
		var status model.RecordStatus
		var start, end dbTime
		if err := rows.Scan(&id, &status, &start, &end); err != nil {
			return 0, err
		}
		if want := model.StatusForDates(start.t, end.t, day); want != status {
			changes = append(changes, pending{id: id, status: want})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, c := range changes {
		if err := r.UpdateStatus(ctx, c.id, c.status); err != nil {
			return 0, err
		}
	}
	return len(changes), nil
}

// CleanupOlderThan removes records of exhibitions that ended more
// than the given number of days ago and returns how many were
// deleted.  The cutoff is computed in Go so the query stays portable.
func (r *RecordRepo) CleanupOlderThan(ctx context.Context, days int, now time.Time) (int64, error) {
	cutoff := dateStr(now.AddDate(0, 0, -days))
	const q = `DELETE FROM product_exhibition_records WHERE exhibition_id IN (
		SELECT exhibition_id FROM exhibitions WHERE end_date < ?)`
	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
