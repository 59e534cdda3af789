package repository

import (
	"context"
	"database/sql"

	"github.com/dentexpo/expo-manager/internal/model"
)

// ProductRepo manages persistence for products.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the given DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ProductRepo) DB() *sql.DB {
	return r.db
}

const productCols = `product_id, model, name, color, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	var created, updated dbTime
	if err := row.Scan(&p.ID, &p.Model, &p.Name, &p.Color, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, p.UpdatedAt = created.t, updated.t
	return &p, nil
}

// Create inserts a new product and populates the generated ID and
// DB-maintained timestamps on the given struct.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	const q = `INSERT INTO products (model, name, color) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.Model, p.Name, p.Color)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + productCols + ` FROM products WHERE product_id = ?`
	stored, err := scanProduct(r.db.QueryRowContext(ctx, sel, p.ID))
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// CreateBatch inserts several products in one transaction.  It
// returns the number of rows inserted; on error nothing is kept.
func (r *ProductRepo) CreateBatch(ctx context.Context, products []model.Product) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO products (model, name, color) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	var n int64
	for _, p := range products {
		res, err := stmt.ExecContext(ctx, p.Model, p.Name, p.Color)
		if err != nil {
			return 0, err
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	return n, tx.Commit()
}

// GetByID retrieves a product by its ID.  Returns ErrProductNotFound
// when no row matches.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	const q = `SELECT ` + productCols + ` FROM products WHERE product_id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	return p, err
}

// List returns all products ordered by ID.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	const q = `SELECT ` + productCols + ` FROM products ORDER BY product_id`
	return r.queryProducts(ctx, q)
}

// SearchByModel returns products whose model code contains the term.
// The secondary index on products.model keeps prefix searches cheap.
func (r *ProductRepo) SearchByModel(ctx context.Context, term string) ([]model.Product, error) {
	const q = `SELECT ` + productCols + ` FROM products WHERE model LIKE ? ORDER BY product_id`
	return r.queryProducts(ctx, q, "%"+term+"%")
}

func (r *ProductRepo) queryProducts(ctx context.Context, q string, args ...any) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a product.  Returns
// ErrProductNotFound when the row does not exist.  An update that
// changes nothing is not an error.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	const q = `UPDATE products SET model = ?, name = ?, color = ? WHERE product_id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Model, p.Name, p.Color, p.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// MySQL also reports zero when the values are unchanged, so
		// distinguish a missing row from a no-op update.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product.  Products that still have participation
// records yield ErrConflict unless cascade is set, in which case the
// records are removed in the same transaction.
func (r *ProductRepo) Delete(ctx context.Context, id uint64, cascade bool) error {
	var n int
	const cnt = `SELECT COUNT(*) FROM product_exhibition_records WHERE product_id = ?`
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
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_exhibition_records WHERE product_id = ?`, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE product_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrProductNotFound
	}
	return tx.Commit()
}
