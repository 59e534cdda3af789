package repository

import (
	"context"
	"database/sql"
	"time"
)

// StatsRepo runs the aggregated queries backing the statistics
// endpoints and the chart renderers.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo constructs a StatsRepo with the given DB handle.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// CountItem is one bucket of a grouped count.
type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ProductStats summarizes the product catalog.
type ProductStats struct {
	Total             int         `json:"total_products"`
	ModelDistribution []CountItem `json:"model_distribution"`
	ColorDistribution []CountItem `json:"color_distribution"`
	MostPopularModel  string      `json:"most_popular_model,omitempty"`
	MostUsedColor     string      `json:"most_used_color,omitempty"`
}

// ExhibitionStats summarizes exhibitions by schedule.
type ExhibitionStats struct {
	Total               int         `json:"total_exhibitions"`
	Upcoming            int         `json:"upcoming"`
	Ongoing             int         `json:"ongoing"`
	Ended               int         `json:"ended"`
	MonthlyDistribution []CountItem `json:"monthly_distribution"`
}

// ProductStats aggregates totals and model/color distributions.
func (r *StatsRepo) ProductStats(ctx context.Context) (*ProductStats, error) {
	stats := &ProductStats{}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	var err error
	stats.ModelDistribution, err = r.groupedCount(ctx,
		`SELECT model, COUNT(*) FROM products GROUP BY model ORDER BY COUNT(*) DESC, model`)
	if err != nil {
		return nil, err
	}
	stats.ColorDistribution, err = r.groupedCount(ctx,
		`SELECT color, COUNT(*) FROM products GROUP BY color ORDER BY COUNT(*) DESC, color`)
	if err != nil {
		return nil, err
	}

	if len(stats.ModelDistribution) > 0 {
		stats.MostPopularModel = stats.ModelDistribution[0].Label
	}
	if len(stats.ColorDistribution) > 0 {
		stats.MostUsedColor = stats.ColorDistribution[0].Label
	}
	return stats, nil
}

// ExhibitionStats aggregates totals, schedule-relative counts and the
// per-month distribution of start dates.  SUBSTR over the DATE column
// yields "YYYY-MM" on both MySQL and the sqlite used in tests.
func (r *StatsRepo) ExhibitionStats(ctx context.Context, today time.Time) (*ExhibitionStats, error) {
	stats := &ExhibitionStats{}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exhibitions`).Scan(&stats.Total); err != nil {
		return nil, err
	}

	day := dateStr(today)
	const q = `SELECT
		COUNT(CASE WHEN start_date > ? THEN 1 END),
		COUNT(CASE WHEN start_date <= ? AND end_date >= ? THEN 1 END),
		COUNT(CASE WHEN end_date < ? THEN 1 END)
		FROM exhibitions`
	if err := r.db.QueryRowContext(ctx, q, day, day, day, day).
		Scan(&stats.Upcoming, &stats.Ongoing, &stats.Ended); err != nil {
		return nil, err
	}

	var err error
	stats.MonthlyDistribution, err = r.groupedCount(ctx,
		`SELECT SUBSTR(start_date, 1, 7), COUNT(*) FROM exhibitions GROUP BY SUBSTR(start_date, 1, 7) ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// StatusSummary counts participation records per status.
func (r *StatsRepo) StatusSummary(ctx context.Context) ([]CountItem, error) {
	return r.groupedCount(ctx,
		`SELECT status, COUNT(*) FROM product_exhibition_records GROUP BY status ORDER BY status`)
}

// ParticipationByExhibition counts participating products for every
// exhibition, busiest first.
func (r *StatsRepo) ParticipationByExhibition(ctx context.Context) ([]CountItem, error) {
	return r.groupedCount(ctx, `SELECT e.name, COUNT(r.record_id)
		FROM exhibitions e
		LEFT JOIN product_exhibition_records r ON r.exhibition_id = e.exhibition_id
		GROUP BY e.exhibition_id, e.name
		ORDER BY COUNT(r.record_id) DESC, e.name`)
}

func (r *StatsRepo) groupedCount(ctx context.Context, q string, args ...any) ([]CountItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CountItem
	for rows.Next() {
		var item CountItem
		if err := rows.Scan(&item.Label, &item.Count); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
