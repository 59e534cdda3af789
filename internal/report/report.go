// Package report maps query results onto export datasets.  It is the
// single place where entity rows are flattened into header/row tables,
// shared by the synchronous export handlers and the queue worker.
package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dentexpo/expo-manager/internal/config"
	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/repository"
)

// Builder assembles datasets and snapshots from the repositories.
type Builder struct {
	products    *repository.ProductRepo
	exhibitions *repository.ExhibitionRepo
	records     *repository.RecordRepo
	dates       config.DateConfig
}

// NewBuilder constructs a Builder.
func NewBuilder(p *repository.ProductRepo, e *repository.ExhibitionRepo, r *repository.RecordRepo, dates config.DateConfig) *Builder {
	return &Builder{products: p, exhibitions: e, records: r, dates: dates}
}

// Dataset builds the export dataset for the named entity: "products",
// "exhibitions" or "records".
func (b *Builder) Dataset(ctx context.Context, entity string) (export.Dataset, error) {
	switch entity {
	case "products":
		return b.Products(ctx)
	case "exhibitions":
		return b.Exhibitions(ctx)
	case "records":
		return b.Records(ctx)
	default:
		return export.Dataset{}, fmt.Errorf("report: unknown entity %q", entity)
	}
}

// Products flattens the product catalog.
func (b *Builder) Products(ctx context.Context) (export.Dataset, error) {
	products, err := b.products.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	ds := export.Dataset{
		Title:   "products",
		Headers: []string{"ID", "Model", "Name", "Color", "Series", "Created At"},
	}
	for i := range products {
		p := &products[i]
		ds.Rows = append(ds.Rows, []string{
			strconv.FormatUint(p.ID, 10),
			p.Model,
			p.Name,
			p.Color,
			p.Series(),
			p.CreatedAt.Format(b.dates.DateTimeFormat),
		})
	}
	return ds, nil
}

// Exhibitions flattens the exhibition calendar, including the derived
// schedule status and duration.
func (b *Builder) Exhibitions(ctx context.Context) (export.Dataset, error) {
	exhibitions, err := b.exhibitions.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	ds := export.Dataset{
		Title:   "exhibitions",
		Headers: []string{"ID", "Name", "Address", "Start Date", "End Date", "Days", "Status"},
	}
	for i := range exhibitions {
		e := &exhibitions[i]
		ds.Rows = append(ds.Rows, []string{
			strconv.FormatUint(e.ID, 10),
			e.Name,
			e.Address,
			e.StartDate.Format(b.dates.DateFormat),
			e.EndDate.Format(b.dates.DateFormat),
			strconv.Itoa(e.Duration()),
			e.Status(),
		})
	}
	return ds, nil
}

// Records flattens participation records with their joined names.
func (b *Builder) Records(ctx context.Context) (export.Dataset, error) {
	records, err := b.records.List(ctx)
	if err != nil {
		return export.Dataset{}, err
	}
	ds := export.Dataset{
		Title:   "records",
		Headers: []string{"ID", "Product", "Exhibition", "Status", "Created At"},
	}
	for i := range records {
		r := &records[i]
		ds.Rows = append(ds.Rows, []string{
			strconv.FormatUint(r.ID, 10),
			r.ProductName,
			r.ExhibitionName,
			string(r.Status),
			r.CreatedAt.Format(b.dates.DateTimeFormat),
		})
	}
	return ds, nil
}

// Snapshot collects the full database for a JSON backup export.
func (b *Builder) Snapshot(ctx context.Context) (export.Snapshot, error) {
	products, err := b.products.List(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	exhibitions, err := b.exhibitions.List(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	records, err := b.records.List(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	return export.NewSnapshot(products, exhibitions, records), nil
}
