package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"

	"github.com/dentexpo/expo-manager/internal/chart"
	"github.com/dentexpo/expo-manager/internal/config"
	"github.com/dentexpo/expo-manager/internal/export"
	"github.com/dentexpo/expo-manager/internal/logging"
	"github.com/dentexpo/expo-manager/internal/model"
	"github.com/dentexpo/expo-manager/internal/report"
	"github.com/dentexpo/expo-manager/internal/repository"
)

var testTables = []string{
	`CREATE TABLE products (
		product_id INTEGER PRIMARY KEY AUTOINCREMENT,
		model TEXT NOT NULL, name TEXT NOT NULL, color TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE exhibitions (
		exhibition_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL, address TEXT NOT NULL,
		start_date TEXT NOT NULL, end_date TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE product_exhibition_records (
		record_id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL, exhibition_id INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	for _, stmt := range testTables {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	products := repository.NewProductRepo(db)
	exhibitions := repository.NewExhibitionRepo(db)
	records := repository.NewRecordRepo(db)
	dates := config.DateConfig{DateFormat: "2006-01-02", DateTimeFormat: "2006-01-02 15:04:05"}

	h := &Handler{
		Products:    products,
		Exhibitions: exhibitions,
		Records:     records,
		Stats:       repository.NewStatsRepo(db),
		Users:       repository.NewUserRepo(db),
		Builder:     report.NewBuilder(products, exhibitions, records, dates),
		Exports:     export.NewService(config.ExportConfig{Path: t.TempDir(), CSVBOM: true, ExcelSheet: "Data", PDFPageSize: "A4"}),
		Charts:      chart.NewRenderer(config.ChartConfig{DefaultType: "bar"}, 72),
		Log:         logging.New(config.LoggingConfig{Level: "error"}),
		Auth:        config.AuthConfig{JWTSecret: "test", AccessTTLMin: 60, BcryptCost: 4},
		Dates:       dates,
	}
	return h, db
}

// call invokes a handler directly with a synthesized request.
func call(t *testing.T, fn echo.HandlerFunc, method, target, body string, pathParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for k, v := range pathParams {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestCreateProductEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.CreateProduct, http.MethodPost, "/v1/products",
		`{"model":"T2-CS","name":"Dental Chair","color":"white"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var p model.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID == 0 || p.Model != "T2-CS" {
		t.Errorf("unexpected response: %+v", p)
	}
}

func TestCreateProductValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.CreateProduct, http.MethodPost, "/v1/products", `{"model":"","name":"","color":""}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Errors) != 3 {
		t.Errorf("expected 3 problems, got %v", out.Errors)
	}
}

func TestGetProductNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := call(t, h.GetProduct, http.MethodGet, "/v1/products/99", "", map[string]string{"id": "99"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetProductBadID(t *testing.T) {
	h, _ := newTestHandler(t)
	for _, id := range []string{"0", "-1", "abc"} {
		rec := call(t, h.GetProduct, http.MethodGet, "/v1/products/"+id, "", map[string]string{"id": id})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("id %q: status = %d, want 400", id, rec.Code)
		}
	}
}

func TestListProductsSearch(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()
	for _, p := range []model.Product{
		{Model: "T2-CS", Name: "Dental Chair", Color: "white"},
		{Model: "K3-Pro", Name: "Autoclave", Color: "gray"},
	} {
		cp := p
		if err := h.Products.Create(ctx, &cp); err != nil {
			t.Fatal(err)
		}
	}

	rec := call(t, h.ListProducts, http.MethodGet, "/v1/products?q=autoclave", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []model.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Model != "K3-Pro" {
		t.Errorf("filtered list: %+v", got)
	}
}

func TestDeleteProductConflict(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	p := model.Product{Model: "T2-CS", Name: "Dental Chair", Color: "white"}
	if err := h.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	e := model.Exhibition{Name: "IDS", Address: "Cologne"}
	e.StartDate, _ = parseDate("2026-03-10")
	e.EndDate, _ = parseDate("2026-03-14")
	if err := h.Exhibitions.Create(ctx, &e); err != nil {
		t.Fatal(err)
	}
	r := model.ParticipationRecord{ProductID: p.ID, ExhibitionID: e.ID}
	if err := h.Records.Create(ctx, &r); err != nil {
		t.Fatal(err)
	}

	rec := call(t, h.DeleteProduct, http.MethodDelete, "/v1/products/1", "", map[string]string{"id": "1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	rec = call(t, h.DeleteProduct, http.MethodDelete, "/v1/products/1?cascade=1", "", map[string]string{"id": "1"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("cascade status = %d, want 204", rec.Code)
	}
}

func TestExhibitionEndpointDerivedFields(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.CreateExhibition, http.MethodPost, "/v1/exhibitions",
		`{"name":"IDS Cologne","address":"Messeplatz 1","start_date":"2099-03-10","end_date":"2099-03-14"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var out struct {
		Status       string `json:"status"`
		DurationDays int    `json:"duration_days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status != model.ExhibitionUpcoming {
		t.Errorf("status = %q, want upcoming", out.Status)
	}
	if out.DurationDays != 5 {
		t.Errorf("duration = %d, want 5", out.DurationDays)
	}
}

func TestCreateExhibitionBadDates(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := call(t, h.CreateExhibition, http.MethodPost, "/v1/exhibitions",
		`{"name":"X","address":"Y","start_date":"2026-03-14","end_date":"2026-03-10"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "start date must not be after end date") {
		t.Errorf("body: %s", rec.Body)
	}
}

func TestRecordStatusEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	p := model.Product{Model: "T2-CS", Name: "Dental Chair", Color: "white"}
	if err := h.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}
	e := model.Exhibition{Name: "IDS", Address: "Cologne"}
	e.StartDate, _ = parseDate("2026-03-10")
	e.EndDate, _ = parseDate("2026-03-14")
	if err := h.Exhibitions.Create(ctx, &e); err != nil {
		t.Fatal(err)
	}

	rec := call(t, h.CreateRecord, http.MethodPost, "/v1/records",
		`{"product_id":1,"exhibition_id":1}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}

	rec = call(t, h.UpdateRecordStatus, http.MethodPatch, "/v1/records/1/status",
		`{"status":"in-progress"}`, map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body)
	}

	rec = call(t, h.UpdateRecordStatus, http.MethodPatch, "/v1/records/1/status",
		`{"status":"bogus"}`, map[string]string{"id": "1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()
	p := model.Product{Model: "T2-CS", Name: "Dental Chair", Color: "white"}
	if err := h.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	rec := call(t, h.Export, http.MethodGet, "/v1/export/products?format=csv", "",
		map[string]string{"entity": "products"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var out struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.Path, ".csv") {
		t.Errorf("path = %q", out.Path)
	}
}

func TestExportAsyncFallsBackToSynchronous(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()
	p := model.Product{Model: "T2-CS", Name: "Dental Chair", Color: "white"}
	if err := h.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	// With async mode off the request must still produce the file
	// inline and say it was not queued.
	rec := call(t, h.ExportAsync, http.MethodPost, "/v1/export/products/async",
		`{"format":"csv"}`, map[string]string{"entity": "products"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	queued, ok := out["queued"].(bool)
	if !ok || queued {
		t.Errorf("queued = %v, want false", out["queued"])
	}
	path, _ := out["path"].(string)
	if !strings.HasSuffix(path, ".csv") {
		t.Errorf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestExportAsyncUnknownEntity(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := call(t, h.ExportAsync, http.MethodPost, "/v1/export/invoices/async",
		`{"format":"csv"}`, map[string]string{"entity": "invoices"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestExportEndpointNoData(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := call(t, h.Export, http.MethodGet, "/v1/export/products?format=csv", "",
		map[string]string{"entity": "products"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for empty table", rec.Code)
	}
}

func TestExportEndpointUnknownEntity(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := call(t, h.Export, http.MethodGet, "/v1/export/invoices", "",
		map[string]string{"entity": "invoices"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChartEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()
	p := model.Product{Model: "T2-CS", Name: "Dental Chair", Color: "white"}
	if err := h.Products.Create(ctx, &p); err != nil {
		t.Fatal(err)
	}

	rec := call(t, h.ChartProductModels, http.MethodGet, "/v1/charts/product-models", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := call(t, h.Health, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
