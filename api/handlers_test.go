package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := models.MigrateTable(db); err != nil {
		t.Fatal(err)
	}

	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	return NewRouter(db, "invoices", quiet), db
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	invoices := []models.PostalInvoice{
		{InvoiceNumber: "INV-1", SupplierName: "Acme Pty Ltd", InvoiceDate: "2024-01-10", Total: decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true}, Source: models.SourcePostal},
		{InvoiceNumber: "INV-2", SupplierName: "Globex", InvoiceDate: "2024-02-20", Total: decimal.NullDecimal{Decimal: decimal.NewFromInt(50), Valid: true}, Source: models.SourcePostal},
	}
	for i := range invoices {
		if err := db.Create(&invoices[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
	logs := []models.PostalIngestLog{
		{InvoiceNumber: "INV-1", Status: models.IngestStatusProcessed, BatchID: "batch-1"},
		{InvoiceNumber: "INV-2", Status: models.IngestStatusProcessed, BatchID: "batch-1"},
		{InvoiceNumber: "INV-3", Status: models.IngestStatusException, Reason: "Missing supplier name", BatchID: "batch-1"},
	}
	for i := range logs {
		if err := db.Create(&logs[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
}

func get(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unparsable response %q: %v", w.Body.String(), err)
	}
	return w, body
}

func TestListInvoices_SupplierFilter(t *testing.T) {
	router, db := testRouter(t)
	seed(t, db)

	w, body := get(t, router, "/api/invoices?supplier=acme")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("filtered rows = %d, want 1", len(data))
	}
	first := data[0].(map[string]interface{})
	if first["invoice_number"] != "INV-1" {
		t.Errorf("got %v, want INV-1", first["invoice_number"])
	}
	if body["total"].(float64) != 1 {
		t.Errorf("total = %v, want 1", body["total"])
	}
}

func TestListInvoices_DateRange(t *testing.T) {
	router, db := testRouter(t)
	seed(t, db)

	_, body := get(t, router, "/api/invoices?date_from=2024-02-01")
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("rows = %d, want 1 (only the February invoice)", len(data))
	}
}

func TestInvoiceSummary(t *testing.T) {
	router, db := testRouter(t)
	seed(t, db)

	w, body := get(t, router, "/api/invoices/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["invoices"].(float64) != 2 {
		t.Errorf("invoices = %v, want 2", body["invoices"])
	}
	statuses := body["ingest_status"].([]interface{})
	if len(statuses) != 2 {
		t.Errorf("status groups = %d, want 2 (processed, exception)", len(statuses))
	}
}

func TestListIngestLog_StatusFilter(t *testing.T) {
	router, db := testRouter(t)
	seed(t, db)

	_, body := get(t, router, "/api/ingest-log?status=exception")
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("rows = %d, want 1", len(data))
	}
	entry := data[0].(map[string]interface{})
	if entry["reason"] != "Missing supplier name" {
		t.Errorf("reason = %v", entry["reason"])
	}
}
