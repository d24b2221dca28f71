package config

import (
	"strings"
	"testing"

	"bitbucket.org/invoicedesk/postal_backend/models"
)

// Raw Table(...) call sites resolve names through these constants while
// gorm resolves them through the models' TableName methods; both must
// agree on one definition.
func TestTableNamesHaveOneSource(t *testing.T) {
	if got := (models.PostalInvoice{}).TableName(); got != DefaultInvoiceTable {
		t.Errorf("invoice model table = %q, constant = %q", got, DefaultInvoiceTable)
	}
	if got := (models.PostalIngestLog{}).TableName(); got != IngestLogTable {
		t.Errorf("ingest log model table = %q, constant = %q", got, IngestLogTable)
	}
}

func clearDatabaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		t.Setenv(key, "")
	}
}

// Absent destination configuration must fail at startup, before the
// connect loop: a DSN of empty parts would otherwise retry forever.
func TestLoadDatabaseSettings_MissingConfigFailsFast(t *testing.T) {
	clearDatabaseEnv(t)

	_, err := LoadDatabaseSettings()
	if err == nil {
		t.Fatal("missing destination config must be an error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("error %q should tell the operator which env to set", err.Error())
	}
}

func TestLoadDatabaseSettings_URLWins(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://svc:pw@db.internal:5432/invoices")
	t.Setenv("DB_HOST", "ignored.internal")

	s, err := LoadDatabaseSettings()
	if err != nil {
		t.Fatal(err)
	}
	if got := s.DSN(); got != "postgres://svc:pw@db.internal:5432/invoices" {
		t.Errorf("dsn = %q, want the connection URL verbatim", got)
	}
}

func TestLoadDatabaseSettings_PartsAssembleDSN(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_NAME", "invoices")

	s, err := LoadDatabaseSettings()
	if err != nil {
		t.Fatal(err)
	}
	dsn := s.DSN()
	for _, want := range []string{"host=db.internal", "port=5432", "user=svc", "dbname=invoices", "sslmode=require"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestLoadDatabaseSettings_PartialPartsAreAnError(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DB_HOST", "db.internal")

	if _, err := LoadDatabaseSettings(); err == nil {
		t.Fatal("host alone is not enough to connect")
	}
}
