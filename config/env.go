package config

import (
	"fmt"
	"os"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/go-playground/validator/v10"
)

// Destination table names live with their models; re-exported here because
// the env layer is where the scripts resolve them. The invoice table is
// overridable because staging environments point the migration at a
// scratch copy; the ingest log is not.
const (
	DefaultInvoiceTable = models.DefaultInvoiceTable
	IngestLogTable      = models.IngestLogTable

	DefaultWorksheetName = "Invoices"
	DefaultReportsDir    = "reports"
)

var validate = validator.New()

// GraphSettings carries everything needed to talk to the spreadsheet and
// file-storage APIs. Missing credentials are a startup failure, never a
// runtime retry.
type GraphSettings struct {
	TenantID      string `validate:"required"`
	ClientID      string `validate:"required"`
	ClientSecret  string `validate:"required"`
	DriveID       string `validate:"required"`
	WorkbookID    string `validate:"required"`
	WorksheetName string `validate:"required"`
}

func LoadGraphSettings() (*GraphSettings, error) {
	s := &GraphSettings{
		TenantID:      strings.TrimSpace(os.Getenv("MSGRAPH_TENANT_ID")),
		ClientID:      strings.TrimSpace(os.Getenv("MSGRAPH_CLIENT_ID")),
		ClientSecret:  strings.TrimSpace(os.Getenv("MSGRAPH_CLIENT_SECRET")),
		DriveID:       strings.TrimSpace(os.Getenv("POSTAL_DRIVE_ID")),
		WorkbookID:    strings.TrimSpace(os.Getenv("POSTAL_WORKBOOK_ID")),
		WorksheetName: EnvOrDefault("POSTAL_WORKSHEET_NAME", DefaultWorksheetName),
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("incomplete Microsoft Graph configuration (check MSGRAPH_*/POSTAL_* env): %w", err)
	}
	return s, nil
}

// MigrationSettings covers the destination side of the pipeline.
type MigrationSettings struct {
	InvoiceTable string `validate:"required"`
	ReportsDir   string `validate:"required"`
}

func LoadMigrationSettings() *MigrationSettings {
	return &MigrationSettings{
		InvoiceTable: EnvOrDefault("POSTAL_INVOICE_TABLE", DefaultInvoiceTable),
		ReportsDir:   EnvOrDefault("POSTAL_REPORTS_DIR", DefaultReportsDir),
	}
}

// DatabaseSettings carries the destination connection. DATABASE_URL wins
// when set (managed destinations hand out a single connection URL);
// otherwise the discrete DB_* parts are required. Absent configuration is
// a startup failure, never a connect retry.
type DatabaseSettings struct {
	URL      string
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	User     string `validate:"required"`
	Password string
	Name     string `validate:"required"`
	SSLMode  string
}

func LoadDatabaseSettings() (*DatabaseSettings, error) {
	s := &DatabaseSettings{
		URL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Host:     strings.TrimSpace(os.Getenv("DB_HOST")),
		Port:     strings.TrimSpace(os.Getenv("DB_PORT")),
		User:     strings.TrimSpace(os.Getenv("DB_USER")),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     strings.TrimSpace(os.Getenv("DB_NAME")),
		SSLMode:  EnvOrDefault("DB_SSLMODE", "require"),
	}
	if s.URL != "" {
		return s, nil
	}
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("missing destination database configuration (set DATABASE_URL or DB_HOST/DB_PORT/DB_USER/DB_NAME): %w", err)
	}
	return s, nil
}

// DSN renders the connection string the postgres driver expects.
func (s *DatabaseSettings) DSN() string {
	if s.URL != "" {
		return s.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.Host, s.Port, s.User, s.Password, s.Name, s.SSLMode)
}

func EnvOrDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
