package migration

import (
	"context"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type InsertResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InsertInvoice writes one validated, non-duplicate record. The returned
// ID is the invoice number: the destination exposes no surrogate key to
// the insert path, so the business key doubles as the identifier.
func InsertInvoice(ctx context.Context, db *gorm.DB, table string, inv *models.PostalInvoice) InsertResult {
	if err := db.WithContext(ctx).Table(table).Create(inv).Error; err != nil {
		return InsertResult{Success: false, Error: err.Error()}
	}
	return InsertResult{Success: true, ID: inv.InvoiceNumber}
}

// AppendIngestLog records the disposition of one row. An audit write
// failure must not abort row processing, so it is logged and swallowed.
func AppendIngestLog(ctx context.Context, db *gorm.DB, logger *logrus.Logger, entry *models.PostalIngestLog) {
	if err := db.WithContext(ctx).Create(entry).Error; err != nil {
		config.LogError(logger, "migration", "AppendIngestLog", "writing ingest log entry", entry, err)
	}
}
