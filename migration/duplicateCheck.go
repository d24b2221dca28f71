package migration

import (
	"context"
	"errors"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DuplicateCheck struct {
	IsDuplicate bool   `json:"is_duplicate"`
	ExistingID  string `json:"existing_id,omitempty"`
}

// CheckDuplicate looks for an existing destination row by exact checksum,
// falling back to (invoice number, source). Rows carrying neither key
// cannot be checked and pass through.
//
// A query failure is treated as "not a duplicate" (fail-open): the
// migration keeps moving and a transient destination error can let a
// duplicate through. That tradeoff is intentional and the warning below is
// the operator's signal that it happened.
func CheckDuplicate(ctx context.Context, db *gorm.DB, table string, inv *models.PostalInvoice, logger *logrus.Logger) DuplicateCheck {
	query := db.WithContext(ctx).Table(table).Select("invoice_number")

	switch {
	case inv.FileChecksum != "":
		query = query.Where("file_checksum = ?", inv.FileChecksum)
	case inv.InvoiceNumber != "":
		query = query.Where("invoice_number = ? AND source = ?", inv.InvoiceNumber, models.SourcePostal)
	default:
		return DuplicateCheck{}
	}

	var existing struct {
		InvoiceNumber string `gorm:"column:invoice_number"`
	}
	err := query.Limit(1).Take(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DuplicateCheck{}
		}
		logger.WithFields(logrus.Fields{
			"module":         "migration",
			"funcName":       "CheckDuplicate",
			"invoice_number": inv.InvoiceNumber,
			"file_checksum":  inv.FileChecksum,
			"failOpen":       true,
		}).Warnf("duplicate check query failed, treating row as not duplicate: %v", err)
		return DuplicateCheck{}
	}

	return DuplicateCheck{IsDuplicate: true, ExistingID: existing.InvoiceNumber}
}
