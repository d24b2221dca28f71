package models

import (
	"time"

	"gorm.io/gorm"
)

type IngestStatus string

const (
	IngestStatusProcessed IngestStatus = "processed"
	IngestStatusDuplicate IngestStatus = "skipped_duplicate"
	IngestStatusException IngestStatus = "exception"
)

// PostalIngestLog is the append-only audit trail: exactly one entry per
// processed row in a live run, status discriminating the outcome. Nothing
// updates or deletes these entries.
type PostalIngestLog struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	FileName      string       `gorm:"column:file_name;size:512" json:"file_name"`
	FileChecksum  string       `gorm:"column:file_checksum;size:128" json:"file_checksum"`
	Status        IngestStatus `gorm:"column:status;size:32;index" json:"status"`
	Reason        string       `gorm:"column:reason;type:text" json:"reason"`
	InvoiceNumber string       `gorm:"column:invoice_number;size:255" json:"invoice_number"`
	InvoiceID     string       `gorm:"column:invoice_id;size:255" json:"invoice_id"`
	BatchID       string       `gorm:"column:batch_id;size:64;index" json:"batch_id"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PostalIngestLog) TableName() string {
	return IngestLogTable
}

// MigrateTable creates the destination schema through gorm. Production uses
// the SQL migrations under migrations/; this exists for tests and local
// scratch databases.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(&PostalInvoice{}, &PostalIngestLog{})
}
