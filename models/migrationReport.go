package models

import "time"

// RowDisposition is the terminal state of one row in the migration driver.
type RowDisposition string

const (
	RowDispositionInvalid     RowDisposition = "invalid"
	RowDispositionDuplicate   RowDisposition = "duplicate"
	RowDispositionWouldInsert RowDisposition = "would_insert"
	RowDispositionInserted    RowDisposition = "inserted"
	RowDispositionFailed      RowDisposition = "failed"
)

type MigrationCounts struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Duplicate int `json:"duplicate"`
	Inserted  int `json:"inserted"`
	Failed    int `json:"failed"`
}

type MigrationRowDetail struct {
	Row           int            `json:"row"`
	InvoiceNumber string         `json:"invoice_number"`
	FileName      string         `json:"file_name,omitempty"`
	Disposition   RowDisposition `json:"disposition"`
	Reasons       []string       `json:"reasons,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	InsertedID    string         `json:"inserted_id,omitempty"`
}

// MigrationReport is produced once per run and serialized to a timestamped
// file. Nothing reads it back; it is a human-reviewed artifact.
type MigrationReport struct {
	BatchID    string               `json:"batch_id"`
	Source     string               `json:"source"`
	DryRun     bool                 `json:"dry_run"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Counts     MigrationCounts      `json:"counts"`
	Rows       []MigrationRowDetail `json:"rows"`
}
