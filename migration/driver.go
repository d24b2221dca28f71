package migration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultThrottle is the fixed pause between rows. A crude self-imposed
// rate limit on the destination, not an adaptive backoff.
const DefaultThrottle = 100 * time.Millisecond

type DriverOptions struct {
	DryRun   bool
	Limit    int
	Table    string
	Throttle time.Duration
}

// Driver runs the postal migration: read rows, map, validate, check
// duplicates, insert, audit-log, report. Strictly sequential; a row that
// fails simply increments a counter and the next row is processed.
type Driver struct {
	db     *gorm.DB
	source RowSource
	logger *logrus.Logger
	opts   DriverOptions
}

func NewDriver(db *gorm.DB, source RowSource, logger *logrus.Logger, opts DriverOptions) *Driver {
	if opts.Table == "" {
		opts.Table = models.DefaultInvoiceTable
	}
	return &Driver{db: db, source: source, logger: logger, opts: opts}
}

func (d *Driver) Run(ctx context.Context) (*models.MigrationReport, error) {
	report := &models.MigrationReport{
		BatchID:   uuid.NewString(),
		Source:    d.source.Name(),
		DryRun:    d.opts.DryRun,
		StartedAt: time.Now().UTC(),
	}

	headers, rows, err := d.source.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading source rows: %w", err)
	}

	mapped := make([]*models.PostalInvoice, 0, len(rows))
	for _, values := range rows {
		mapped = append(mapped, MapRow(NewRawRow(headers, values)))
	}

	// --limit truncates after mapping, before validation: a deterministic
	// first-N slice of the source order, not a sample.
	if d.opts.Limit > 0 && len(mapped) > d.opts.Limit {
		mapped = mapped[:d.opts.Limit]
	}

	report.Counts.Total = len(mapped)
	if d.opts.DryRun {
		fmt.Println("[dry-run] no rows or log entries will be written")
	}

	for i, inv := range mapped {
		if i > 0 && d.opts.Throttle > 0 {
			time.Sleep(d.opts.Throttle)
		}
		detail := d.processRow(ctx, i, inv, report.BatchID)
		report.Rows = append(report.Rows, detail)
		d.tally(&report.Counts, detail)
		d.printProgress(i+1, len(mapped), inv, detail)
	}

	report.FinishedAt = time.Now().UTC()
	return report, nil
}

func (d *Driver) processRow(ctx context.Context, i int, inv *models.PostalInvoice, batchID string) models.MigrationRowDetail {
	detail := models.MigrationRowDetail{
		Row:           i + 1,
		InvoiceNumber: inv.InvoiceNumber,
		FileName:      inv.FileName,
	}

	validation := ValidateInvoice(inv)
	detail.Warnings = validation.Warnings
	if !validation.Valid {
		detail.Disposition = models.RowDispositionInvalid
		detail.Reasons = validation.Errors
		if !d.opts.DryRun {
			AppendIngestLog(ctx, d.db, d.logger, &models.PostalIngestLog{
				FileName:      inv.FileName,
				FileChecksum:  inv.FileChecksum,
				Status:        models.IngestStatusException,
				Reason:        strings.Join(validation.Errors, "; "),
				InvoiceNumber: inv.InvoiceNumber,
				BatchID:       batchID,
			})
		}
		return detail
	}

	dup := CheckDuplicate(ctx, d.db, d.opts.Table, inv, d.logger)
	if dup.IsDuplicate {
		detail.Disposition = models.RowDispositionDuplicate
		detail.Reasons = []string{"duplicate of " + dup.ExistingID}
		if !d.opts.DryRun {
			AppendIngestLog(ctx, d.db, d.logger, &models.PostalIngestLog{
				FileName:      inv.FileName,
				FileChecksum:  inv.FileChecksum,
				Status:        models.IngestStatusDuplicate,
				Reason:        "existing record " + dup.ExistingID,
				InvoiceNumber: inv.InvoiceNumber,
				InvoiceID:     dup.ExistingID,
				BatchID:       batchID,
			})
		}
		return detail
	}

	if d.opts.DryRun {
		detail.Disposition = models.RowDispositionWouldInsert
		return detail
	}

	result := InsertInvoice(ctx, d.db, d.opts.Table, inv)
	if !result.Success {
		detail.Disposition = models.RowDispositionFailed
		detail.Reasons = []string{result.Error}
		AppendIngestLog(ctx, d.db, d.logger, &models.PostalIngestLog{
			FileName:      inv.FileName,
			FileChecksum:  inv.FileChecksum,
			Status:        models.IngestStatusException,
			Reason:        result.Error,
			InvoiceNumber: inv.InvoiceNumber,
			BatchID:       batchID,
		})
		return detail
	}

	detail.Disposition = models.RowDispositionInserted
	detail.InsertedID = result.ID
	AppendIngestLog(ctx, d.db, d.logger, &models.PostalIngestLog{
		FileName:      inv.FileName,
		FileChecksum:  inv.FileChecksum,
		Status:        models.IngestStatusProcessed,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceID:     result.ID,
		BatchID:       batchID,
	})
	return detail
}

func (d *Driver) tally(c *models.MigrationCounts, detail models.MigrationRowDetail) {
	switch detail.Disposition {
	case models.RowDispositionInvalid:
		c.Invalid++
	case models.RowDispositionDuplicate:
		c.Valid++
		c.Duplicate++
	case models.RowDispositionWouldInsert:
		c.Valid++
	case models.RowDispositionInserted:
		c.Valid++
		c.Inserted++
	case models.RowDispositionFailed:
		c.Valid++
		c.Failed++
	}
}

func (d *Driver) printProgress(n, total int, inv *models.PostalInvoice, detail models.MigrationRowDetail) {
	glyph := "?"
	note := ""
	switch detail.Disposition {
	case models.RowDispositionInserted:
		glyph = "✓"
	case models.RowDispositionWouldInsert:
		glyph = "✓"
		note = "(dry-run)"
	case models.RowDispositionDuplicate:
		glyph = "⊛"
		note = "duplicate"
	case models.RowDispositionInvalid:
		glyph = "⚠"
		note = strings.Join(detail.Reasons, "; ")
	case models.RowDispositionFailed:
		glyph = "✗"
		note = strings.Join(detail.Reasons, "; ")
	}
	fmt.Printf("  [%d/%d] %s %s %s\n", n, total, glyph, inv.InvoiceNumber, note)
}

// PrintSummary writes the operator-facing counts table to stdout.
func PrintSummary(report *models.MigrationReport) {
	fmt.Println()
	fmt.Println("Migration summary")
	fmt.Printf("  batch:     %s\n", report.BatchID)
	fmt.Printf("  source:    %s\n", report.Source)
	fmt.Printf("  total:     %d\n", report.Counts.Total)
	fmt.Printf("  valid:     %d\n", report.Counts.Valid)
	fmt.Printf("  invalid:   %d\n", report.Counts.Invalid)
	fmt.Printf("  duplicate: %d\n", report.Counts.Duplicate)
	fmt.Printf("  inserted:  %d\n", report.Counts.Inserted)
	fmt.Printf("  failed:    %d\n", report.Counts.Failed)
	if report.DryRun {
		fmt.Println("  mode:      dry-run (no writes performed)")
	}
}
