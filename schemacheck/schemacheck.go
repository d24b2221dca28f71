package schemacheck

import (
	"context"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"gorm.io/gorm"
)

// ExpectedInvoiceColumns is every column the migration writes. The check
// is against a sampled row, not catalog metadata: the managed destination's
// pooled connection does not expose information_schema reliably, so one
// row is read and its keys inspected instead.
var ExpectedInvoiceColumns = []string{
	"invoice_number", "invoice_date", "due_date",
	"supplier_name", "supplier_abn", "supplier_email",
	"customer_name", "customer_abn",
	"total", "subtotal", "gst_total", "amount_due", "currency",
	"bank_bsb", "bank_account", "payment_reference",
	"line_1_desc", "line_1_qty", "line_1_unit_price",
	"notes", "file_name", "file_url", "file_checksum",
	"ocr_confidence", "ocr_model", "message_id",
	"source", "created_at",
}

type Result struct {
	Table            string   `json:"table"`
	TableMissing     bool     `json:"table_missing"`
	ColumnsUnknown   bool     `json:"columns_unknown"`
	MissingColumns   []string `json:"missing_columns,omitempty"`
	IngestLogMissing bool     `json:"ingest_log_missing"`
}

// OK reports whether the migration may proceed. An empty destination
// table leaves column presence unknown; that warns but does not block.
func (r *Result) OK() bool {
	return !r.TableMissing && !r.IngestLogMissing && len(r.MissingColumns) == 0
}

func Check(ctx context.Context, db *gorm.DB, invoiceTable string) *Result {
	result := &Result{Table: invoiceTable}

	var sample []map[string]interface{}
	err := db.WithContext(ctx).Table(invoiceTable).Limit(1).Find(&sample).Error
	switch {
	case err != nil && isMissingRelation(err):
		result.TableMissing = true
	case err != nil:
		// Unreadable for another reason; treat as unknown rather than
		// asserting columns that may well exist.
		result.ColumnsUnknown = true
	case len(sample) == 0:
		result.ColumnsUnknown = true
	default:
		row := sample[0]
		for _, col := range ExpectedInvoiceColumns {
			if _, ok := row[col]; !ok {
				result.MissingColumns = append(result.MissingColumns, col)
			}
		}
	}

	var logSample []map[string]interface{}
	if err := db.WithContext(ctx).Table(config.IngestLogTable).Limit(1).Find(&logSample).Error; err != nil && isMissingRelation(err) {
		result.IngestLogMissing = true
	}

	return result
}

func isMissingRelation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "no such table")
}
