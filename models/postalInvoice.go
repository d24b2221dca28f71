package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourcePostal tags every record written by this pipeline. The mapper has
// no branch that produces any other source value.
const SourcePostal = "postal"

const DefaultCurrency = "AUD"

// PostalInvoice is the canonical record the pipeline writes downstream.
// Dates are kept as ISO YYYY-MM-DD strings (converted from spreadsheet
// date serials when numeric); amounts are nullable decimals because the
// mapper degrades unparsable cells to null instead of failing the row.
type PostalInvoice struct {
	InvoiceNumber    string              `gorm:"column:invoice_number;size:255;index:idx_invoices_number_source,priority:1" json:"invoice_number"`
	InvoiceDate      string              `gorm:"column:invoice_date;size:32" json:"invoice_date"`
	DueDate          string              `gorm:"column:due_date;size:32" json:"due_date"`
	SupplierName     string              `gorm:"column:supplier_name;size:255" json:"supplier_name"`
	SupplierABN      string              `gorm:"column:supplier_abn;size:64" json:"supplier_abn"`
	SupplierEmail    string              `gorm:"column:supplier_email;size:255" json:"supplier_email"`
	CustomerName     string              `gorm:"column:customer_name;size:255" json:"customer_name"`
	CustomerABN      string              `gorm:"column:customer_abn;size:64" json:"customer_abn"`
	Total            decimal.NullDecimal `gorm:"column:total;type:decimal(20,4)" json:"total"`
	Subtotal         decimal.NullDecimal `gorm:"column:subtotal;type:decimal(20,4)" json:"subtotal"`
	GSTTotal         decimal.NullDecimal `gorm:"column:gst_total;type:decimal(20,4)" json:"gst_total"`
	AmountDue        decimal.NullDecimal `gorm:"column:amount_due;type:decimal(20,4)" json:"amount_due"`
	Currency         string              `gorm:"column:currency;size:8" json:"currency"`
	BankBSB          string              `gorm:"column:bank_bsb;size:32" json:"bank_bsb"`
	BankAccount      string              `gorm:"column:bank_account;size:64" json:"bank_account"`
	PaymentReference string              `gorm:"column:payment_reference;size:255" json:"payment_reference"`
	Line1Desc        string              `gorm:"column:line_1_desc;size:1024" json:"line_1_desc"`
	Line1Qty         decimal.NullDecimal `gorm:"column:line_1_qty;type:decimal(20,4)" json:"line_1_qty"`
	Line1UnitPrice   decimal.NullDecimal `gorm:"column:line_1_unit_price;type:decimal(20,4)" json:"line_1_unit_price"`
	Notes            string              `gorm:"column:notes;type:text" json:"notes"`
	FileName         string              `gorm:"column:file_name;size:512" json:"file_name"`
	FileURL          string              `gorm:"column:file_url;size:2048" json:"file_url"`
	FileChecksum     string              `gorm:"column:file_checksum;size:128;index" json:"file_checksum"`
	OCRConfidence    decimal.NullDecimal `gorm:"column:ocr_confidence;type:decimal(5,4)" json:"ocr_confidence"`
	OCRModel         string              `gorm:"column:ocr_model;size:128" json:"ocr_model"`
	MessageID        string              `gorm:"column:message_id;size:255" json:"message_id"`
	Source           string              `gorm:"column:source;size:32;index:idx_invoices_number_source,priority:2" json:"source"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PostalInvoice) TableName() string {
	return DefaultInvoiceTable
}

// Destination table names. Defined here, next to the models that own
// them; config re-exports them for the env layer.
const (
	DefaultInvoiceTable = "invoices"
	IngestLogTable      = "postal_ingest_log"
)
