package migration

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// MapRow converts a raw spreadsheet row into the canonical invoice record.
// It never fails: cells that cannot be coerced become empty/null fields,
// and missing identity fields are synthesized so every row stays traceable.
func MapRow(row RawRow) *models.PostalInvoice {
	inv := &models.PostalInvoice{
		InvoiceNumber:    stringField(row, "invoice_number"),
		InvoiceDate:      dateField(row, "invoice_date"),
		DueDate:          dateField(row, "due_date"),
		SupplierName:     stringField(row, "supplier_name"),
		SupplierABN:      stringField(row, "supplier_abn"),
		SupplierEmail:    stringField(row, "supplier_email"),
		CustomerName:     stringField(row, "customer_name"),
		CustomerABN:      stringField(row, "customer_abn"),
		Total:            decimalField(row, "total"),
		Subtotal:         decimalField(row, "subtotal"),
		GSTTotal:         decimalField(row, "gst_total"),
		AmountDue:        decimalField(row, "amount_due"),
		Currency:         stringField(row, "currency"),
		BankBSB:          stringField(row, "bank_bsb"),
		BankAccount:      stringField(row, "bank_account"),
		PaymentReference: stringField(row, "payment_reference"),
		Line1Desc:        stringField(row, "line_1_desc"),
		Line1Qty:         decimalField(row, "line_1_qty"),
		Line1UnitPrice:   decimalField(row, "line_1_unit_price"),
		Notes:            stringField(row, "notes"),
		FileName:         stringField(row, "file_name"),
		FileURL:          stringField(row, "file_url"),
		FileChecksum:     stringField(row, "file_checksum"),
		OCRConfidence:    decimalField(row, "ocr_confidence"),
		OCRModel:         stringField(row, "ocr_model"),
		MessageID:        stringField(row, "message_id"),
		Source:           models.SourcePostal,
	}

	if inv.Currency == "" {
		inv.Currency = models.DefaultCurrency
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = SyntheticInvoiceNumber(inv.FileName)
	}
	if inv.FileChecksum == "" {
		inv.FileChecksum = SyntheticChecksum(inv.FileName, inv.InvoiceNumber, inv.Total)
	}
	return inv
}

// SyntheticInvoiceNumber derives a stable stand-in key when the source has
// no invoice-number column: POSTAL- plus the first 8 hex chars of
// md5(file name), uppercased. Unique only as far as the hash is.
func SyntheticInvoiceNumber(fileName string) string {
	sum := md5.Sum([]byte(fileName))
	return "POSTAL-" + strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

// SyntheticChecksum is a weak identity key over file name + invoice number
// + total, used for duplicate detection when the source supplies no real
// checksum. It is collision-prone on sparse rows; that is accepted.
func SyntheticChecksum(fileName, invoiceNumber string, total decimal.NullDecimal) string {
	totalStr := ""
	if total.Valid {
		totalStr = total.Decimal.String()
	}
	sum := sha256.Sum256([]byte(fileName + invoiceNumber + totalStr))
	return hex.EncodeToString(sum[:])
}

func stringField(row RawRow, field string) string {
	v, ok := row.Lookup(field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Whole numbers (ABNs, account numbers) must not grow ".000000".
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// decimalField parses amounts permissively: currency symbols, commas and
// whitespace are stripped; anything still unparsable becomes null.
func decimalField(row RawRow, field string) decimal.NullDecimal {
	v, ok := row.Lookup(field)
	if !ok {
		return decimal.NullDecimal{}
	}
	switch t := v.(type) {
	case float64:
		return decimal.NullDecimal{Decimal: decimal.NewFromFloat(t), Valid: true}
	case int:
		return decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(t)), Valid: true}
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(t))
		if cleaned == "" {
			return decimal.NullDecimal{}
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return decimal.NullDecimal{}
		}
		return decimal.NullDecimal{Decimal: d, Valid: true}
	default:
		return decimal.NullDecimal{}
	}
}

// Raw workbook cells deliver date serials as strings, which makes them
// ambiguous with compact date strings like "20240115" or a bare "2024".
// Only values landing between 1990-01-01 and 2100-01-01 are treated as
// serials; everything else passes through unchanged.
const (
	minDateSerial = 32874
	maxDateSerial = 73051
)

// dateField converts Excel date serials (days since 1899-12-30) to ISO
// YYYY-MM-DD. Non-numeric values pass through unchanged on the assumption
// they are already date strings.
func dateField(row RawRow, field string) string {
	v, ok := row.Lookup(field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case float64:
		return serialToISODate(t)
	case string:
		s := strings.TrimSpace(t)
		if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minDateSerial && serial < maxDateSerial {
			return serialToISODate(serial)
		}
		return s
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func serialToISODate(serial float64) string {
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return strconv.FormatFloat(serial, 'f', -1, 64)
	}
	return t.Format("2006-01-02")
}
