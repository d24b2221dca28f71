package migration

import "strings"

// fieldVariants maps each canonical invoice field to the spreadsheet
// headers that have been observed carrying it, in preference order. Header
// matching is case- and punctuation-insensitive, so variants are written
// in their human form.
var fieldVariants = map[string][]string{
	"invoice_number": {"invoice number", "invoice no", "invoice #", "inv number", "inv no", "number", "invoice id"},
	"invoice_date":   {"invoice date", "date", "inv date", "issued", "issue date"},
	"due_date":       {"due date", "payment due", "due"},
	"supplier_name":  {"supplier name", "supplier", "vendor", "vendor name", "from", "biller"},
	"supplier_abn":   {"supplier abn", "abn", "vendor abn"},
	"supplier_email": {"supplier email", "email", "vendor email"},
	"customer_name":  {"customer name", "customer", "bill to", "to"},
	"customer_abn":   {"customer abn", "bill to abn"},
	"total":          {"total", "total amount", "amount", "invoice total", "total inc gst", "total (inc gst)"},
	"subtotal":       {"subtotal", "sub total", "total ex gst", "net amount"},
	"gst_total":      {"gst total", "gst", "tax", "gst amount", "tax total"},
	"amount_due":     {"amount due", "balance due", "amount payable", "outstanding"},
	"currency":       {"currency", "ccy"},
	"bank_bsb":       {"bank bsb", "bsb"},
	"bank_account":   {"bank account", "account number", "account no", "acct"},
	"payment_reference": {
		"payment reference", "reference", "ref", "payment ref", "crn",
	},
	"line_1_desc":       {"line 1 desc", "description", "item description", "details"},
	"line_1_qty":        {"line 1 qty", "qty", "quantity"},
	"line_1_unit_price": {"line 1 unit price", "unit price", "rate", "price"},
	"notes":             {"notes", "comments", "remarks"},
	"file_name":         {"file name", "filename", "file", "attachment", "document"},
	"file_url":          {"file url", "url", "link", "document url", "sharepoint url"},
	"file_checksum":     {"file checksum", "checksum", "hash", "sha256"},
	"ocr_confidence":    {"ocr confidence", "confidence"},
	"ocr_model":         {"ocr model", "model"},
	"message_id":        {"message id", "email message id", "msg id"},
}

// normalizeHeader lowers the header and strips everything that is not a
// letter or digit, so "Invoice #", "invoice_number" and "InvoiceNumber"
// all collide.
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RawRow is one spreadsheet row paired with its table headers, indexed for
// normalized lookups. It is transient: mapped once, then discarded.
type RawRow struct {
	Headers []string
	Values  []interface{}
	index   map[string]int
}

func NewRawRow(headers []string, values []interface{}) RawRow {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, taken := idx[key]; !taken {
			idx[key] = i
		}
	}
	return RawRow{Headers: headers, Values: values, index: idx}
}

// Lookup resolves a canonical field through its header variants and
// returns the first non-empty cell.
func (r RawRow) Lookup(field string) (interface{}, bool) {
	for _, variant := range fieldVariants[field] {
		i, ok := r.index[normalizeHeader(variant)]
		if !ok || i >= len(r.Values) {
			continue
		}
		v := r.Values[i]
		if v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}
