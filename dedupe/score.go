package dedupe

import (
	"fmt"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/migration"
)

// completenessWeights ranks how much each populated field says about a
// row being the "best" copy among duplicates. Identity fields dominate,
// banking details barely tip the scale.
var completenessWeights = []struct {
	field  string
	weight int
}{
	{"invoice_number", 10},
	{"file_name", 5},
	{"file_url", 5},
	{"supplier_name", 3},
	{"supplier_abn", 2},
	{"bank_bsb", 1},
	{"bank_account", 1},
	{"gst_total", 1},
}

// CompletenessScore is the weighted count of populated indicator fields.
func CompletenessScore(row migration.RawRow) int {
	score := 0
	for _, w := range completenessWeights {
		if _, ok := row.Lookup(w.field); ok {
			score += w.weight
		}
	}
	return score
}

// RowKey builds the duplicate-group key: (invoice number, invoice date,
// total) joined with "|". Rows with no invoice number return "" and are
// never grouped; there is nothing safe to match them on.
func RowKey(row migration.RawRow) string {
	num, ok := row.Lookup("invoice_number")
	if !ok {
		return ""
	}
	parts := []string{cellString(num)}
	for _, field := range []string{"invoice_date", "total"} {
		v, _ := row.Lookup(field)
		parts = append(parts, cellString(v))
	}
	return strings.Join(parts, "|")
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
