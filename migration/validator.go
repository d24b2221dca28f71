package migration

import "bitbucket.org/invoicedesk/postal_backend/models"

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateInvoice applies the minimal acceptance rules. All applicable
// errors are collected, not short-circuited, so the audit trail names
// every problem with a row.
//
// A zero total is invalid on purpose: those invoices need the client to
// confirm before they can enter the books.
func ValidateInvoice(inv *models.PostalInvoice) ValidationResult {
	var result ValidationResult

	if inv.SupplierName == "" {
		result.Errors = append(result.Errors, "Missing supplier name")
	}

	switch {
	case !inv.Total.Valid:
		result.Errors = append(result.Errors, "Missing or invalid total")
	case inv.Total.Decimal.IsZero():
		result.Errors = append(result.Errors,
			"Missing or invalid total",
			"Zero dollar amount - requires client verification",
		)
		result.Warnings = append(result.Warnings, "Invoice shows $0.00 total payable")
	case inv.Total.Decimal.IsNegative():
		result.Errors = append(result.Errors, "Missing or invalid total")
	}

	result.Valid = len(result.Errors) == 0
	return result
}
