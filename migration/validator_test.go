package migration

import (
	"reflect"
	"testing"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/shopspring/decimal"
)

func invoiceWith(supplier string, total *float64) *models.PostalInvoice {
	inv := &models.PostalInvoice{SupplierName: supplier}
	if total != nil {
		inv.Total = decimal.NullDecimal{Decimal: decimal.NewFromFloat(*total), Valid: true}
	}
	return inv
}

func f(v float64) *float64 { return &v }

func TestValidateInvoice_TruthTable(t *testing.T) {
	cases := []struct {
		name      string
		supplier  string
		total     *float64
		wantValid bool
	}{
		{"supplier and positive total", "Acme", f(10), true},
		{"missing supplier", "", f(10), false},
		{"missing total", "Acme", nil, false},
		{"zero total", "Acme", f(0), false},
		{"negative total", "Acme", f(-5), false},
		{"both missing", "", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidateInvoice(invoiceWith(tc.supplier, tc.total))
			if result.Valid != tc.wantValid {
				t.Errorf("valid = %v, want %v (errors: %v)", result.Valid, tc.wantValid, result.Errors)
			}
			if !tc.wantValid && len(result.Errors) == 0 {
				t.Error("invalid result must carry at least one error")
			}
		})
	}
}

func TestValidateInvoice_ZeroTotalMessages(t *testing.T) {
	result := ValidateInvoice(invoiceWith("Acme", f(0)))

	wantErrors := []string{
		"Missing or invalid total",
		"Zero dollar amount - requires client verification",
	}
	if !reflect.DeepEqual(result.Errors, wantErrors) {
		t.Errorf("errors = %v, want %v", result.Errors, wantErrors)
	}
	wantWarnings := []string{"Invoice shows $0.00 total payable"}
	if !reflect.DeepEqual(result.Warnings, wantWarnings) {
		t.Errorf("warnings = %v, want %v", result.Warnings, wantWarnings)
	}
}

func TestValidateInvoice_ErrorsAccumulate(t *testing.T) {
	result := ValidateInvoice(invoiceWith("", f(0)))

	want := []string{
		"Missing supplier name",
		"Missing or invalid total",
		"Zero dollar amount - requires client verification",
	}
	if !reflect.DeepEqual(result.Errors, want) {
		t.Errorf("errors = %v, want %v", result.Errors, want)
	}
}
