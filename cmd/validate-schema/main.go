package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/reportfs"
	"bitbucket.org/invoicedesk/postal_backend/schemacheck"
)

// validate-schema checks the destination has the columns the migration
// expects, plus the ingest-log table, before anyone runs migrate-postal.
func main() {
	flag.Parse()

	settings := config.LoadMigrationSettings()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	result := schemacheck.Check(context.Background(), db, settings.InvoiceTable)

	if path, err := reportfs.Write(settings.ReportsDir, "schema-validation", result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema report: %v\n", err)
	} else {
		fmt.Printf("schema report: %s\n", path)
	}

	switch {
	case result.TableMissing:
		fmt.Fprintf(os.Stderr, "table %q does not exist\n", result.Table)
	case result.ColumnsUnknown:
		fmt.Printf("table %q is empty or unreadable; column presence could not be determined\n", result.Table)
	case len(result.MissingColumns) > 0:
		fmt.Fprintf(os.Stderr, "table %q is missing columns: %s\n", result.Table, strings.Join(result.MissingColumns, ", "))
	default:
		fmt.Printf("table %q has all %d expected columns\n", result.Table, len(schemacheck.ExpectedInvoiceColumns))
	}
	if result.IngestLogMissing {
		fmt.Fprintf(os.Stderr, "table %q does not exist\n", config.IngestLogTable)
	}

	if !result.OK() {
		os.Exit(1)
	}
}
