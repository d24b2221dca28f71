package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/migration"
	"bitbucket.org/invoicedesk/postal_backend/msgraph"
	"bitbucket.org/invoicedesk/postal_backend/reportfs"
)

// migrate-postal moves postal invoice rows from the shared workbook into
// the destination database:
//
//	fetch rows -> map fields -> validate -> duplicate check -> insert -> ingest log
//
// Live runs exit non-zero when any row was invalid or failed, even though
// the rows that succeeded are committed. Partial success is reported as
// failure on purpose so someone looks at the written report.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, compute everything but write nothing")
	limit := flag.Int("limit", 0, "Process only the first N mapped rows (0 = all)")
	file := flag.String("file", "", "Read rows from a local .xlsx instead of the Graph workbook")
	flag.Parse()

	ctx := context.Background()
	logger := config.GetLogger()
	settings := config.LoadMigrationSettings()

	var source migration.RowSource
	if *file != "" {
		worksheet := config.EnvOrDefault("POSTAL_WORKSHEET_NAME", config.DefaultWorksheetName)
		source = migration.NewLocalWorkbookSource(*file, worksheet)
	} else {
		graphSettings, err := config.LoadGraphSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		client, err := msgraph.NewClient(ctx, graphSettings, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "acquiring graph token: %v\n", err)
			os.Exit(1)
		}
		source = migration.NewGraphSource(client, graphSettings.WorksheetName)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	driver := migration.NewDriver(db, source, logger, migration.DriverOptions{
		DryRun:   *dryRun,
		Limit:    *limit,
		Table:    settings.InvoiceTable,
		Throttle: migration.DefaultThrottle,
	})

	fmt.Printf("Migrating postal invoices from %s into table %q\n", source.Name(), settings.InvoiceTable)
	report, err := driver.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migration aborted: %v\n", err)
		os.Exit(1)
	}

	migration.PrintSummary(report)
	if path, werr := reportfs.Write(settings.ReportsDir, "migration-run", report); werr != nil {
		fmt.Fprintf(os.Stderr, "failed to write run report: %v\n", werr)
	} else {
		fmt.Printf("  report:    %s\n", path)
	}

	if !*dryRun && (report.Counts.Invalid > 0 || report.Counts.Failed > 0) {
		fmt.Fprintf(os.Stderr, "%d invalid and %d failed rows need manual review\n", report.Counts.Invalid, report.Counts.Failed)
		os.Exit(1)
	}
}
