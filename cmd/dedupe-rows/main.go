package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/dedupe"
	"bitbucket.org/invoicedesk/postal_backend/migration"
	"bitbucket.org/invoicedesk/postal_backend/msgraph"
	"bitbucket.org/invoicedesk/postal_backend/reportfs"
)

// dedupe-rows removes duplicate rows from the postal workbook itself.
// Rows sharing (invoice number, invoice date, total) are grouped; the most
// complete row of each group survives and the rest are deleted bottom-up
// so the shifting table indices stay valid.
//
// A full backup of the table is written before anything is deleted.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, print the plan without deleting")
	flag.Parse()

	ctx := context.Background()
	logger := config.GetLogger()
	settings := config.LoadMigrationSettings()

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

	data, err := client.ReadWorksheetTable(ctx, graphSettings.WorksheetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rows := make([]migration.RawRow, 0, len(data.Rows))
	for _, values := range data.Rows {
		rows = append(rows, migration.NewRawRow(data.Headers, values))
	}

	plan := dedupe.PlanRowDedupe(rows)
	fmt.Printf("%d rows read, %d duplicate groups, %d rows to delete\n", len(rows), len(plan.Groups), len(plan.DeleteOrder))

	if len(plan.DeleteOrder) == 0 {
		return
	}

	// Backup before any destructive call, even on dry runs: it doubles as
	// the analysis artifact.
	backup := map[string]interface{}{
		"worksheet": data.WorksheetName,
		"table":     data.TableName,
		"headers":   data.Headers,
		"rows":      data.Rows,
		"plan":      plan,
	}
	path, err := reportfs.Write(settings.ReportsDir, "dedup-backup", backup)
	if err != nil {
		fmt.Fprintf(os.Stderr, "refusing to delete without a backup: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("backup written: %s\n", path)

	deleted, err := dedupe.ExecuteRowPlan(ctx, client, data.TableID, plan, *dryRun, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dedup aborted after %d deletions: %v\n", deleted, err)
		fmt.Fprintln(os.Stderr, "row indices have shifted; re-run to plan again from the current table")
		os.Exit(1)
	}

	result := map[string]interface{}{"deleted": deleted, "plan": plan, "dry_run": *dryRun}
	if path, werr := reportfs.Write(settings.ReportsDir, "dedup-result", result); werr == nil {
		fmt.Printf("result written: %s\n", path)
	}
	if !*dryRun {
		fmt.Printf("deleted %d duplicate rows\n", deleted)
	}
}
