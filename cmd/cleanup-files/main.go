package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/dedupe"
	"bitbucket.org/invoicedesk/postal_backend/msgraph"
	"bitbucket.org/invoicedesk/postal_backend/reportfs"
)

// cleanup-files deletes pending invoice files that already exist in the
// archive folder. Archive is authoritative: a file matching on name and
// size is removed from pending unconditionally.
func main() {
	dryRun := flag.Bool("dry-run", false, "If true, print the plan without deleting")
	archivePath := flag.String("archive", "Invoices/Archive", "Drive path of the archive folder")
	pendingPath := flag.String("pending", "Invoices/Pending", "Drive path of the source/pending folder")
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

	archive, err := client.ListFolderChildren(ctx, *archivePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	pending, err := client.ListFolderChildren(ctx, *pendingPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	doomed := dedupe.PlanFileCleanup(archive, pending)
	fmt.Printf("%d archived, %d pending, %d pending files already archived\n", len(archive), len(pending), len(doomed))
	if len(doomed) == 0 {
		return
	}

	plan := map[string]interface{}{
		"archive_path": *archivePath,
		"pending_path": *pendingPath,
		"delete":       doomed,
		"dry_run":      *dryRun,
	}
	if path, werr := reportfs.Write(settings.ReportsDir, "file-cleanup-plan", plan); werr != nil {
		fmt.Fprintf(os.Stderr, "refusing to delete without a plan artifact: %v\n", werr)
		os.Exit(1)
	} else {
		fmt.Printf("plan written: %s\n", path)
	}

	if *dryRun {
		for _, item := range doomed {
			fmt.Printf("[dry-run] would delete %s (%d bytes)\n", item.Name, item.Size)
		}
		return
	}

	deleted := 0
	for _, item := range doomed {
		if err := client.DeleteItem(ctx, item.ID); err != nil {
			config.LogError(logger, "cleanup-files", "main", "deleting pending file", item.Name, err)
			fmt.Fprintf(os.Stderr, "failed to delete %s: %v\n", item.Name, err)
			continue
		}
		deleted++
		fmt.Printf("deleted %s\n", item.Name)
	}
	fmt.Printf("deleted %d of %d files\n", deleted, len(doomed))
	if deleted < len(doomed) {
		os.Exit(1)
	}
}
