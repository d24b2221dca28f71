package main

import (
	"flag"
	"fmt"
	"os"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/migrations"
	"github.com/pressly/goose/v3"
)

// schema-migrate applies the embedded destination DDL (invoices +
// postal_ingest_log). Subcommands: up (default), status.
func main() {
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "unwrapping sql.DB: %v\n", err)
		os.Exit(1)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch command {
	case "up":
		err = goose.Up(sqlDB, ".")
	case "status":
		err = goose.Status(sqlDB, ".")
	default:
		err = fmt.Errorf("unknown command %q (want up or status)", command)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
