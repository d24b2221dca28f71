package main

import (
	"log"
	"os"

	"bitbucket.org/invoicedesk/postal_backend/api"
	"bitbucket.org/invoicedesk/postal_backend/config"
)

const defaultPort = "8080"

func main() {
	settings := config.LoadMigrationSettings()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		log.Fatal("database not initialized")
	}

	router := api.NewRouter(db, settings.InvoiceTable, config.GetLogger())

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	log.Printf("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
