// Package api serves the read-only endpoints behind the invoices
// dashboard: the list view, the status cards, and the ingest-log panel.
// Nothing here mutates the destination; all writes go through the scripts.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB, invoiceTable string, logger *logrus.Logger) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	h := &handler{db: db, invoiceTable: invoiceTable, logger: logger}

	r.GET("/healthz", h.health)

	group := r.Group("/api")
	group.GET("/invoices", h.listInvoices)
	group.GET("/invoices/summary", h.invoiceSummary)
	group.GET("/ingest-log", h.listIngestLog)

	return r
}
