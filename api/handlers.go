package api

import (
	"net/http"
	"strconv"
	"strings"

	"bitbucket.org/invoicedesk/postal_backend/config"
	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type handler struct {
	db           *gorm.DB
	invoiceTable string
	logger       *logrus.Logger
}

func (h *handler) health(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listInvoices backs the invoices list view: supplier substring filter,
// invoice-date range, paginated.
func (h *handler) listInvoices(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := h.db.WithContext(c.Request.Context()).Table(h.invoiceTable)
	if supplier := strings.TrimSpace(c.Query("supplier")); supplier != "" {
		query = query.Where("LOWER(supplier_name) LIKE ?", "%"+strings.ToLower(supplier)+"%")
	}
	if from := strings.TrimSpace(c.Query("date_from")); from != "" {
		query = query.Where("invoice_date >= ?", from)
	}
	if to := strings.TrimSpace(c.Query("date_to")); to != "" {
		query = query.Where("invoice_date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.fail(c, "listInvoices", err)
		return
	}

	var invoices []models.PostalInvoice
	err := query.
		Order("invoice_date DESC, invoice_number").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error
	if err != nil {
		h.fail(c, "listInvoices", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      invoices,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// invoiceSummary backs the dashboard status cards: per-status ingest
// counts plus the invoice count and summed total.
func (h *handler) invoiceSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var statusCounts []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	err := h.db.WithContext(ctx).
		Table(config.IngestLogTable).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusCounts).Error
	if err != nil {
		h.fail(c, "invoiceSummary", err)
		return
	}

	var totals struct {
		Invoices    int64               `json:"invoices"`
		TotalAmount decimal.NullDecimal `json:"total_amount"`
	}
	err = h.db.WithContext(ctx).
		Table(h.invoiceTable).
		Select("COUNT(*) AS invoices, SUM(total) AS total_amount").
		Scan(&totals).Error
	if err != nil {
		h.fail(c, "invoiceSummary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ingest_status": statusCounts,
		"invoices":      totals.Invoices,
		"total_amount":  totals.TotalAmount,
	})
}

func (h *handler) listIngestLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	query := h.db.WithContext(c.Request.Context()).Table(config.IngestLogTable)
	if batchID := strings.TrimSpace(c.Query("batch_id")); batchID != "" {
		query = query.Where("batch_id = ?", batchID)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var entries []models.PostalIngestLog
	if err := query.Order("id DESC").Limit(limit).Find(&entries).Error; err != nil {
		h.fail(c, "listIngestLog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (h *handler) fail(c *gin.Context, funcName string, err error) {
	config.LogError(h.logger, "api", funcName, c.FullPath(), nil, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
