package migration

import (
	"io"
	"testing"

	"bitbucket.org/invoicedesk/postal_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB gives each test an isolated in-memory destination with the
// real schema, so the gorm query paths run for real.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping sql.DB: %v", err)
	}
	// :memory: is per-connection; a second pooled connection would see an
	// empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
