package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clubops/clubfinance/pkg/db"
	"github.com/clubops/clubfinance/pkg/db/models"
	"github.com/clubops/clubfinance/pkg/enums"
)

func TestFinanceMigrationContainsOriginIndexes(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_finance_tables.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS invoices",
		"CREATE TABLE IF NOT EXISTS movements",
		"CREATE TABLE IF NOT EXISTS financial_entries",
		"ON invoices (origin_type, origin_id) WHERE origin_type = 'stock'",
		"ON movements (origin_type, origin_id) WHERE origin_type = 'sponsorship'",
		"DROP TABLE IF EXISTS invoices",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestMigrationsApplyOnSQLite(t *testing.T) {
	conn := openSQLite(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, Run(ctx, sqlDB, db.Wrap(conn).Dialect(), "migrations", "up"))

	saleID := uuid.New()
	invoice := func() *models.Invoice {
		return &models.Invoice{
			UserID:   uuid.New(),
			IssuedAt: time.Now(),
			DueAt:    time.Now().Add(time.Hour),
			Status:   enums.PaymentStatusPending,
			Type:     enums.InvoiceTypeMaterial,
			Origin:   models.NewOrigin(enums.OriginTypeStock, saleID),
		}
	}
	require.NoError(t, conn.Create(invoice()).Error)
	err = conn.Create(invoice()).Error
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "second stock invoice for one sale must be rejected: %v", err)

	// registration invoices share an origin per event and are not unique
	eventID := uuid.New()
	for i := 0; i < 2; i++ {
		inv := invoice()
		inv.Type = enums.InvoiceTypeRegistration
		inv.Origin = models.NewOrigin(enums.OriginTypeEvent, eventID)
		require.NoError(t, conn.Create(inv).Error)
	}

	require.NoError(t, Run(ctx, sqlDB, DialectSQLite, "migrations", "reset"))
	assert.False(t, conn.Migrator().HasTable("invoices"))
}

func TestMigrateToVersion(t *testing.T) {
	conn := openSQLite(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, MigrateToVersion(ctx, sqlDB, DialectSQLite, "migrations", "20240301090100"))
	assert.True(t, conn.Migrator().HasTable("registrations"))
	assert.False(t, conn.Migrator().HasTable("invoices"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, DialectSQLite, "migrations", "20240301090000"))
	assert.False(t, conn.Migrator().HasTable("registrations"))
	assert.True(t, conn.Migrator().HasTable("events"))

	assert.Error(t, MigrateToVersion(ctx, sqlDB, DialectSQLite, "migrations", "latest"))
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.ErrorContains(t, ValidateDir(dir), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_only_up.sql"), []byte("-- +goose Up\n"), 0o644))
	assert.ErrorContains(t, ValidateDir(dir), "missing")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Payment Notes!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_payment_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:migrate_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}
