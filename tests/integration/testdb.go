// Package integration runs the labeling API against a real PostgreSQL
// instance. Containers come from testcontainers and the schema is applied
// with the same migration files the server ships with.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marketops/backend/internal/infrastructure/persistence/models"
)

// shared holds the package-wide container reused by NewSharedTestDB
var shared struct {
	mu        sync.Mutex
	container testcontainers.Container
	dsn       string
}

// TestDB bundles a migrated database connection with its container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// startPostgres launches a PostgreSQL container and returns it with its DSN
func startPostgres(t *testing.T, dbName string) (testcontainers.Container, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	return container, dsn
}

// NewTestDB starts a dedicated container for one test. The container and the
// connection are cleaned up when the test finishes.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	container, dsn := startPostgres(t, "marketops_test")
	db, sqlDB := openGorm(t, dsn)
	migrateUp(t, sqlDB)

	tdb := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}
	t.Cleanup(tdb.Close)
	return tdb
}

// NewSharedTestDB hands out connections to one package-wide container. Tests
// using it must not depend on a pristine schema; the container is migrated
// once and outlives individual tests until CleanupSharedContainer runs.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.container == nil {
		container, dsn := startPostgres(t, "marketops_shared_test")
		db, sqlDB := openGorm(t, dsn)
		migrateUp(t, sqlDB)
		sqlDB.Close()
		_ = db

		shared.container = container
		shared.dsn = dsn
	}

	db, sqlDB := openGorm(t, shared.dsn)
	tdb := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: shared.container,
		DSN:       shared.dsn,
		t:         t,
	}

	// The shared container stays up; only this test's connection is closed
	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			tdb.SqlDB.Close()
		}
	})
	return tdb
}

// Close closes the connection and, for dedicated containers, terminates them
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		tdb.SqlDB.Close()
	}
	if tdb.Container != nil && tdb.Container != shared.container {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// CleanTables truncates every public table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to get table names")

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			tdb.t.Logf("Warning: Failed to truncate table %s: %v", table, err)
		}
	}
}

// WithTransaction runs fn inside a transaction that always rolls back
func (tdb *TestDB) WithTransaction(fn func(tx *gorm.DB)) {
	tdb.t.Helper()

	tx := tdb.DB.Begin()
	require.NoError(tdb.t, tx.Error, "Failed to begin transaction")
	defer tx.Rollback()

	fn(tx)
}

// SeedOrder inserts one order read model row set (order, one item, shipping
// detail) for the given tenant and returns the order id. The values cover
// every path the binder exposes, including marketplace platform, customer
// contact fields, the item barcode, and the carrier tracking URL.
func (tdb *TestDB) SeedOrder(tenantID uuid.UUID, number string) uuid.UUID {
	tdb.t.Helper()

	orderID := uuid.New()
	now := time.Now().UTC()

	order := models.OrderModel{
		ID:            orderID,
		TenantID:      tenantID,
		OrderNumber:   number,
		Status:        "CONFIRMED",
		Platform:      "shopify",
		CustomerName:  "Jordan Alvarez",
		CustomerPhone: "+1 555 0199",
		CustomerEmail: "jordan.alvarez@example.com",
		Currency:      "USD",
		TotalAmount:   decimal.NewFromFloat(149.90),
		PlacedAt:      now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(tdb.t, tdb.DB.Create(&order).Error, "Failed to seed order")

	item := models.OrderItemModel{
		ID:             uuid.New(),
		OrderID:        orderID,
		TenantID:       tenantID,
		ProductName:    "Thermal Label Roll",
		ProductSKU:     "TLR-100",
		ProductBarcode: "0123456789012",
		Quantity:       decimal.NewFromInt(2),
		UnitPrice:      decimal.NewFromFloat(74.95),
		Amount:         decimal.NewFromFloat(149.90),
		Unit:           "pcs",
	}
	require.NoError(tdb.t, tdb.DB.Create(&item).Error, "Failed to seed order item")

	shipping := models.OrderShippingModel{
		ID:             uuid.New(),
		OrderID:        orderID,
		TenantID:       tenantID,
		RecipientName:  "Jordan Alvarez",
		Phone:          "+1 555 0199",
		AddressLine1:   "42 Elm Street",
		City:           "Portland",
		PostalCode:     "97201",
		Country:        "US",
		Carrier:        "UPS",
		TrackingNumber: "1Z999AA10123456784",
		TrackingURL:    "https://track.example.com/1Z999AA10123456784",
		DesiWeight:     decimal.NewFromFloat(1.5),
	}
	require.NoError(tdb.t, tdb.DB.Create(&shipping).Error, "Failed to seed shipping detail")

	return orderID
}

// openGorm connects GORM to the database with test-appropriate settings
func openGorm(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

// migrateUp applies the repository's migration files to the database
func migrateUp(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := locateMigrations()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

// locateMigrations walks up from this file, then from the working directory,
// until it finds the migrations directory
func locateMigrations() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	if wd, err := os.Getwd(); err == nil {
		for _, p := range []string{
			filepath.Join(wd, "migrations"),
			filepath.Join(wd, "..", "migrations"),
			filepath.Join(wd, "..", "..", "migrations"),
		} {
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}

	return ""
}

// CleanupSharedContainer terminates the package-wide container. Call it from
// TestMain when the suite uses NewSharedTestDB.
func CleanupSharedContainer() {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		shared.container.Terminate(ctx)
		shared.container = nil
		shared.dsn = ""
	}
}
