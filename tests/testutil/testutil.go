// Package testutil provides the clinic fixtures shared by package tests:
// migrated in-memory SQLite, seeded stock and users, and test events.
package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vetclinic/backend/internal/domain/identity"
	"github.com/vetclinic/backend/internal/domain/inventory"
	"github.com/vetclinic/backend/internal/domain/procurement"
	"github.com/vetclinic/backend/internal/infrastructure/persistence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens an in-memory SQLite database with the full schema.
// One connection is used so every query sees the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to open SQLite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, persistence.AutoMigrate(db), "Failed to migrate schema")
	return db
}

// SeedProduct stores a product with the given opening quantity and a
// reorder threshold of 5
func SeedProduct(t *testing.T, db *gorm.DB, code string, quantity int, unitPrice int64) *inventory.StockItem {
	t.Helper()

	item, err := inventory.NewStockItem(code, "Product "+code, inventory.KindProduct, decimal.NewFromInt(unitPrice), 5)
	require.NoError(t, err)
	item.QuantityOnHand = quantity
	require.NoError(t, persistence.NewGormStockItemRepository(db).Create(context.Background(), item))
	return item
}

// SeedServiceItem stores a service item
func SeedServiceItem(t *testing.T, db *gorm.DB, code string, unitPrice int64) *inventory.StockItem {
	t.Helper()

	item, err := inventory.NewStockItem(code, "Service "+code, inventory.KindService, decimal.NewFromInt(unitPrice), 0)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormStockItemRepository(db).Create(context.Background(), item))
	return item
}

// SeedSupplier stores an active supplier
func SeedSupplier(t *testing.T, db *gorm.DB, name string) *procurement.Supplier {
	t.Helper()

	supplier, err := procurement.NewSupplier(procurement.SupplierDetails{Name: name, IsActive: true})
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormSupplierRepository(db).Create(context.Background(), supplier))
	return supplier
}

// QuantityOf reads an item's current quantity on hand
func QuantityOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	item, err := persistence.NewGormStockItemRepository(db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return item.QuantityOnHand
}

// SeedUser stores an active user named username with email
// <username>@clinic.test
func SeedUser(t *testing.T, db *gorm.DB, username, password string, role identity.Role) *identity.User {
	t.Helper()

	user, err := identity.NewUser(username, username+"@clinic.test", strings.ToUpper(username), password, role)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(db).Create(context.Background(), user))
	return user
}
