package transaction

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  sku TEXT NOT NULL,
  barcode TEXT,
  category TEXT NOT NULL DEFAULT 'other',
  price NUMERIC NOT NULL,
  cost NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  tenant_id TEXT NOT NULL,
  cashier_id TEXT NOT NULL,
  attendant_id TEXT,
  customer_name TEXT,
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL DEFAULT 0,
  discount NUMERIC NOT NULL DEFAULT 0,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  receipt_number TEXT NOT NULL,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (tenant_id, receipt_number)
);`,
		`CREATE TABLE IF NOT EXISTS transaction_items (
  id TEXT PRIMARY KEY,
  transaction_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, tenantID uuid.UUID, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		TenantID: tenantID,
		Name:     "Coca Cola",
		SKU:      "CC-500",
		Category: enums.ProductCategoryBeverages,
		Price:    decimal.RequireFromString("2.50"),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func saleFor(tenantID uuid.UUID, product *models.Product, qty int, receipt string) *models.Transaction {
	unit := decimal.RequireFromString("2.50")
	lineTotal := unit.Mul(decimal.NewFromInt(int64(qty)))
	return &models.Transaction{
		TenantID:      tenantID,
		CashierID:     uuid.New(),
		Subtotal:      lineTotal,
		Tax:           decimal.Zero,
		Discount:      decimal.Zero,
		Total:         lineTotal,
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: enums.PaymentMethodCash,
		ReceiptNumber: receipt,
		Items: []models.TransactionItem{
			{ProductID: product.ID, Quantity: qty, UnitPrice: unit, Total: lineTotal},
		},
	}
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, conn, tenantID, 10)

	sale := saleFor(tenantID, product, 3, "RCP-1-aaaa")
	require.NoError(t, repo.CreateSale(ctx, sale))

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 7, stored.Stock)

	loaded, err := repo.FindByID(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, 3, loaded.Items[0].Quantity)
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, conn, tenantID, 2)

	err := repo.CreateSale(ctx, saleFor(tenantID, product, 5, "RCP-2-aaaa"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// nothing committed
	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 2, stored.Stock)

	var count int64
	require.NoError(t, conn.Model(&models.Transaction{}).Where("tenant_id = ?", tenantID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSaleRollsBackEarlierDecrements(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	plenty := seedProduct(t, conn, tenantID, 10)
	scarce := seedProduct(t, conn, tenantID, 1)

	unit := decimal.RequireFromString("2.50")
	sale := saleFor(tenantID, plenty, 2, "RCP-3-aaaa")
	sale.Items = append(sale.Items, models.TransactionItem{
		ProductID: scarce.ID, Quantity: 4, UnitPrice: unit, Total: unit.Mul(decimal.NewFromInt(4)),
	})

	err := repo.CreateSale(ctx, sale)
	require.Error(t, err)

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", plenty.ID).Error)
	assert.Equal(t, 10, stored.Stock, "first line's decrement must roll back")
}

func TestCreateSaleDuplicateLinesCannotOversell(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, conn, tenantID, 10)

	// Each line alone fits within stock; together they do not.
	unit := decimal.RequireFromString("2.50")
	sale := saleFor(tenantID, product, 6, "RCP-9-aaaa")
	sale.Items = append(sale.Items, models.TransactionItem{
		ProductID: product.ID, Quantity: 6, UnitPrice: unit, Total: unit.Mul(decimal.NewFromInt(6)),
	})

	err := repo.CreateSale(ctx, sale)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	var stored models.Product
	require.NoError(t, conn.First(&stored, "id = ?", product.ID).Error)
	assert.Equal(t, 10, stored.Stock, "stock must never go negative")
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()

	missing := &models.Product{ID: uuid.New()}
	err := repo.CreateSale(ctx, saleFor(tenantID, missing, 1, "RCP-4-aaaa"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateSaleCrossTenantProduct(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()

	product := seedProduct(t, conn, uuid.New(), 10)

	err := repo.CreateSale(ctx, saleFor(uuid.New(), product, 1, "RCP-5-aaaa"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code(), "another tenant's product must look nonexistent")
}

func TestCreateSaleInactiveProduct(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()

	product := seedProduct(t, conn, tenantID, 10)
	require.NoError(t, conn.Model(product).Update("is_active", false).Error)

	err := repo.CreateSale(ctx, saleFor(tenantID, product, 1, "RCP-6-aaaa"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCreateSaleDuplicateReceipt(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, conn, tenantID, 10)

	require.NoError(t, repo.CreateSale(ctx, saleFor(tenantID, product, 1, "RCP-7-aaaa")))

	err := repo.CreateSale(ctx, saleFor(tenantID, product, 1, "RCP-7-aaaa"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestListRecentOrdersNewestFirst(t *testing.T) {
	conn := setupSalesTestDB(t)
	repo := NewRepository(db.FromConn(conn))
	ctx := context.Background()
	tenantID := uuid.New()
	product := seedProduct(t, conn, tenantID, 100)

	receipts := []string{"RCP-8-0001", "RCP-8-0002", "RCP-8-0003"}
	for _, receipt := range receipts {
		require.NoError(t, repo.CreateSale(ctx, saleFor(tenantID, product, 1, receipt)))
	}

	rows, err := repo.ListRecent(ctx, tenantID, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, tenantID, row.TenantID)
		assert.NotEmpty(t, row.Items)
	}

	all, err := repo.ListRecent(ctx, tenantID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "zero limit falls back to the default page size")
}
