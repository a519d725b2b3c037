package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

func seedTenantAndProduct(t *testing.T, store *Store, stock int) (uuid.UUID, *models.Product) {
	t.Helper()
	ctx := context.Background()

	tenant, err := store.Tenants().CreateTenant(ctx, &models.Tenant{
		Name:      "Shop",
		Subdomain: "shop-" + uuid.NewString()[:8],
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	product, err := store.Products().CreateProduct(ctx, &models.Product{
		TenantID: tenant.ID,
		Name:     "Coca Cola",
		SKU:      "CC-500",
		Category: enums.ProductCategoryBeverages,
		Price:    decimal.RequireFromString("2.50"),
		Stock:    stock,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return tenant.ID, product
}

func saleRow(tenantID uuid.UUID, product *models.Product, qty int) *models.Transaction {
	unit := decimal.RequireFromString("2.50")
	total := unit.Mul(decimal.NewFromInt(int64(qty)))
	return &models.Transaction{
		TenantID:      tenantID,
		CashierID:     uuid.New(),
		Subtotal:      total,
		Total:         total,
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: enums.PaymentMethodCash,
		ReceiptNumber: "RCP-" + uuid.NewString()[:8],
		Items: []models.TransactionItem{
			{ProductID: product.ID, Quantity: qty, UnitPrice: unit, Total: total},
		},
	}
}

func TestSeedDemoProvisionsLoginData(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if err := store.SeedDemo(ctx); err != nil {
		t.Fatalf("SeedDemo returned error: %v", err)
	}

	tenant, err := store.Tenants().FindBySubdomain(ctx, "demo")
	if err != nil {
		t.Fatalf("demo tenant missing: %v", err)
	}
	if !tenant.IsActive {
		t.Fatal("demo tenant must be active")
	}

	admin, err := store.Users().FindByUsername(ctx, tenant.ID, "admin")
	if err != nil {
		t.Fatalf("admin user missing: %v", err)
	}
	if admin.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}

	products, err := store.Products().ListActiveByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 demo products, got %d", len(products))
	}
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	sale := saleRow(tenantID, product, 3)
	if err := store.Sales().CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}
	if sale.ID == uuid.Nil {
		t.Fatal("sale id not assigned")
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", stored.Stock)
	}

	loaded, err := store.Sales().FindByID(ctx, tenantID, sale.ID)
	if err != nil {
		t.Fatalf("find sale: %v", err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 3 {
		t.Fatalf("unexpected sale items %+v", loaded.Items)
	}
}

func TestCreateSaleInsufficientStockLeavesStateUntouched(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 2)

	err := store.Sales().CreateSale(ctx, saleRow(tenantID, product, 5))
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 2 {
		t.Fatalf("failed sale must not touch stock, got %d", stored.Stock)
	}

	rows, err := store.Sales().ListRecent(ctx, tenantID, 0)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("failed sale must not be recorded, got %d rows", len(rows))
	}
}

func TestCreateSaleDuplicateLinesCheckCombinedStock(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	// Each line alone fits within stock; together they do not.
	unit := decimal.RequireFromString("2.50")
	sale := &models.Transaction{
		TenantID:      tenantID,
		CashierID:     uuid.New(),
		Subtotal:      unit.Mul(decimal.NewFromInt(12)),
		Total:         unit.Mul(decimal.NewFromInt(12)),
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: enums.PaymentMethodCash,
		ReceiptNumber: "RCP-" + uuid.NewString()[:8],
		Items: []models.TransactionItem{
			{ProductID: product.ID, Quantity: 6, UnitPrice: unit, Total: unit.Mul(decimal.NewFromInt(6))},
			{ProductID: product.ID, Quantity: 6, UnitPrice: unit, Total: unit.Mul(decimal.NewFromInt(6))},
		},
	}

	err := store.Sales().CreateSale(ctx, sale)
	if err == nil {
		t.Fatal("expected combined quantity over stock to be rejected")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 10 {
		t.Fatalf("failed sale must not touch stock, got %d", stored.Stock)
	}
}

func TestCreateSaleCrossTenantProductLooksMissing(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	_, product := seedTenantAndProduct(t, store, 10)
	otherTenant, _ := seedTenantAndProduct(t, store, 10)

	err := store.Sales().CreateSale(ctx, saleRow(otherTenant, product, 1))
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- store.Sales().CreateSale(ctx, saleRow(tenantID, product, 1))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 10 {
		t.Fatalf("expected exactly 10 sales to succeed, got %d", succeeded)
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 0 {
		t.Fatalf("expected stock drained to 0, got %d", stored.Stock)
	}
}

func TestCreateReturnRestocksAndCaps(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	sale := saleRow(tenantID, product, 4)
	if err := store.Sales().CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}

	ret, err := store.Returns().CreateReturn(ctx, tenantID, uuid.New(), salereturn.CreateReturnInput{
		TransactionID: sale.ID,
		Reason:        "damaged",
		RefundAmount:  decimal.RequireFromString("5.00"),
		Items:         []salereturn.ReturnItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateReturn returned error: %v", err)
	}
	if ret.ID == uuid.Nil || len(ret.Items) != 1 {
		t.Fatalf("unexpected return row %+v", ret)
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 8 {
		t.Fatalf("expected stock 8 after restock, got %d", stored.Stock)
	}

	// refunding more than the remaining balance fails
	_, err = store.Returns().CreateReturn(ctx, tenantID, uuid.New(), salereturn.CreateReturnInput{
		TransactionID: sale.ID,
		Reason:        "again",
		RefundAmount:  decimal.RequireFromString("6.00"),
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	// refunding exactly the remainder flips the sale to refunded
	_, err = store.Returns().CreateReturn(ctx, tenantID, uuid.New(), salereturn.CreateReturnInput{
		TransactionID: sale.ID,
		Reason:        "rest",
		RefundAmount:  decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("final return failed: %v", err)
	}
	loaded, err := store.Sales().FindByID(ctx, tenantID, sale.ID)
	if err != nil {
		t.Fatalf("find sale: %v", err)
	}
	if loaded.Status != enums.TransactionStatusRefunded {
		t.Fatalf("expected refunded status, got %s", loaded.Status)
	}
}

func TestCreateReturnCapsUnitsAcrossReturns(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	sale := saleRow(tenantID, product, 4)
	if err := store.Sales().CreateSale(ctx, sale); err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}

	_, err := store.Returns().CreateReturn(ctx, tenantID, uuid.New(), salereturn.CreateReturnInput{
		TransactionID: sale.ID,
		Reason:        "damaged",
		RefundAmount:  decimal.RequireFromString("7.50"),
		Items:         []salereturn.ReturnItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	// Only 1 of the 4 sold units is still returnable.
	_, err = store.Returns().CreateReturn(ctx, tenantID, uuid.New(), salereturn.CreateReturnInput{
		TransactionID: sale.ID,
		Reason:        "again",
		RefundAmount:  decimal.RequireFromString("2.50"),
		Items:         []salereturn.ReturnItemInput{{ProductID: product.ID, Quantity: 2}},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for over-return, got %v", err)
	}

	stored, err := store.Products().FindByID(ctx, tenantID, product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	if stored.Stock != 9 {
		t.Fatalf("expected stock 9 after 4 sold and 3 restocked, got %d", stored.Stock)
	}
}

func TestReportViewAggregates(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 100)

	for i := 0; i < 3; i++ {
		if err := store.Sales().CreateSale(ctx, saleRow(tenantID, product, 2)); err != nil {
			t.Fatalf("CreateSale returned error: %v", err)
		}
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1)

	total, count, err := store.Reports().SalesTotals(ctx, tenantID, from, to)
	if err != nil {
		t.Fatalf("SalesTotals returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 transactions, got %d", count)
	}
	if !total.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("expected total 15.00, got %s", total)
	}

	days, err := store.Reports().SalesByDay(ctx, tenantID, from, to)
	if err != nil {
		t.Fatalf("SalesByDay returned error: %v", err)
	}
	if len(days) != 1 || days[0].Count != 3 {
		t.Fatalf("unexpected daily rows %+v", days)
	}
}

func TestSalesByDayBucketsInWindowLocation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 10)

	// 23:30 UTC rolls into the next day in any zone east of UTC; buckets
	// must follow the window's location, not the server's.
	saleTime := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return saleTime }
	if err := store.Sales().CreateSale(ctx, saleRow(tenantID, product, 1)); err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}

	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	days, err := store.Reports().SalesByDay(ctx, tenantID, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SalesByDay returned error: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2025-03-10" {
		t.Fatalf("expected one bucket dated 2025-03-10, got %+v", days)
	}
}

func TestLowStockCount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	tenantID, product := seedTenantAndProduct(t, store, 3)

	product.MinStock = 5
	if _, err := store.Products().UpdateProduct(ctx, product); err != nil {
		t.Fatalf("update product: %v", err)
	}

	count, err := store.Reports().LowStockCount(ctx, tenantID)
	if err != nil {
		t.Fatalf("LowStockCount returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 low stock item, got %d", count)
	}
}

func TestDuplicateSubdomainAndUsername(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	tenant, err := store.Tenants().CreateTenant(ctx, &models.Tenant{Name: "A", Subdomain: "dup", IsActive: true})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}

	_, err = store.Tenants().CreateTenant(ctx, &models.Tenant{Name: "B", Subdomain: "dup", IsActive: true})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key error, got %v", err)
	}

	_, err = store.Users().CreateUser(ctx, &models.User{TenantID: tenant.ID, Username: "bob", PasswordHash: "x", Role: enums.UserRoleStaff, IsActive: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err = store.Users().CreateUser(ctx, &models.User{TenantID: tenant.ID, Username: "Bob", PasswordHash: "x", Role: enums.UserRoleStaff, IsActive: true})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key for case-insensitive username, got %v", err)
	}
}
