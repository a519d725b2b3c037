package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	"github.com/Stylish87l/RetailFlow/pkg/security"
)

// SeedDemo loads the demo shop used in local mode: one tenant ("demo"), an
// admin account (admin/admin123), and a small starter catalog.
func (s *Store) SeedDemo(ctx context.Context) error {
	tenant := &models.Tenant{
		Name:         "Demo Shop",
		Subdomain:    "demo",
		Address:      strPtr("123 Demo Street"),
		Phone:        strPtr("+1234567890"),
		Email:        strPtr("demo@shop.com"),
		PrimaryColor: "#1976D2",
		IsActive:     true,
	}
	if _, err := s.Tenants().CreateTenant(ctx, tenant); err != nil {
		return fmt.Errorf("seed tenant: %w", err)
	}

	hash, err := security.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}
	admin := &models.User{
		TenantID:     tenant.ID,
		Username:     "admin",
		Email:        strPtr("admin@shop.com"),
		PasswordHash: hash,
		FirstName:    strPtr("Admin"),
		LastName:     strPtr("User"),
		Role:         enums.UserRoleAdmin,
		IsActive:     true,
	}
	if _, err := s.Users().CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	catalog := []models.Product{
		{
			TenantID:    tenant.ID,
			Name:        "Coca Cola",
			Description: strPtr("Classic Coca Cola 500ml"),
			SKU:         "CC-500",
			Barcode:     strPtr("123456789"),
			Category:    enums.ProductCategoryBeverages,
			Price:       decimal.RequireFromString("2.50"),
			Cost:        decimalPtr("1.50"),
			Stock:       50,
			MinStock:    10,
			IsActive:    true,
		},
		{
			TenantID:    tenant.ID,
			Name:        "Bread",
			Description: strPtr("Fresh white bread"),
			SKU:         "BR-001",
			Barcode:     strPtr("987654321"),
			Category:    enums.ProductCategoryHousehold,
			Price:       decimal.RequireFromString("1.50"),
			Cost:        decimalPtr("0.80"),
			Stock:       25,
			MinStock:    5,
			IsActive:    true,
		},
	}
	for i := range catalog {
		if _, err := s.Products().CreateProduct(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", catalog[i].SKU, err)
		}
	}
	return nil
}

func strPtr(value string) *string {
	return &value
}

func decimalPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
