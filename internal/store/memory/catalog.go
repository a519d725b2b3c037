package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// ProductView adapts the store to the product store interface.
type ProductView struct {
	s *Store
}

// Products returns the catalog-facing view of the store.
func (s *Store) Products() *ProductView {
	return &ProductView{s: s}
}

// ListActiveByTenant returns the tenant's active catalog ordered by name.
func (v *ProductView) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rows := []models.Product{}
	for _, product := range v.s.products {
		if product.TenantID == tenantID && product.IsActive {
			rows = append(rows, product)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// FindByID loads a product by tenant and primary key.
func (v *ProductView) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	product, ok := v.s.products[id]
	if !ok || product.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	out := product
	return &out, nil
}

// FindByBarcode loads an active product by tenant and barcode.
func (v *ProductView) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, product := range v.s.products {
		if product.TenantID == tenantID && product.IsActive &&
			product.Barcode != nil && *product.Barcode == barcode {
			out := product
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// CreateProduct inserts a product row.
func (v *ProductView) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := v.s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	v.s.products[product.ID] = *product
	return product, nil
}

// UpdateProduct saves mutations on an existing product row.
func (v *ProductView) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	existing, ok := v.s.products[product.ID]
	if !ok || existing.TenantID != product.TenantID {
		return nil, gorm.ErrRecordNotFound
	}
	product.UpdatedAt = v.s.now()
	v.s.products[product.ID] = *product
	return product, nil
}
