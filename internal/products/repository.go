package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// Repository provides product persistence scoped by tenant.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveByTenant returns the tenant's active catalog ordered by name.
func (r *Repository) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a product by tenant and primary key.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "tenant_id = ? AND id = ?", tenantID, id).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByBarcode loads an active product by tenant and barcode.
func (r *Repository) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		First(&product, "tenant_id = ? AND barcode = ? AND is_active = ?", tenantID, barcode, true).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves mutations on an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}
