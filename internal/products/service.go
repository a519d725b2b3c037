package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Service exposes tenant catalog management operations.
type Service interface {
	ListProducts(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error)
	CreateProduct(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, tenantID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error
	GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
}

// CreateProductInput holds the validated payload to create a catalog line.
type CreateProductInput struct {
	Name        string
	Description *string
	SKU         string
	Barcode     *string
	Category    enums.ProductCategory
	Price       decimal.Decimal
	Cost        *decimal.Decimal
	Stock       int
	MinStock    int
	ImageURL    *string
}

// UpdateProductInput holds optional mutation values for a catalog line.
type UpdateProductInput struct {
	Name        *string
	Description *string
	SKU         *string
	Barcode     *string
	Category    *enums.ProductCategory
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	Stock       *int
	MinStock    *int
	ImageURL    *string
	IsActive    *bool
}

type Store interface {
	ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Product, error)
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}

type service struct {
	store Store
}

// NewService constructs a product service instance.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	return &service{store: store}, nil
}

// ListProducts returns the tenant's active catalog.
func (s *service) ListProducts(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	rows, err := s.store.ListActiveByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}

// CreateProduct validates and persists a new catalog line.
func (s *service) CreateProduct(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 || input.MinStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	row := &models.Product{
		TenantID:    tenantID,
		Name:        name,
		Description: input.Description,
		SKU:         strings.TrimSpace(input.SKU),
		Barcode:     input.Barcode,
		Category:    input.Category,
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		ImageURL:    input.ImageURL,
		IsActive:    true,
	}

	created, err := s.store.CreateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

// UpdateProduct applies partial mutations to an existing catalog line.
func (s *service) UpdateProduct(ctx context.Context, tenantID, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	row, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		row.Name = name
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		row.SKU = sku
	}
	if input.Barcode != nil {
		row.Barcode = input.Barcode
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		row.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		row.Price = *input.Price
	}
	if input.Cost != nil {
		row.Cost = input.Cost
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		row.Stock = *input.Stock
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_stock cannot be negative")
		}
		row.MinStock = *input.MinStock
	}
	if input.ImageURL != nil {
		row.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	updated, err := s.store.UpdateProduct(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

// DeleteProduct deactivates the catalog line. Sold items keep referencing it,
// so rows are never removed.
func (s *service) DeleteProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	row, err := s.load(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if !row.IsActive {
		return nil
	}
	row.IsActive = false
	if _, err := s.store.UpdateProduct(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
	}
	return nil
}

// GetByBarcode looks up an active product by its barcode.
func (s *service) GetByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	row, err := s.store.FindByBarcode(ctx, tenantID, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup barcode")
	}
	return row, nil
}

func (s *service) load(ctx context.Context, tenantID, productID uuid.UUID) (*models.Product, error) {
	row, err := s.store.FindByID(ctx, tenantID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return row, nil
}
