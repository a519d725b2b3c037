package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/pagination"
)

// Repository provides sale persistence scoped by tenant. Writes run inside a
// single database transaction so a sale either lands completely, stock
// decrements included, or not at all.
type Repository struct {
	client *db.Client
}

// NewRepository builds a repository tied to the provided database client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// CreateSale persists the transaction, its items, and the matching stock
// decrements atomically. The decrement is conditional on sufficient stock:
// a line whose product is missing for the tenant fails NOT_FOUND, one whose
// stock would go negative fails STATE_CONFLICT, and either rolls the whole
// sale back.
func (r *Repository) CreateSale(ctx context.Context, txn *models.Transaction) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		for _, item := range txn.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND tenant_id = ? AND is_active = ? AND stock >= ?",
					item.ProductID, txn.TenantID, true, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement stock")
			}
			if res.RowsAffected == 0 {
				return classifyStockFailure(tx, txn.TenantID, item)
			}
		}
		if err := tx.Create(txn).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "receipt number already issued")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert transaction")
		}
		return nil
	})
}

func classifyStockFailure(tx *gorm.DB, tenantID uuid.UUID, item models.TransactionItem) error {
	var product models.Product
	err := tx.First(&product, "id = ? AND tenant_id = ? AND is_active = ?", item.ProductID, tenantID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("insufficient stock for %s: have %d, need %d", product.Name, product.Stock, item.Quantity))
}

// ListRecent returns the tenant's latest transactions with items preloaded.
func (r *Repository) ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(pagination.NormalizeLimit(limit)).
		Find(&rows).
		Error
	return rows, err
}

// FindByID loads a transaction with items by tenant and primary key.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.client.DB().WithContext(ctx).
		Preload("Items").
		First(&txn, "tenant_id = ? AND id = ?", tenantID, id).
		Error; err != nil {
		return nil, err
	}
	return &txn, nil
}
