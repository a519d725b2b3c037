package salereturn

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Repository provides return persistence scoped by tenant. CreateReturn runs
// inside a single database transaction: refund cap check, return insert,
// restock, and the refunded flag move together.
type Repository struct {
	client *db.Client
}

// NewRepository builds a repository tied to the provided database client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// CreateReturn validates the return against the sale and persists it with
// its restocks atomically.
func (r *Repository) CreateReturn(ctx context.Context, tenantID, processorID uuid.UUID, input CreateReturnInput) (*models.SaleReturn, error) {
	var created *models.SaleReturn
	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Preload("Items").
			First(&txn, "tenant_id = ? AND id = ?", tenantID, input.TransactionID).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
		}

		prior, err := loadPriorReturns(tx, tenantID, txn.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load prior returns")
		}

		ret, fullyRefunded, err := Assemble(&txn, prior, processorID, input)
		if err != nil {
			return err
		}

		if err := tx.Create(ret).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert return")
		}

		for _, item := range ret.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND tenant_id = ?", item.ProductID, tenantID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).
				Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock product")
			}
		}

		if fullyRefunded {
			if err := tx.Model(&models.Transaction{}).
				Where("id = ?", txn.ID).
				Update("status", enums.TransactionStatusRefunded).
				Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark transaction refunded")
			}
		}

		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// loadPriorReturns sums what earlier returns already refunded and restocked
// for the transaction, so the caps apply cumulatively.
func loadPriorReturns(tx *gorm.DB, tenantID, transactionID uuid.UUID) (PriorReturns, error) {
	prior := PriorReturns{Refunded: decimal.Zero, Quantities: map[uuid.UUID]int{}}

	var total decimal.NullDecimal
	err := tx.Model(&models.SaleReturn{}).
		Select("SUM(refund_amount)").
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		Scan(&total).
		Error
	if err != nil {
		return prior, err
	}
	if total.Valid {
		prior.Refunded = total.Decimal
	}

	type quantityRow struct {
		ProductID uuid.UUID
		Quantity  int
	}
	var rows []quantityRow
	err = tx.Model(&models.ReturnItem{}).
		Select("return_items.product_id AS product_id, SUM(return_items.quantity) AS quantity").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.tenant_id = ? AND returns.transaction_id = ?", tenantID, transactionID).
		Group("return_items.product_id").
		Scan(&rows).
		Error
	if err != nil {
		return prior, err
	}
	for _, row := range rows {
		prior.Quantities[row.ProductID] = row.Quantity
	}
	return prior, nil
}

// ListByTenant returns the tenant's returns, newest first.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SaleReturn, error) {
	var rows []models.SaleReturn
	err := r.client.DB().WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}
