package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/pagination"
)

// SaleView adapts the store to the sale store and transaction reader
// interfaces.
type SaleView struct {
	s *Store
}

// Sales returns the transaction-facing view of the store.
func (s *Store) Sales() *SaleView {
	return &SaleView{s: s}
}

// CreateSale applies the stock decrements and records the transaction under
// one lock hold, so a failed line leaves nothing behind.
func (v *SaleView) CreateSale(ctx context.Context, txn *models.Transaction) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	// A cart may carry several lines for the same product; the stock check
	// applies to their combined quantity.
	needed := make(map[uuid.UUID]int, len(txn.Items))
	for _, item := range txn.Items {
		needed[item.ProductID] += item.Quantity
	}
	for _, item := range txn.Items {
		product, ok := v.s.products[item.ProductID]
		if !ok || product.TenantID != txn.TenantID || !product.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
		}
		if product.Stock < needed[item.ProductID] {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("insufficient stock for %s: have %d, need %d", product.Name, product.Stock, needed[item.ProductID]))
		}
	}

	now := v.s.now()
	for productID, quantity := range needed {
		product := v.s.products[productID]
		product.Stock -= quantity
		product.UpdatedAt = now
		v.s.products[product.ID] = product
	}

	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedAt = now
	txn.UpdatedAt = now
	for i := range txn.Items {
		if txn.Items[i].ID == uuid.Nil {
			txn.Items[i].ID = uuid.New()
		}
		txn.Items[i].TransactionID = txn.ID
		txn.Items[i].CreatedAt = now
	}
	v.s.transactions[txn.ID] = copyTransaction(*txn)
	return nil
}

// ListRecent returns the tenant's latest transactions.
func (v *SaleView) ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Transaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rows := []models.Transaction{}
	for _, txn := range v.s.transactions {
		if txn.TenantID == tenantID {
			rows = append(rows, copyTransaction(txn))
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID.String() > rows[j].ID.String()
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	capped := pagination.NormalizeLimit(limit)
	if len(rows) > capped {
		rows = rows[:capped]
	}
	return rows, nil
}

// FindByID loads a transaction with items by tenant and primary key.
func (v *SaleView) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	txn, ok := v.s.transactions[id]
	if !ok || txn.TenantID != tenantID {
		return nil, gorm.ErrRecordNotFound
	}
	out := copyTransaction(txn)
	return &out, nil
}
