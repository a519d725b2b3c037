package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salereturn "github.com/Stylish87l/RetailFlow/internal/returns"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// ReturnView adapts the store to the return store interface.
type ReturnView struct {
	s *Store
}

// Returns returns the return-facing view of the store.
func (s *Store) Returns() *ReturnView {
	return &ReturnView{s: s}
}

// CreateReturn validates the return against the sale and applies refund,
// restock, and status change under one lock hold.
func (v *ReturnView) CreateReturn(ctx context.Context, tenantID, processorID uuid.UUID, input salereturn.CreateReturnInput) (*models.SaleReturn, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	txn, ok := v.s.transactions[input.TransactionID]
	if !ok || txn.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}

	prior := salereturn.PriorReturns{Refunded: decimal.Zero, Quantities: map[uuid.UUID]int{}}
	for _, existing := range v.s.returns {
		if existing.TenantID == tenantID && existing.TransactionID == txn.ID {
			prior.Refunded = prior.Refunded.Add(existing.RefundAmount)
			for _, item := range existing.Items {
				prior.Quantities[item.ProductID] += item.Quantity
			}
		}
	}

	ret, fullyRefunded, err := salereturn.Assemble(&txn, prior, processorID, input)
	if err != nil {
		return nil, err
	}

	now := v.s.now()
	ret.ID = uuid.New()
	ret.CreatedAt = now
	for i := range ret.Items {
		ret.Items[i].ID = uuid.New()
		ret.Items[i].ReturnID = ret.ID
	}

	for _, item := range ret.Items {
		product, ok := v.s.products[item.ProductID]
		if ok && product.TenantID == tenantID {
			product.Stock += item.Quantity
			product.UpdatedAt = now
			v.s.products[product.ID] = product
		}
	}

	if fullyRefunded {
		txn.Status = enums.TransactionStatusRefunded
		txn.UpdatedAt = now
		v.s.transactions[txn.ID] = txn
	}

	v.s.returns[ret.ID] = copyReturn(*ret)
	return ret, nil
}

// ListByTenant returns the tenant's returns, newest first.
func (v *ReturnView) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SaleReturn, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rows := []models.SaleReturn{}
	for _, ret := range v.s.returns {
		if ret.TenantID == tenantID {
			rows = append(rows, copyReturn(ret))
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID.String() > rows[j].ID.String()
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}
