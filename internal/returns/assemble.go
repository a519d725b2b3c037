package salereturn

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// CreateReturnInput holds the validated payload to reverse part or all of a
// sale.
type CreateReturnInput struct {
	TransactionID uuid.UUID
	Reason        string
	RefundAmount  decimal.Decimal
	RefundMethod  *enums.PaymentMethod
	Notes         *string
	Items         []ReturnItemInput
}

// ReturnItemInput names a sold line and how many units come back.
type ReturnItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PriorReturns summarizes what earlier returns already reversed for one
// sale: the money refunded and the units restocked per product.
type PriorReturns struct {
	Refunded   decimal.Decimal
	Quantities map[uuid.UUID]int
}

// Assemble validates the return against the transaction and builds the row
// set to persist. Both storage backends call it inside their critical
// section so the refund and quantity caps hold under concurrent returns.
// The boolean reports whether the transaction is fully refunded afterwards.
func Assemble(txn *models.Transaction, prior PriorReturns, processorID uuid.UUID, input CreateReturnInput) (*models.SaleReturn, bool, error) {
	if txn.Status != enums.TransactionStatusCompleted {
		return nil, false, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("transaction is %s, only completed sales can be returned", txn.Status))
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if !input.RefundAmount.IsPositive() {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "refund_amount must be positive")
	}

	remaining := txn.Total.Sub(prior.Refunded)
	if input.RefundAmount.GreaterThan(remaining) {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("refund_amount %s exceeds remaining refundable %s", input.RefundAmount, remaining))
	}

	method := txn.PaymentMethod
	if input.RefundMethod != nil {
		if !input.RefundMethod.IsValid() {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "invalid refund method")
		}
		method = *input.RefundMethod
	}

	// The sale itself may split one product over several lines; sold
	// quantities combine the same way requested ones do below.
	soldByProduct := make(map[uuid.UUID]models.TransactionItem, len(txn.Items))
	for _, item := range txn.Items {
		if existing, ok := soldByProduct[item.ProductID]; ok {
			existing.Quantity += item.Quantity
			soldByProduct[item.ProductID] = existing
			continue
		}
		soldByProduct[item.ProductID] = item
	}

	// Requests may repeat a product across lines; the cap applies to the
	// combined quantity, against what is still returnable after earlier
	// returns. Repeated lines collapse into one row.
	requested := make(map[uuid.UUID]int, len(input.Items))
	order := make([]uuid.UUID, 0, len(input.Items))
	for i, line := range input.Items {
		if _, ok := soldByProduct[line.ProductID]; !ok {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: product %s was not part of the sale", i, line.ProductID))
		}
		if line.Quantity <= 0 {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	items := make([]models.ReturnItem, 0, len(order))
	for _, productID := range order {
		sold := soldByProduct[productID]
		quantity := requested[productID]
		returnable := sold.Quantity - prior.Quantities[productID]
		if quantity > returnable {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s: returning %d but only %d of %d sold remain returnable",
					productID, quantity, returnable, sold.Quantity))
		}
		items = append(items, models.ReturnItem{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: sold.UnitPrice,
			Total:     sold.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		})
	}

	ret := &models.SaleReturn{
		TenantID:      txn.TenantID,
		TransactionID: txn.ID,
		ProcessedByID: processorID,
		Reason:        reason,
		RefundAmount:  input.RefundAmount,
		RefundMethod:  method,
		Notes:         input.Notes,
		Items:         items,
	}
	fullyRefunded := prior.Refunded.Add(input.RefundAmount).Equal(txn.Total)
	return ret, fullyRefunded, nil
}
