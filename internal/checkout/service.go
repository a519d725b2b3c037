package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Service performs the point-of-sale checkout: price the cart, mint a
// receipt, and persist the sale atomically.
type Service interface {
	CreateSale(ctx context.Context, tenantID, cashierID uuid.UUID, input CheckoutInput) (*models.Transaction, error)
}

// CheckoutInput holds the validated checkout payload.
type CheckoutInput struct {
	Items         []LineItemInput
	CustomerName  *string
	AttendantID   *uuid.UUID
	Discount      decimal.Decimal
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

// LineItemInput is one cart line. UnitPrice is the price shown at the
// register; the snapshot survives later catalog edits.
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

type Store interface {
	CreateSale(ctx context.Context, txn *models.Transaction) error
}

type service struct {
	store   Store
	taxRate decimal.Decimal
	now     func() time.Time
}

// NewService constructs a checkout service with the configured tax rate.
func NewService(store Store, taxCfg config.TaxConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("sale store required")
	}
	rate, err := decimal.NewFromString(taxCfg.RatePercent)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", taxCfg.RatePercent, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("tax rate cannot be negative")
	}
	return &service{store: store, taxRate: rate, now: time.Now}, nil
}

// CreateSale prices the cart server-side, applies tax and discount, and
// persists the completed transaction with its stock decrements.
func (s *service) CreateSale(ctx context.Context, tenantID, cashierID uuid.UUID, input CheckoutInput) (*models.Transaction, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if input.Discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot be negative")
	}

	subtotal := decimal.Zero
	items := make([]models.TransactionItem, 0, len(input.Items))
	for i, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: product_id is required", i))
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: unit_price cannot be negative", i))
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.TransactionItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     lineTotal,
		})
	}

	tax := subtotal.Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax).Sub(input.Discount)
	if total.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds sale total")
	}

	txn := &models.Transaction{
		TenantID:      tenantID,
		CashierID:     cashierID,
		AttendantID:   input.AttendantID,
		CustomerName:  input.CustomerName,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      input.Discount,
		Total:         total,
		Status:        enums.TransactionStatusCompleted,
		PaymentMethod: input.PaymentMethod,
		ReceiptNumber: mintReceiptNumber(s.now()),
		Notes:         input.Notes,
		Items:         items,
	}

	if err := s.store.CreateSale(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// mintReceiptNumber builds RCP-<unix millis>-<4 hex>. The suffix keeps two
// registers checking out in the same millisecond from colliding; the schema
// enforces per-tenant uniqueness as the backstop.
func mintReceiptNumber(now time.Time) string {
	var suffix [2]byte
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("RCP-%d-%s", now.UnixMilli(), hex.EncodeToString(suffix[:]))
}
