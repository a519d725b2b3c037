package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Stylish87l/RetailFlow/pkg/config"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

type fakeSaleStore struct {
	saved *models.Transaction
	err   error
}

func (f *fakeSaleStore) CreateSale(_ context.Context, txn *models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.saved = txn
	return nil
}

func newTestService(t *testing.T, store Store) Service {
	t.Helper()
	svc, err := NewService(store, config.TaxConfig{RatePercent: "12.5"})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCreateSalePricesCartServerSide(t *testing.T) {
	store := &fakeSaleStore{}
	svc := newTestService(t, store)

	tenantID := uuid.New()
	cashierID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	txn, err := svc.CreateSale(context.Background(), tenantID, cashierID, CheckoutInput{
		Items: []LineItemInput{
			{ProductID: productA, Quantity: 2, UnitPrice: decimal.RequireFromString("2.50")},
			{ProductID: productB, Quantity: 1, UnitPrice: decimal.RequireFromString("1.50")},
		},
		Discount:      decimal.RequireFromString("0.50"),
		PaymentMethod: enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}

	if !txn.Subtotal.Equal(decimal.RequireFromString("6.50")) {
		t.Fatalf("expected subtotal 6.50, got %s", txn.Subtotal)
	}
	// 12.5% of 6.50 = 0.8125, rounded to 0.81
	if !txn.Tax.Equal(decimal.RequireFromString("0.81")) {
		t.Fatalf("expected tax 0.81, got %s", txn.Tax)
	}
	if !txn.Total.Equal(decimal.RequireFromString("6.81")) {
		t.Fatalf("expected total 6.81, got %s", txn.Total)
	}
	if txn.Status != enums.TransactionStatusCompleted {
		t.Fatalf("expected completed status, got %s", txn.Status)
	}
	if txn.TenantID != tenantID || txn.CashierID != cashierID {
		t.Fatal("tenant or cashier not carried onto the transaction")
	}
	if len(txn.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(txn.Items))
	}
	if !txn.Items[0].Total.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("expected first line total 5.00, got %s", txn.Items[0].Total)
	}
	if store.saved != txn {
		t.Fatal("transaction was not handed to the store")
	}
}

func TestCreateSaleMintsReceiptNumber(t *testing.T) {
	store := &fakeSaleStore{}
	svc := newTestService(t, store)

	txn, err := svc.CreateSale(context.Background(), uuid.New(), uuid.New(), CheckoutInput{
		Items:         []LineItemInput{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
		PaymentMethod: enums.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("CreateSale returned error: %v", err)
	}

	if !strings.HasPrefix(txn.ReceiptNumber, "RCP-") {
		t.Fatalf("unexpected receipt number %q", txn.ReceiptNumber)
	}
	parts := strings.Split(txn.ReceiptNumber, "-")
	if len(parts) != 3 || len(parts[2]) != 4 {
		t.Fatalf("unexpected receipt number shape %q", txn.ReceiptNumber)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	svc := newTestService(t, &fakeSaleStore{})
	ctx := context.Background()
	tenantID := uuid.New()
	cashierID := uuid.New()

	validLine := LineItemInput{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(5)}

	tests := []struct {
		name  string
		input CheckoutInput
	}{
		{
			name:  "emptyCart",
			input: CheckoutInput{PaymentMethod: enums.PaymentMethodCash},
		},
		{
			name: "invalidPaymentMethod",
			input: CheckoutInput{
				Items:         []LineItemInput{validLine},
				PaymentMethod: "cheque",
			},
		},
		{
			name: "negativeDiscount",
			input: CheckoutInput{
				Items:         []LineItemInput{validLine},
				Discount:      decimal.NewFromInt(-1),
				PaymentMethod: enums.PaymentMethodCash,
			},
		},
		{
			name: "zeroQuantity",
			input: CheckoutInput{
				Items:         []LineItemInput{{ProductID: uuid.New(), Quantity: 0, UnitPrice: decimal.NewFromInt(5)}},
				PaymentMethod: enums.PaymentMethodCash,
			},
		},
		{
			name: "missingProductID",
			input: CheckoutInput{
				Items:         []LineItemInput{{Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
				PaymentMethod: enums.PaymentMethodCash,
			},
		},
		{
			name: "discountExceedsTotal",
			input: CheckoutInput{
				Items:         []LineItemInput{validLine},
				Discount:      decimal.NewFromInt(100),
				PaymentMethod: enums.PaymentMethodCash,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSale(ctx, tenantID, cashierID, tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestCreateSalePropagatesStoreError(t *testing.T) {
	storeErr := pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
	svc := newTestService(t, &fakeSaleStore{err: storeErr})

	_, err := svc.CreateSale(context.Background(), uuid.New(), uuid.New(), CheckoutInput{
		Items:         []LineItemInput{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestNewServiceRejectsBadTaxRate(t *testing.T) {
	if _, err := NewService(&fakeSaleStore{}, config.TaxConfig{RatePercent: "banana"}); err == nil {
		t.Fatal("expected error for unparseable tax rate")
	}
	if _, err := NewService(&fakeSaleStore{}, config.TaxConfig{RatePercent: "-1"}); err == nil {
		t.Fatal("expected error for negative tax rate")
	}
}
