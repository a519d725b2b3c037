package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// Transaction is one completed (or pending/refunded/cancelled) sale.
type Transaction struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;index;uniqueIndex:idx_transactions_tenant_receipt" json:"tenant_id"`
	CashierID     uuid.UUID               `gorm:"column:cashier_id;type:uuid;not null" json:"cashier_id"`
	AttendantID   *uuid.UUID              `gorm:"column:attendant_id;type:uuid" json:"attendant_id,omitempty"`
	CustomerName  *string                 `gorm:"column:customer_name" json:"customer_name,omitempty"`
	Subtotal      decimal.Decimal         `gorm:"column:subtotal;type:numeric(10,2);not null" json:"subtotal"`
	Tax           decimal.Decimal         `gorm:"column:tax;type:numeric(10,2);not null;default:0" json:"tax"`
	Discount      decimal.Decimal         `gorm:"column:discount;type:numeric(10,2);not null;default:0" json:"discount"`
	Total         decimal.Decimal         `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	Status        enums.TransactionStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	PaymentMethod enums.PaymentMethod     `gorm:"column:payment_method;not null" json:"payment_method"`
	ReceiptNumber string                  `gorm:"column:receipt_number;uniqueIndex:idx_transactions_tenant_receipt" json:"receipt_number"`
	Notes         *string                 `gorm:"column:notes" json:"notes,omitempty"`
	Items         []TransactionItem       `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
