package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// SaleReturn records a reversed sale against an existing transaction.
type SaleReturn struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	TransactionID uuid.UUID           `gorm:"column:transaction_id;type:uuid;not null;index" json:"transaction_id"`
	ProcessedByID uuid.UUID           `gorm:"column:processed_by_id;type:uuid;not null" json:"processed_by_id"`
	Reason        string              `gorm:"column:reason;not null" json:"reason"`
	RefundAmount  decimal.Decimal     `gorm:"column:refund_amount;type:numeric(10,2);not null" json:"refund_amount"`
	RefundMethod  enums.PaymentMethod `gorm:"column:refund_method;not null" json:"refund_method"`
	Notes         *string             `gorm:"column:notes" json:"notes,omitempty"`
	Items         []ReturnItem        `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (r *SaleReturn) TableName() string {
	return "returns"
}

func (r *SaleReturn) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ReturnItem mirrors a transaction item for the portion being returned.
type ReturnItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ReturnID  uuid.UUID       `gorm:"column:return_id;type:uuid;not null;index" json:"return_id"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
}

func (i *ReturnItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
