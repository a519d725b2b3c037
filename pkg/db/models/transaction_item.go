package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionItem snapshots one cart line: quantity and unit price at the
// time of sale, not a live product reference.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TransactionID uuid.UUID       `gorm:"column:transaction_id;type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null" json:"total"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (i *TransactionItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
