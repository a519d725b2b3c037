package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/types"
)

// CashHandover is an end-of-shift cash reconciliation record comparing
// expected against counted cash.
type CashHandover struct {
	ID             uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID       uuid.UUID               `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	CashierID      uuid.UUID               `gorm:"column:cashier_id;type:uuid;not null" json:"cashier_id"`
	SupervisorID   *uuid.UUID              `gorm:"column:supervisor_id;type:uuid" json:"supervisor_id,omitempty"`
	ShiftDate      time.Time               `gorm:"column:shift_date;not null" json:"shift_date"`
	ExpectedAmount decimal.Decimal         `gorm:"column:expected_amount;type:numeric(10,2);not null" json:"expected_amount"`
	ActualAmount   decimal.Decimal         `gorm:"column:actual_amount;type:numeric(10,2);not null" json:"actual_amount"`
	Difference     decimal.Decimal         `gorm:"column:difference;type:numeric(10,2);not null" json:"difference"`
	Denominations  types.DenominationCount `gorm:"column:denominations;type:jsonb;not null" json:"denominations"`
	Notes          *string                 `gorm:"column:notes" json:"notes,omitempty"`
	IsSubmitted    bool                    `gorm:"column:is_submitted;not null;default:false" json:"is_submitted"`
	CreatedAt      time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (h *CashHandover) BeforeCreate(_ *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
