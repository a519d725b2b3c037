package handover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/types"
)

// Service exposes end-of-shift cash reconciliation operations.
type Service interface {
	CreateHandover(ctx context.Context, tenantID, cashierID uuid.UUID, input CreateHandoverInput) (*models.CashHandover, error)
	UpdateHandover(ctx context.Context, tenantID, handoverID uuid.UUID, input UpdateHandoverInput) (*models.CashHandover, error)
	ListHandovers(ctx context.Context, tenantID uuid.UUID) ([]models.CashHandover, error)
}

// CreateHandoverInput holds the validated payload for a shift cash count.
type CreateHandoverInput struct {
	ShiftDate      time.Time
	ExpectedAmount decimal.Decimal
	ActualAmount   decimal.Decimal
	Denominations  types.DenominationCount
	SupervisorID   *uuid.UUID
	Notes          *string
}

// UpdateHandoverInput holds optional mutation values for an open handover.
type UpdateHandoverInput struct {
	ExpectedAmount *decimal.Decimal
	ActualAmount   *decimal.Decimal
	Denominations  *types.DenominationCount
	SupervisorID   *uuid.UUID
	Notes          *string
	IsSubmitted    *bool
}

type Store interface {
	CreateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CashHandover, error)
	UpdateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.CashHandover, error)
}

type service struct {
	store Store
}

// NewService constructs a handover service instance.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("handover store required")
	}
	return &service{store: store}, nil
}

// CreateHandover records a shift cash count. When a denomination breakdown is
// supplied the counted amount is recomputed from it rather than trusted from
// the client.
func (s *service) CreateHandover(ctx context.Context, tenantID, cashierID uuid.UUID, input CreateHandoverInput) (*models.CashHandover, error) {
	if input.ShiftDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shift_date is required")
	}
	if input.ExpectedAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected_amount cannot be negative")
	}

	actual := input.ActualAmount
	denominations := input.Denominations
	if denominations == nil {
		denominations = types.DenominationCount{}
	}
	if len(denominations) > 0 {
		counted, err := denominations.Total()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid denominations")
		}
		actual = counted
	}
	if actual.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actual_amount cannot be negative")
	}

	row := &models.CashHandover{
		TenantID:       tenantID,
		CashierID:      cashierID,
		SupervisorID:   input.SupervisorID,
		ShiftDate:      input.ShiftDate,
		ExpectedAmount: input.ExpectedAmount,
		ActualAmount:   actual,
		Difference:     actual.Sub(input.ExpectedAmount),
		Denominations:  denominations,
		Notes:          input.Notes,
		IsSubmitted:    false,
	}

	created, err := s.store.CreateHandover(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create handover")
	}
	return created, nil
}

// UpdateHandover mutates an open handover or submits it. Submitted handovers
// are immutable.
func (s *service) UpdateHandover(ctx context.Context, tenantID, handoverID uuid.UUID, input UpdateHandoverInput) (*models.CashHandover, error) {
	row, err := s.store.FindByID(ctx, tenantID, handoverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "handover not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load handover")
	}
	if row.IsSubmitted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "handover already submitted")
	}

	if input.ExpectedAmount != nil {
		if input.ExpectedAmount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected_amount cannot be negative")
		}
		row.ExpectedAmount = *input.ExpectedAmount
	}
	if input.ActualAmount != nil {
		row.ActualAmount = *input.ActualAmount
	}
	if input.Denominations != nil {
		row.Denominations = *input.Denominations
	}
	if len(row.Denominations) > 0 {
		counted, err := row.Denominations.Total()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid denominations")
		}
		row.ActualAmount = counted
	}
	if row.ActualAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actual_amount cannot be negative")
	}
	row.Difference = row.ActualAmount.Sub(row.ExpectedAmount)

	if input.SupervisorID != nil {
		row.SupervisorID = input.SupervisorID
	}
	if input.Notes != nil {
		row.Notes = input.Notes
	}
	if input.IsSubmitted != nil && *input.IsSubmitted {
		row.IsSubmitted = true
	}

	updated, err := s.store.UpdateHandover(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update handover")
	}
	return updated, nil
}

// ListHandovers returns the tenant's shift reconciliations.
func (s *service) ListHandovers(ctx context.Context, tenantID uuid.UUID) ([]models.CashHandover, error) {
	rows, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list handovers")
	}
	return rows, nil
}
