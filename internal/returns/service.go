package salereturn

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Service exposes sale return operations.
type Service interface {
	CreateReturn(ctx context.Context, tenantID, processorID uuid.UUID, input CreateReturnInput) (*models.SaleReturn, error)
	ListReturns(ctx context.Context, tenantID uuid.UUID) ([]models.SaleReturn, error)
}

type Store interface {
	CreateReturn(ctx context.Context, tenantID, processorID uuid.UUID, input CreateReturnInput) (*models.SaleReturn, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SaleReturn, error)
}

type service struct {
	store Store
}

// NewService constructs a return service instance.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("return store required")
	}
	return &service{store: store}, nil
}

// CreateReturn reverses part or all of a completed sale.
func (s *service) CreateReturn(ctx context.Context, tenantID, processorID uuid.UUID, input CreateReturnInput) (*models.SaleReturn, error) {
	if input.TransactionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction_id is required")
	}
	return s.store.CreateReturn(ctx, tenantID, processorID, input)
}

// ListReturns returns the tenant's processed returns.
func (s *service) ListReturns(ctx context.Context, tenantID uuid.UUID) ([]models.SaleReturn, error) {
	rows, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list returns")
	}
	return rows, nil
}
