package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
)

// Service exposes sale history queries.
type Service interface {
	ListTransactions(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error)
}

type Store interface {
	ListRecent(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Transaction, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error)
}

type service struct {
	store Store
}

// NewService constructs a transaction query service.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("transaction store required")
	}
	return &service{store: store}, nil
}

// ListTransactions returns the tenant's most recent sales.
func (s *service) ListTransactions(ctx context.Context, tenantID uuid.UUID, limit int) ([]models.Transaction, error) {
	rows, err := s.store.ListRecent(ctx, tenantID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return rows, nil
}

// GetTransaction returns one sale with its line items.
func (s *service) GetTransaction(ctx context.Context, tenantID, id uuid.UUID) (*models.Transaction, error) {
	row, err := s.store.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transaction")
	}
	return row, nil
}
