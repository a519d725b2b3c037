package handover

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// Repository provides cash handover persistence scoped by tenant.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateHandover inserts a new handover row.
func (r *Repository) CreateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error) {
	if err := r.db.WithContext(ctx).Create(handover).Error; err != nil {
		return nil, err
	}
	return handover, nil
}

// FindByID loads a handover by tenant and primary key.
func (r *Repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.CashHandover, error) {
	var handover models.CashHandover
	if err := r.db.WithContext(ctx).
		First(&handover, "tenant_id = ? AND id = ?", tenantID, id).
		Error; err != nil {
		return nil, err
	}
	return &handover, nil
}

// UpdateHandover saves mutations on an existing handover row.
func (r *Repository) UpdateHandover(ctx context.Context, handover *models.CashHandover) (*models.CashHandover, error) {
	if err := r.db.WithContext(ctx).Save(handover).Error; err != nil {
		return nil, err
	}
	return handover, nil
}

// ListByTenant returns the tenant's handovers, newest shift first.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.CashHandover, error) {
	var rows []models.CashHandover
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("shift_date DESC").
		Find(&rows).
		Error
	return rows, err
}
