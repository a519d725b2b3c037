package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// Repository provides user persistence scoped by tenant.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername loads a user by tenant and username.
func (r *Repository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		First(&user, "tenant_id = ? AND username = ?", tenantID, username).
		Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByTenant returns the tenant's staff ordered by creation time.
func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// CreateUser inserts a new user row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CountActiveByTenant counts active staff for the tenant.
func (r *Repository) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&count).
		Error
	return count, err
}
