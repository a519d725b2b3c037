package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db"
	"github.com/Stylish87l/RetailFlow/pkg/db/models"
	"github.com/Stylish87l/RetailFlow/pkg/enums"
	pkgerrors "github.com/Stylish87l/RetailFlow/pkg/errors"
	"github.com/Stylish87l/RetailFlow/pkg/security"
)

// Service exposes tenant staff management operations.
type Service interface {
	CreateUser(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)
}

// CreateUserInput holds the validated payload to create a staff account.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     *string
	FirstName *string
	LastName  *string
	Role      enums.UserRole
}

type Store interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)
}

type service struct {
	store Store
}

// NewService constructs a user service instance.
func NewService(store Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store required")
	}
	return &service{store: store}, nil
}

// CreateUser hashes the password and persists the staff account.
func (s *service) CreateUser(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "hash password")
	}

	row := &models.User{
		TenantID:     tenantID,
		Username:     username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		IsActive:     true,
	}

	created, err := s.store.CreateUser(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}

// ListUsers returns the tenant's staff.
func (s *service) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	rows, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.User{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return rows, nil
}
