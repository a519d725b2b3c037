package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/db/models"
)

// TenantView adapts the store to the tenant reader interfaces.
type TenantView struct {
	s *Store
}

// Tenants returns the tenant-facing view of the store.
func (s *Store) Tenants() *TenantView {
	return &TenantView{s: s}
}

// FindByID loads a tenant by primary key.
func (v *TenantView) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	tenant, ok := v.s.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := tenant
	return &out, nil
}

// FindBySubdomain loads a tenant by its subdomain slug.
func (v *TenantView) FindBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, tenant := range v.s.tenants {
		if tenant.Subdomain == subdomain {
			out := tenant
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// CreateTenant inserts a tenant, enforcing subdomain uniqueness.
func (v *TenantView) CreateTenant(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	for _, existing := range v.s.tenants {
		if existing.Subdomain == tenant.Subdomain {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	now := v.s.now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	v.s.tenants[tenant.ID] = *tenant
	return tenant, nil
}

// UserView adapts the store to the user reader and user store interfaces.
type UserView struct {
	s *Store
}

// Users returns the user-facing view of the store.
func (s *Store) Users() *UserView {
	return &UserView{s: s}
}

// FindByID loads a user by primary key.
func (v *UserView) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	user, ok := v.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := user
	return &out, nil
}

// FindByUsername loads a user by tenant and username.
func (v *UserView) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, user := range v.s.users {
		if user.TenantID == tenantID && user.Username == username {
			out := user
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListByTenant returns the tenant's staff ordered by creation time.
func (v *UserView) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rows := []models.User{}
	for _, user := range v.s.users {
		if user.TenantID == tenantID {
			rows = append(rows, user)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID.String() < rows[j].ID.String()
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

// CreateUser inserts a user, enforcing per-tenant username uniqueness.
func (v *UserView) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	username := strings.ToLower(user.Username)
	for _, existing := range v.s.users {
		if existing.TenantID == user.TenantID && existing.Username == username {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := v.s.now()
	user.Username = username
	user.CreatedAt = now
	user.UpdatedAt = now
	v.s.users[user.ID] = *user
	return user, nil
}
