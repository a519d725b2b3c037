package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// User belongs to exactly one tenant. The password hash is never serialized.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID     uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_users_tenant_username" json:"tenant_id"`
	Username     string         `gorm:"column:username;not null;uniqueIndex:idx_users_tenant_username" json:"username"`
	Email        *string        `gorm:"column:email" json:"email,omitempty"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName    *string        `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName     *string        `gorm:"column:last_name" json:"last_name,omitempty"`
	Role         enums.UserRole `gorm:"column:role;not null;default:'staff'" json:"role"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
