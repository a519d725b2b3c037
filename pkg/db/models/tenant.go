package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a single shop, the unit of data isolation. Every other
// row carries its id.
type Tenant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Subdomain    string    `gorm:"column:subdomain;not null;uniqueIndex" json:"subdomain"`
	Address      *string   `gorm:"column:address" json:"address,omitempty"`
	Phone        *string   `gorm:"column:phone" json:"phone,omitempty"`
	Email        *string   `gorm:"column:email" json:"email,omitempty"`
	LogoURL      *string   `gorm:"column:logo_url" json:"logo_url,omitempty"`
	PrimaryColor string    `gorm:"column:primary_color;default:'#1976D2'" json:"primary_color"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (t *Tenant) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
