package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Stylish87l/RetailFlow/pkg/enums"
)

// Product is a catalog line for one tenant. Soft deletes flip IsActive so
// historical transaction items keep a valid reference.
type Product struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TenantID    uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index" json:"tenant_id"`
	Name        string                `gorm:"column:name;not null" json:"name"`
	Description *string               `gorm:"column:description" json:"description,omitempty"`
	SKU         string                `gorm:"column:sku;not null" json:"sku"`
	Barcode     *string               `gorm:"column:barcode;index" json:"barcode,omitempty"`
	Category    enums.ProductCategory `gorm:"column:category;not null;default:'other'" json:"category"`
	Price       decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Cost        *decimal.Decimal      `gorm:"column:cost;type:numeric(10,2)" json:"cost,omitempty"`
	Stock       int                   `gorm:"column:stock;not null;default:0" json:"stock"`
	MinStock    int                   `gorm:"column:min_stock;not null;default:0" json:"min_stock"`
	ImageURL    *string               `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
