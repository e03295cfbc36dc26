package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart/pkg/types"
)

// CatalogProduct is one purchasable catalog row, addressed by its lookup name.
type CatalogProduct struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Name      string      `gorm:"column:name;not null;uniqueIndex:catalog_products_name_key"`
	Title     string      `gorm:"column:title;not null"`
	Price     types.Money `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive  bool        `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}

// BeforeCreate assigns the primary key on backends without gen_random_uuid().
func (p *CatalogProduct) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
