package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`
	StoreID       uint           `gorm:"not null;index" json:"store_id"`
	UnitID        uint           `gorm:"not null;index" json:"unit_id"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         float64        `gorm:"not null" json:"price"`            // base price, used when no variant is selected
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`  // base stock, variants carry their own
	ImageURL      string         `json:"image_url"`
	IsFeatured    bool           `gorm:"default:false" json:"is_featured"`
	ViewCount     int            `gorm:"default:0" json:"view_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category   Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Store      Store           `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Unit       Unit            `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Variants   []WeightVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
	OrderItems []OrderItem     `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem      `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// WeightVariant is a priced size tier of a product (e.g. "250g", "500g", "1kg").
// A product without variants sells at its base price and stock.
type WeightVariant struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"index;not null" json:"product_id"`
	Label         string         `gorm:"not null" json:"label"` // e.g. "500g"
	Price         float64        `gorm:"not null" json:"price"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (WeightVariant) TableName() string {
	return "weight_variants"
}
