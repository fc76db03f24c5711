package model

import (
	"time"
)

// CartItem is one line of an authenticated user's persisted cart.
// The composite unique index is the line identity: one row per
// (user, product, weight variant), merged on repeat add. Cart rows
// are deleted for real, not soft-deleted, so the unique index stays
// honest across remove-and-re-add cycles.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_line_identity" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_line_identity" json:"product_id"`
	VariantID *uint     `gorm:"uniqueIndex:idx_cart_line_identity" json:"variant_id,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User    User           `gorm:"foreignKey:UserID" json:"-"`
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *WeightVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
