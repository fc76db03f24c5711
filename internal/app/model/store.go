package model

import (
	"time"

	"gorm.io/gorm"
)

// Store is a physical shop location, used for pickup orders and
// back-office stock attribution.
type Store struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Slug         string         `gorm:"uniqueIndex;not null" json:"slug"`
	Address      string         `gorm:"type:text" json:"address"`
	Phone        string         `json:"phone"`
	OpeningHours string         `json:"opening_hours"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:StoreID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}
