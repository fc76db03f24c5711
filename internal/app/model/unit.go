package model

import (
	"time"

	"gorm.io/gorm"
)

// Unit is a sale unit of measure (gram, kilogram, piece, box).
type Unit struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"uniqueIndex;not null" json:"name"`
	Abbreviation string         `gorm:"not null" json:"abbreviation"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Unit) TableName() string {
	return "units"
}
