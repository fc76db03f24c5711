package model

import (
	"time"

	"gorm.io/gorm"
)

type CakeOrderStatus string

const (
	CakeOrderReceived  CakeOrderStatus = "received"
	CakeOrderQuoted    CakeOrderStatus = "quoted"
	CakeOrderConfirmed CakeOrderStatus = "confirmed"
	CakeOrderBaking    CakeOrderStatus = "baking"
	CakeOrderReady     CakeOrderStatus = "ready"
	CakeOrderCollected CakeOrderStatus = "collected"
	CakeOrderCancelled CakeOrderStatus = "cancelled"
)

// CakeOrder is a custom cake request submitted from the storefront.
// It is intake-only: pricing happens later in the back office, so
// no User account is required and no cart/checkout flow is involved.
type CakeOrder struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	CustomerName string          `gorm:"not null" json:"customer_name"`
	Phone        string          `gorm:"not null" json:"phone"`
	Email        string          `json:"email"`
	EventDate    time.Time       `gorm:"not null" json:"event_date"`
	Servings     int             `gorm:"not null" json:"servings"`
	FlavorID     *uint           `gorm:"index" json:"flavor_id,omitempty"` // optional reference to a catalog cake
	Inscription  string          `json:"inscription"`
	Notes        string          `gorm:"type:text" json:"notes"`
	ImageURLs    string          `gorm:"type:text" json:"image_urls"` // JSON array of uploaded reference photos
	Status       CakeOrderStatus `gorm:"type:varchar(20);default:'received'" json:"status"`
	QuotedPrice  *float64        `json:"quoted_price,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`

	Flavor *Product `gorm:"foreignKey:FlavorID" json:"flavor,omitempty"`
}

func (CakeOrder) TableName() string {
	return "cake_orders"
}
