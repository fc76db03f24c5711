package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type FulfillmentType string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	FulfillmentDelivery FulfillmentType = "delivery"
	FulfillmentPickup   FulfillmentType = "pickup"
)

type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"order_number"`
	TotalAmount     float64         `gorm:"not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	FulfillmentType FulfillmentType `gorm:"type:varchar(20);default:'delivery'" json:"fulfillment_type"`
	ShippingAddress string          `gorm:"type:text" json:"shipping_address"`
	PickupStoreID   *uint           `gorm:"index" json:"pickup_store_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PickupStore *Store      `gorm:"foreignKey:PickupStoreID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"pickup_store,omitempty"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	ProductID       uint           `gorm:"not null;index" json:"product_id"`
	VariantID       *uint          `gorm:"index" json:"variant_id,omitempty"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	Price           float64        `gorm:"not null" json:"price"`                    // unit price captured at checkout
	VariantSnapshot string         `gorm:"type:text" json:"variant_snapshot"`        // label/price of the variant at checkout
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order          `gorm:"foreignKey:OrderID" json:"-"`
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant *WeightVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
