package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the kitchen-facing lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the legal next states for every non-terminal state.
// Cancellation is reachable from any non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderCompleted, OrderCancelled},
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo reports whether moving from s to next is legal
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus is the payment axis of an order, independent of OrderStatus
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentFailed:    {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
}

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order types
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// Payment methods
const (
	PaymentMethodCard   = "card"
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// Order represents a placed customer order
type Order struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	OrderNumber      string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID           *uint           `gorm:"index" json:"userId"` // nullable, guest checkout
	CustomerName     string          `gorm:"not null" json:"customerName"`
	CustomerEmail    string          `gorm:"not null" json:"customerEmail"`
	CustomerPhone    string          `gorm:"not null" json:"customerPhone"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax              decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	DeliveryFee      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"deliveryFee"`
	Discount         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	Total            decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status           OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentStatus    PaymentStatus   `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentReference *string         `json:"paymentReference"` // provider payment intent id
	OrderType        string          `gorm:"type:varchar(20);not null" json:"orderType"`
	DeliveryAddress  *string         `json:"deliveryAddress"` // only set for delivery orders
	EstimatedTime    *time.Time      `json:"estimatedTime"`
	Notes            string          `gorm:"type:text" json:"notes"`
	Version          int             `gorm:"not null;default:1" json:"-"`
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a priced line of an order. Name and Price are snapshots taken
// when the order was placed; MenuItemID is informational only.
type OrderItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	OrderID             uint            `gorm:"not null;index" json:"orderId"`
	MenuItemID          uint            `gorm:"not null;index" json:"menuItemId"`
	Name                string          `gorm:"not null" json:"name"`
	Price               decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity            int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	SpecialInstructions string          `json:"specialInstructions"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns price x quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AmountInMinorUnits converts the order total to cents
func (o *Order) AmountInMinorUnits() int64 {
	return o.Total.Shift(2).Round(0).IntPart()
}
