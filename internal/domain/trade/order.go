package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Order is the sales order as the labeling context sees it: a read model
// sourced from the order management system. Label rendering never mutates it.
type Order struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Number        string
	Status        OrderStatus
	Platform      string // marketplace the order came from, e.g. "trendyol"
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Currency      string // ISO 4217 code, e.g. "TRY", "EUR"
	TotalAmount   decimal.Decimal
	Remark        string
	PlacedAt      time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one line of an order read model
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductName    string
	ProductSKU     string
	ProductBarcode string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal
	Unit           string
}

// ShippingDetail carries the delivery information attached to an order.
// Every field is optional; labels fall back to order and customer data.
type ShippingDetail struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	RecipientName  string
	Phone          string
	AddressLine1   string
	AddressLine2   string
	City           string
	District       string
	PostalCode     string
	Country        string
	Carrier        string
	TrackingNumber string
	TrackingURL    string
	DesiWeight     decimal.Decimal // volumetric weight used by Turkish carriers
	Notes          string
}
