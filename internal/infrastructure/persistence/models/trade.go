package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the GORM model for the orders table. The labeling context
// only reads these rows; order lifecycle writes happen elsewhere.
type OrderModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber   string          `gorm:"column:order_number;type:varchar(100);not null;index"`
	Status        string          `gorm:"type:varchar(20);not null"`
	Platform      string          `gorm:"type:varchar(50)"`
	CustomerName  string          `gorm:"column:customer_name;type:varchar(200)"`
	CustomerPhone string          `gorm:"column:customer_phone;type:varchar(50)"`
	CustomerEmail string          `gorm:"column:customer_email;type:varchar(200)"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'USD'"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(15,2);not null;default:0"`
	Remark        string          `gorm:"type:text"`
	PlacedAt      time.Time       `gorm:"column:placed_at"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts OrderModel to the domain read model
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		ID:            m.ID,
		TenantID:      m.TenantID,
		Number:        m.OrderNumber,
		Status:        trade.OrderStatus(m.Status),
		Platform:      m.Platform,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		CustomerEmail: m.CustomerEmail,
		Currency:      m.Currency,
		TotalAmount:   m.TotalAmount,
		Remark:        m.Remark,
		PlacedAt:      m.PlacedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// OrderItemModel is the GORM model for the order_items table
type OrderItemModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName    string          `gorm:"column:product_name;type:varchar(200);not null"`
	ProductSKU     string          `gorm:"column:product_sku;type:varchar(100)"`
	ProductBarcode string          `gorm:"column:product_barcode;type:varchar(100)"`
	Quantity       decimal.Decimal `gorm:"type:decimal(15,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:decimal(15,2);not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Unit           string          `gorm:"type:varchar(20)"`
	SortOrder      int             `gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for OrderItemModel
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts OrderItemModel to the domain read model
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductName:    m.ProductName,
		ProductSKU:     m.ProductSKU,
		ProductBarcode: m.ProductBarcode,
		Quantity:       m.Quantity,
		UnitPrice:      m.UnitPrice,
		Amount:         m.Amount,
		Unit:           m.Unit,
	}
}

// OrderShippingModel is the GORM model for the order_shipping table
type OrderShippingModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	RecipientName  string          `gorm:"column:recipient_name;type:varchar(200)"`
	Phone          string          `gorm:"type:varchar(50)"`
	AddressLine1   string          `gorm:"column:address_line1;type:varchar(300)"`
	AddressLine2   string          `gorm:"column:address_line2;type:varchar(300)"`
	City           string          `gorm:"type:varchar(100)"`
	District       string          `gorm:"type:varchar(100)"`
	PostalCode     string          `gorm:"column:postal_code;type:varchar(20)"`
	Country        string          `gorm:"type:varchar(2)"`
	Carrier        string          `gorm:"type:varchar(100)"`
	TrackingNumber string          `gorm:"column:tracking_number;type:varchar(100)"`
	TrackingURL    string          `gorm:"column:tracking_url;type:varchar(500)"`
	DesiWeight     decimal.Decimal `gorm:"column:desi_weight;type:decimal(10,2);not null;default:0"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for OrderShippingModel
func (OrderShippingModel) TableName() string {
	return "order_shipping"
}

// ToDomain converts OrderShippingModel to the domain read model
func (m *OrderShippingModel) ToDomain() *trade.ShippingDetail {
	return &trade.ShippingDetail{
		ID:             m.ID,
		OrderID:        m.OrderID,
		RecipientName:  m.RecipientName,
		Phone:          m.Phone,
		AddressLine1:   m.AddressLine1,
		AddressLine2:   m.AddressLine2,
		City:           m.City,
		District:       m.District,
		PostalCode:     m.PostalCode,
		Country:        m.Country,
		Carrier:        m.Carrier,
		TrackingNumber: m.TrackingNumber,
		TrackingURL:    m.TrackingURL,
		DesiWeight:     m.DesiWeight,
		Notes:          m.Notes,
	}
}
