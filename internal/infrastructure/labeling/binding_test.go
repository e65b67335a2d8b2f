package labeling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleOrder() *trade.Order {
	return &trade.Order{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		Number:        "SO-2026-0042",
		Status:        trade.OrderStatusConfirmed,
		Platform:      "trendyol",
		CustomerName:  "Çiğdem Yılmaz",
		CustomerPhone: "+90 555 111 22 33",
		CustomerEmail: "cigdem@example.com",
		Currency:      "TRY",
		TotalAmount:   decimal.RequireFromString("1249.90"),
		PlacedAt:      time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func sampleShipping(orderID uuid.UUID) *trade.ShippingDetail {
	return &trade.ShippingDetail{
		ID:             uuid.New(),
		OrderID:        orderID,
		RecipientName:  "Ayşe Demir",
		Phone:          "+90 555 000 00 00",
		AddressLine1:   "Bağdat Cad. 42",
		City:           "İstanbul",
		District:       "Kadıköy",
		PostalCode:     "34710",
		Country:        "TR",
		Carrier:        "Yurtiçi",
		TrackingNumber: "YK123456789",
		TrackingURL:    "https://kargotakip.example.com/YK123456789",
		DesiWeight:     decimal.RequireFromString("2.5"),
	}
}

func sampleItems(orderID uuid.UUID) []trade.OrderItem {
	return []trade.OrderItem{
		{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductName:    "Seramik Vazo",
			ProductSKU:     "VAZ-001",
			ProductBarcode: "8680000000011",
			Quantity:       decimal.NewFromInt(2),
			UnitPrice:      decimal.RequireFromString("399.95"),
			Amount:         decimal.RequireFromString("799.90"),
			Unit:           "adet",
		},
		{
			ID:             uuid.New(),
			OrderID:        orderID,
			ProductName:    "Cam Sürahi",
			ProductSKU:     "SUR-014",
			ProductBarcode: "8680000000028",
			Quantity:       decimal.NewFromInt(1),
			UnitPrice:      decimal.RequireFromString("450.00"),
			Amount:         decimal.RequireFromString("450.00"),
			Unit:           "adet",
		},
	}
}

func TestBindOrder(t *testing.T) {
	sender := SenderProfile{Name: "Marketops Ltd", City: "Ankara", Country: "TR"}

	t.Run("binds order, shipping, items and sender", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, sampleShipping(order.ID), sampleItems(order.ID), sender)

		assert.Equal(t, "SO-2026-0042", binding.Lookup("order.number"))
		assert.Equal(t, "1249.9", binding.Lookup("order.total"))
		assert.Equal(t, "TRY", binding.Lookup("order.currency"))
		assert.Equal(t, "2026-03-15T10:30:00Z", binding.Lookup("order.placedAt"))
		assert.Equal(t, "Ayşe Demir", binding.Lookup("recipient.name"))
		assert.Equal(t, "YK123456789", binding.Lookup("shipping.trackingNumber"))
		assert.Equal(t, "VAZ-001", binding.Lookup("items.0.product.sku"))
		assert.Equal(t, "Cam Sürahi", binding.Lookup("items.1.product.name"))
		assert.Equal(t, "2", binding.Lookup("items.count"))
		assert.Equal(t, "Marketops Ltd", binding.Lookup("sender.name"))
	})

	t.Run("binds marketplace and customer contact fields", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, nil, nil, sender)

		assert.Equal(t, "trendyol", binding.Lookup("platform"))
		assert.Equal(t, "+90 555 111 22 33", binding.Lookup("customer.phone"))
		assert.Equal(t, "cigdem@example.com", binding.Lookup("customer.email"))
	})

	t.Run("binds product barcodes per item", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, nil, sampleItems(order.ID), sender)

		assert.Equal(t, "8680000000011", binding.Lookup("items.0.product.barcode"))
		assert.Equal(t, "8680000000028", binding.Lookup("items.1.product.barcode"))
	})

	t.Run("binds the carrier tracking url", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, sampleShipping(order.ID), nil, sender)

		assert.Equal(t, "https://kargotakip.example.com/YK123456789", binding.Lookup("shipping.trackingUrl"))
	})

	t.Run("recipient name falls back to the customer", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, nil, nil, sender)
		assert.Equal(t, "Çiğdem Yılmaz", binding.Lookup("recipient.name"))
	})

	t.Run("full address joins only present parts", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, sampleShipping(order.ID), nil, sender)
		assert.Equal(t, "Bağdat Cad. 42, Kadıköy, İstanbul, 34710, TR", binding.Lookup("recipient.fullAddress"))
	})

	t.Run("is total over absent inputs", func(t *testing.T) {
		binding := BindOrder(nil, nil, nil, SenderProfile{})
		assert.Equal(t, "", binding.Lookup("order.number"))
		assert.Equal(t, "", binding.Lookup("recipient.name"))
		assert.Equal(t, "0", binding.Lookup("items.count"))
	})

	t.Run("unknown paths resolve to empty", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, nil, nil, sender)
		assert.Equal(t, "", binding.Lookup("items.5.product.sku"))
		assert.Equal(t, "", binding.Lookup("no.such.path"))
	})

	t.Run("empty items list is valid", func(t *testing.T) {
		order := sampleOrder()
		binding := BindOrder(order, nil, []trade.OrderItem{}, sender)
		assert.Equal(t, "0", binding.Lookup("order.itemCount"))
	})
}
