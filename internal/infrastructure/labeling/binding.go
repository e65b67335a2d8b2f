package labeling

import (
	"fmt"
	"strings"
	"time"

	"github.com/marketops/backend/internal/domain/trade"
)

// SenderProfile is the shipper identity printed on labels. It comes from the
// organization's configuration, not from order data.
type SenderProfile struct {
	Name         string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	PostalCode   string
	Country      string
	TaxNumber    string
}

// BindingContext maps dot-paths to the raw values of one order. Values are
// kept unformatted (RFC 3339 timestamps, plain decimal strings); element
// formatters apply locale rules at layout time.
type BindingContext struct {
	values map[string]string
}

// Lookup resolves a dot-path such as "recipient.name" or
// "items.0.product.sku" to its raw value. Unknown paths yield the empty
// string, never an error.
func (c BindingContext) Lookup(path string) string {
	return c.values[path]
}

// Has reports whether the path resolved to a non-empty value
func (c BindingContext) Has(path string) bool {
	return c.values[path] != ""
}

// Paths returns every bound path, for the designer's field picker
func (c BindingContext) Paths() []string {
	paths := make([]string, 0, len(c.values))
	for p := range c.values {
		paths = append(paths, p)
	}
	return paths
}

// BindOrder flattens an order and its satellites into a binding context.
// Total by construction: absent optionals bind to zero values, the recipient
// name falls back to the customer name, and an order with no items is valid.
func BindOrder(order *trade.Order, shipping *trade.ShippingDetail, items []trade.OrderItem, sender SenderProfile) BindingContext {
	values := make(map[string]string)

	if order != nil {
		values["order.id"] = order.ID.String()
		values["order.number"] = order.Number
		values["order.status"] = order.Status.String()
		values["order.remark"] = order.Remark
		values["platform"] = order.Platform
		values["order.currency"] = order.Currency
		values["order.total"] = order.TotalAmount.String()
		values["order.itemCount"] = fmt.Sprintf("%d", len(items))
		if !order.PlacedAt.IsZero() {
			values["order.placedAt"] = order.PlacedAt.Format(time.RFC3339)
		}
		values["customer.name"] = order.CustomerName
		values["customer.phone"] = order.CustomerPhone
		values["customer.email"] = order.CustomerEmail
	}

	recipientName := ""
	if shipping != nil {
		recipientName = shipping.RecipientName
		values["recipient.phone"] = shipping.Phone
		values["recipient.addressLine1"] = shipping.AddressLine1
		values["recipient.addressLine2"] = shipping.AddressLine2
		values["recipient.city"] = shipping.City
		values["recipient.district"] = shipping.District
		values["recipient.postalCode"] = shipping.PostalCode
		values["recipient.country"] = shipping.Country
		values["recipient.fullAddress"] = joinAddress(
			shipping.AddressLine1, shipping.AddressLine2,
			shipping.District, shipping.City, shipping.PostalCode, shipping.Country)
		values["shipping.carrier"] = shipping.Carrier
		values["shipping.trackingNumber"] = shipping.TrackingNumber
		values["shipping.trackingUrl"] = shipping.TrackingURL
		if !shipping.DesiWeight.IsZero() {
			values["shipping.desi"] = shipping.DesiWeight.String()
		}
		values["shipping.notes"] = shipping.Notes
	}
	if recipientName == "" && order != nil {
		recipientName = order.CustomerName
	}
	values["recipient.name"] = recipientName

	values["sender.name"] = sender.Name
	values["sender.phone"] = sender.Phone
	values["sender.addressLine1"] = sender.AddressLine1
	values["sender.addressLine2"] = sender.AddressLine2
	values["sender.city"] = sender.City
	values["sender.postalCode"] = sender.PostalCode
	values["sender.country"] = sender.Country
	values["sender.taxNumber"] = sender.TaxNumber
	values["sender.fullAddress"] = joinAddress(
		sender.AddressLine1, sender.AddressLine2, "", sender.City, sender.PostalCode, sender.Country)

	values["items.count"] = fmt.Sprintf("%d", len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("items.%d.", i)
		values[prefix+"product.name"] = item.ProductName
		values[prefix+"product.sku"] = item.ProductSKU
		values[prefix+"product.barcode"] = item.ProductBarcode
		values[prefix+"quantity"] = item.Quantity.String()
		values[prefix+"unit"] = item.Unit
		values[prefix+"unitPrice"] = item.UnitPrice.String()
		values[prefix+"amount"] = item.Amount.String()
	}

	return BindingContext{values: values}
}

func joinAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(p))
		}
	}
	return strings.Join(nonEmpty, ", ")
}
