package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// OrderReader exposes order data to the labeling context. It is read-only;
// order lifecycle management lives in a different system.
type OrderReader interface {
	// FindByID retrieves an order scoped to a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindItems lists the order's line items in stable order
	FindItems(ctx context.Context, tenantID, orderID uuid.UUID) ([]OrderItem, error)

	// FindShippingDetail returns the order's shipping detail, or nil when
	// none has been recorded
	FindShippingDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*ShippingDetail, error)

	// FindByTenant lists a tenant's orders with pagination, newest first
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
}
