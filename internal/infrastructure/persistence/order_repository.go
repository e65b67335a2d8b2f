package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
	"github.com/marketops/backend/internal/domain/trade"
	"github.com/marketops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderReader implements trade.OrderReader using GORM
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a new GormOrderReader
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

// FindByID retrieves an order scoped to a tenant
func (r *GormOrderReader) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindItems lists the order's line items in stable order
func (r *GormOrderReader) FindItems(ctx context.Context, tenantID, orderID uuid.UUID) ([]trade.OrderItem, error) {
	var itemModels []models.OrderItemModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("sort_order ASC, id ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]trade.OrderItem, len(itemModels))
	for i := range itemModels {
		items[i] = itemModels[i].ToDomain()
	}
	return items, nil
}

// FindShippingDetail returns the order's shipping detail, or nil when none
// has been recorded
func (r *GormOrderReader) FindShippingDetail(ctx context.Context, tenantID, orderID uuid.UUID) (*trade.ShippingDetail, error) {
	var model models.OrderShippingModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTenant lists a tenant's orders with pagination
func (r *GormOrderReader) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		base = base.Where("order_number ILIKE ? OR customer_name ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "placed_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	var orderModels []models.OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// Ensure GormOrderReader implements trade.OrderReader
var _ trade.OrderReader = (*GormOrderReader)(nil)
