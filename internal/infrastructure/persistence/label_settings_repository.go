package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/domain/shared"
	"github.com/marketops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLabelSettingsRepository implements LabelSettingsRepository using GORM
type GormLabelSettingsRepository struct {
	db *gorm.DB
}

// NewGormLabelSettingsRepository creates a new GormLabelSettingsRepository
func NewGormLabelSettingsRepository(db *gorm.DB) *GormLabelSettingsRepository {
	return &GormLabelSettingsRepository{db: db}
}

// Get returns the tenant's settings, creating an empty row on first use.
// A default pointer left dangling by an out-of-band template removal is
// cleared on read rather than surfaced as an error.
func (r *GormLabelSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*labeling.LabelSettings, error) {
	var model models.LabelSettingsModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings := &labeling.LabelSettings{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		}
		created := models.LabelSettingsModelFromDomain(settings)
		if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
			return nil, err
		}
		return settings, nil
	}
	if err != nil {
		return nil, err
	}

	settings := model.ToDomain()
	if settings.DefaultTemplateID != nil {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.LabelTemplateModel{}).
			Where("tenant_id = ? AND id = ?", tenantID, *settings.DefaultTemplateID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			settings.DefaultTemplateID = nil
		}
	}
	return settings, nil
}

// SetDefaultTemplateID points the tenant default at a template, or clears it
// when id is nil. A non-nil id must reference an existing template of the
// tenant.
func (r *GormLabelSettingsRepository) SetDefaultTemplateID(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) error {
	if id != nil {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.LabelTemplateModel{}).
			Where("tenant_id = ? AND id = ?", tenantID, *id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
	}

	if _, err := r.Get(ctx, tenantID); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.LabelSettingsModel{}).
		Where("tenant_id = ?", tenantID).
		Updates(map[string]interface{}{
			"default_template_id": id,
			"updated_at":          time.Now(),
		}).Error
}

// Ensure GormLabelSettingsRepository implements LabelSettingsRepository
var _ labeling.LabelSettingsRepository = (*GormLabelSettingsRepository)(nil)
