package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/domain/shared"
	"github.com/marketops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLabelTemplateRepository implements LabelTemplateRepository using GORM
type GormLabelTemplateRepository struct {
	db *gorm.DB
}

// NewGormLabelTemplateRepository creates a new GormLabelTemplateRepository
func NewGormLabelTemplateRepository(db *gorm.DB) *GormLabelTemplateRepository {
	return &GormLabelTemplateRepository{db: db}
}

// Save inserts or updates a template. Updates carry the aggregate's version
// in the WHERE clause; when another writer got there first no row matches
// and the save fails with a concurrency conflict.
func (r *GormLabelTemplateRepository) Save(ctx context.Context, template *labeling.LabelTemplate) error {
	model, err := models.LabelTemplateModelFromDomain(template)
	if err != nil {
		return err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LabelTemplateModel{}).
		Where("id = ?", model.ID).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return r.db.WithContext(ctx).Create(model).Error
	}

	// The aggregate carries the version it was loaded with; the update
	// only matches when nobody advanced it in the meantime.
	result := r.db.WithContext(ctx).
		Model(&models.LabelTemplateModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", model.ID, model.TenantID, model.Version).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"paper_size": model.PaperSize,
			"config":     model.Config,
			"elements":   model.Elements,
			"version":    gorm.Expr("version + 1"),
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	template.IncrementVersion()
	return nil
}

// FindByID finds a template by ID within a tenant
func (r *GormLabelTemplateRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*labeling.LabelTemplate, error) {
	var model models.LabelTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByTenant lists a tenant's templates with pagination
func (r *GormLabelTemplateRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]labeling.LabelTemplate, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.LabelTemplateModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		base = base.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.OrderBy, LabelTemplateSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	var templateModels []models.LabelTemplateModel
	if err := query.Find(&templateModels).Error; err != nil {
		return nil, 0, err
	}

	templates := make([]labeling.LabelTemplate, 0, len(templateModels))
	for i := range templateModels {
		template, err := templateModels[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		templates = append(templates, *template)
	}
	return templates, total, nil
}

// FindAllByTenant lists every template of a tenant, oldest first so the
// resolver's first-available fallback is stable
func (r *GormLabelTemplateRepository) FindAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]labeling.LabelTemplate, error) {
	var templateModels []models.LabelTemplateModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC, id ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}

	templates := make([]labeling.LabelTemplate, 0, len(templateModels))
	for i := range templateModels {
		template, err := templateModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	return templates, nil
}

// Delete removes a template and clears the tenant's default pointer in the
// same transaction when it references the deleted template
func (r *GormLabelTemplateRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).
			Delete(&models.LabelTemplateModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return tx.Model(&models.LabelSettingsModel{}).
			Where("tenant_id = ? AND default_template_id = ?", tenantID, id).
			Update("default_template_id", nil).Error
	})
}

// ExistsByName checks if a tenant already has a template with the given name
func (r *GormLabelTemplateRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.LabelTemplateModel{}).
		Where("tenant_id = ? AND name = ?", tenantID, name)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormLabelTemplateRepository implements LabelTemplateRepository
var _ labeling.LabelTemplateRepository = (*GormLabelTemplateRepository)(nil)
