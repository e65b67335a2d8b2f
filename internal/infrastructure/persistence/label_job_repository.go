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

// GormLabelJobRepository implements LabelJobRepository using GORM
type GormLabelJobRepository struct {
	db *gorm.DB
}

// NewGormLabelJobRepository creates a new GormLabelJobRepository
func NewGormLabelJobRepository(db *gorm.DB) *GormLabelJobRepository {
	return &GormLabelJobRepository{db: db}
}

// Save saves a job (insert or update)
func (r *GormLabelJobRepository) Save(ctx context.Context, job *labeling.LabelJob) error {
	model := models.LabelJobModelFromDomain(job)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a job by ID within a tenant
func (r *GormLabelJobRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*labeling.LabelJob, error) {
	var model models.LabelJobModel
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

// FindByOrder lists the jobs of one order, newest first
func (r *GormLabelJobRepository) FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]labeling.LabelJob, error) {
	var jobModels []models.LabelJobModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at DESC").
		Find(&jobModels).Error; err != nil {
		return nil, err
	}

	jobs := make([]labeling.LabelJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = *jobModels[i].ToDomain()
	}
	return jobs, nil
}

// FindByTenant lists a tenant's jobs with pagination
func (r *GormLabelJobRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]labeling.LabelJob, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&models.LabelJobModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		base = base.Where("order_number ILIKE ?", "%"+filter.Search+"%")
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
	sortField := ValidateSortField(filter.OrderBy, LabelJobSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	var jobModels []models.LabelJobModel
	if err := query.Find(&jobModels).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]labeling.LabelJob, len(jobModels))
	for i := range jobModels {
		jobs[i] = *jobModels[i].ToDomain()
	}
	return jobs, total, nil
}

// Ensure GormLabelJobRepository implements LabelJobRepository
var _ labeling.LabelJobRepository = (*GormLabelJobRepository)(nil)
