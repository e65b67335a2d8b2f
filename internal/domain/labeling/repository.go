package labeling

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// LabelTemplateRepository persists label templates
type LabelTemplateRepository interface {
	// Save inserts or updates a template. Updates are guarded by the
	// aggregate version; a stale version yields CONCURRENCY_CONFLICT.
	Save(ctx context.Context, template *LabelTemplate) error

	// FindByID retrieves a template scoped to a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LabelTemplate, error)

	// FindByTenant lists a tenant's templates with pagination
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LabelTemplate, int64, error)

	// FindAllByTenant lists every template of a tenant in stable order
	FindAllByTenant(ctx context.Context, tenantID uuid.UUID) ([]LabelTemplate, error)

	// Delete removes a template. Implementations clear the tenant's default
	// pointer in the same transaction when it references the deleted id.
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByName reports whether a tenant already has a template with the
	// given name, excluding at most one id
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
}

// LabelSettings is the per-tenant labeling configuration row
type LabelSettings struct {
	shared.TenantAggregateRoot
	DefaultTemplateID *uuid.UUID
}

// LabelSettingsRepository persists per-tenant labeling settings
type LabelSettingsRepository interface {
	// Get returns the tenant's settings, creating an empty row on first use.
	// A default pointer referencing a deleted template comes back nil.
	Get(ctx context.Context, tenantID uuid.UUID) (*LabelSettings, error)

	// SetDefaultTemplateID points the tenant default at a template, or
	// clears it when id is nil
	SetDefaultTemplateID(ctx context.Context, tenantID uuid.UUID, id *uuid.UUID) error
}

// LabelJobRepository persists label render jobs
type LabelJobRepository interface {
	Save(ctx context.Context, job *LabelJob) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*LabelJob, error)
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]LabelJob, error)
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LabelJob, int64, error)
}
