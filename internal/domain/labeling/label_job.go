package labeling

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// LabelJob records one PDF render of an order through a template. It is the
// audit trail that lets an order's label be re-downloaded or re-printed.
type LabelJob struct {
	shared.TenantAggregateRoot
	TemplateID   uuid.UUID
	OrderID      uuid.UUID
	OrderNumber  string
	Status       JobStatus
	ArtifactPath string // storage-relative path of the generated PDF
	ArtifactURL  string // stable URL handed back to callers
	ErrorMessage string
	RenderedAt   *time.Time
}

// NewLabelJob creates a new label job in pending state
func NewLabelJob(tenantID, templateID, orderID uuid.UUID, orderNumber string) (*LabelJob, error) {
	if templateID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Template ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order ID cannot be empty")
	}

	return &LabelJob{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TemplateID:          templateID,
		OrderID:             orderID,
		OrderNumber:         orderNumber,
		Status:              JobStatusPending,
	}, nil
}

// StartRendering marks the job as rendering
func (j *LabelJob) StartRendering() error {
	if !j.Status.CanTransitionTo(JobStatusRendering) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot start rendering from status: "+j.Status.String())
	}
	j.Status = JobStatusRendering
	j.UpdatedAt = time.Now()
	return nil
}

// Complete marks the job as completed with the artifact reference
func (j *LabelJob) Complete(path, url string) error {
	if !j.Status.CanTransitionTo(JobStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot complete from status: "+j.Status.String())
	}
	if url == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Artifact URL cannot be empty")
	}
	now := time.Now()
	j.Status = JobStatusCompleted
	j.ArtifactPath = path
	j.ArtifactURL = url
	j.RenderedAt = &now
	j.UpdatedAt = now
	return nil
}

// Fail marks the job as failed with an error message
func (j *LabelJob) Fail(errorMessage string) error {
	if j.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot fail a job in terminal status: "+j.Status.String())
	}
	j.Status = JobStatusFailed
	j.ErrorMessage = errorMessage
	j.UpdatedAt = time.Now()
	return nil
}

// IsCompleted returns true if the job is completed
func (j *LabelJob) IsCompleted() bool {
	return j.Status == JobStatusCompleted
}

// HasArtifact returns true if a PDF has been generated
func (j *LabelJob) HasArtifact() bool {
	return j.ArtifactURL != ""
}
