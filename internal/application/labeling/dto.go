package labeling

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
)

// =============================================================================
// Template DTOs
// =============================================================================

// SaveTemplateRequest creates a template when ID is nil and updates it
// otherwise. Version is the optimistic token the client loaded; it is ignored
// on create. Config and Elements use the persisted wire shape.
type SaveTemplateRequest struct {
	ID       *uuid.UUID           `json:"id"`
	Version  int                  `json:"version"`
	Name     string               `json:"name" binding:"required,min=1,max=100"`
	Config   labeling.PaperConfig `json:"config"`
	Elements []labeling.Element   `json:"elements"`
}

// ListTemplatesRequest represents a request to list templates
type ListTemplatesRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// TemplateResponse represents a label template response
type TemplateResponse struct {
	ID        string               `json:"id"`
	TenantID  string               `json:"tenant_id"`
	Name      string               `json:"name"`
	Config    labeling.PaperConfig `json:"config"`
	Elements  []labeling.Element   `json:"elements"`
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ListTemplatesResponse represents a paginated list of templates
type ListTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
}

// DefaultTemplateResponse carries the tenant's default template pointer
type DefaultTemplateResponse struct {
	DefaultTemplateID *string `json:"default_template_id"`
}

// SetDefaultTemplateRequest points the tenant default at a template;
// null clears the pointer
type SetDefaultTemplateRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
}

// =============================================================================
// Render DTOs
// =============================================================================

// RenderRequest asks for a label of one order. TemplateID nil means the
// tenant default resolution applies.
type RenderRequest struct {
	TemplateID *uuid.UUID `json:"template_id"`
	OrderID    uuid.UUID  `json:"order_id" binding:"required"`
}

// The preview response is the layout itself; it already carries the wire
// shape both surfaces share, so there is nothing to convert.

// GenerateResponse is the outcome of a persisted PDF render
type GenerateResponse struct {
	Job         JobResponse `json:"job"`
	ArtifactURL string      `json:"artifact_url"`
	DurationMS  int64       `json:"duration_ms"`
}

// =============================================================================
// Job DTOs
// =============================================================================

// ListJobsRequest represents a request to list label jobs
type ListJobsRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// JobResponse represents a label job response
type JobResponse struct {
	ID           string     `json:"id"`
	TemplateID   string     `json:"template_id"`
	OrderID      string     `json:"order_id"`
	OrderNumber  string     `json:"order_number"`
	Status       string     `json:"status"`
	ArtifactURL  string     `json:"artifact_url,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	RenderedAt   *time.Time `json:"rendered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ListJobsResponse represents a paginated list of label jobs
type ListJobsResponse struct {
	Items []JobResponse `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

// =============================================================================
// Catalog and diagnostics DTOs
// =============================================================================

// PaperSizeInfo describes one entry of the paper-size catalog
type PaperSizeInfo struct {
	Code     string  `json:"code"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	Custom   bool    `json:"custom"`
}

// CheckEncodingRequest carries authoring text to diagnose
type CheckEncodingRequest struct {
	Texts []string `json:"texts" binding:"required"`
}

// EncodingReport is the diagnostics result for one input text
type EncodingReport struct {
	Input      string                   `json:"input"`
	Normalized string                   `json:"normalized"`
	Issues     []textpipe.EncodingIssue `json:"issues"`
}

// =============================================================================
// Converters
// =============================================================================

func toTemplateResponse(t *labeling.LabelTemplate) *TemplateResponse {
	elements := t.Elements
	if elements == nil {
		elements = []labeling.Element{}
	}
	return &TemplateResponse{
		ID:        t.ID.String(),
		TenantID:  t.TenantID.String(),
		Name:      t.Name,
		Config:    t.Config,
		Elements:  elements,
		Version:   t.GetVersion(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toJobResponse(j *labeling.LabelJob) *JobResponse {
	return &JobResponse{
		ID:           j.ID.String(),
		TemplateID:   j.TemplateID.String(),
		OrderID:      j.OrderID.String(),
		OrderNumber:  j.OrderNumber,
		Status:       string(j.Status),
		ArtifactURL:  j.ArtifactURL,
		ErrorMessage: j.ErrorMessage,
		RenderedAt:   j.RenderedAt,
		CreatedAt:    j.CreatedAt,
	}
}
