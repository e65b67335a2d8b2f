package labeling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/domain/shared"
	"github.com/marketops/backend/internal/domain/trade"
	infra "github.com/marketops/backend/internal/infrastructure/labeling"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
	"go.uber.org/zap"
)

// PreviewRenderer computes the designer preview layout
type PreviewRenderer interface {
	Render(template *labeling.LabelTemplate, binding infra.BindingContext) (*infra.Layout, error)
}

// PDFRenderer draws the persisted PDF artifact
type PDFRenderer interface {
	Render(ctx context.Context, template *labeling.LabelTemplate, binding infra.BindingContext) (*infra.PDFResult, error)
}

// Service handles label template and rendering operations
type Service struct {
	templateRepo labeling.LabelTemplateRepository
	settingsRepo labeling.LabelSettingsRepository
	jobRepo      labeling.LabelJobRepository
	orderReader  trade.OrderReader
	preview      PreviewRenderer
	pdf          PDFRenderer
	storage      infra.ArtifactStorage
	sender       infra.SenderProfile
	logger       *zap.Logger
}

// NewService creates a new labeling Service
func NewService(
	templateRepo labeling.LabelTemplateRepository,
	settingsRepo labeling.LabelSettingsRepository,
	jobRepo labeling.LabelJobRepository,
	orderReader trade.OrderReader,
	preview PreviewRenderer,
	pdf PDFRenderer,
	storage infra.ArtifactStorage,
	sender infra.SenderProfile,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		templateRepo: templateRepo,
		settingsRepo: settingsRepo,
		jobRepo:      jobRepo,
		orderReader:  orderReader,
		preview:      preview,
		pdf:          pdf,
		storage:      storage,
		sender:       sender,
		logger:       logger,
	}
}

// =============================================================================
// Template Operations
// =============================================================================

// ListTemplates retrieves a paginated list of templates
func (s *Service) ListTemplates(ctx context.Context, tenantID uuid.UUID, req ListTemplatesRequest) (*ListTemplatesResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	templates, total, err := s.templateRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	items := make([]TemplateResponse, len(templates))
	for i := range templates {
		items[i] = *toTemplateResponse(&templates[i])
	}

	return &ListTemplatesResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetTemplate retrieves a template by ID
func (s *Service) GetTemplate(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.findTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}
	return toTemplateResponse(template), nil
}

// SaveTemplate creates a template when the request carries no id and updates
// it otherwise. Updates check the client's version token against the loaded
// aggregate before touching anything; the repository re-checks on write.
func (s *Service) SaveTemplate(ctx context.Context, tenantID uuid.UUID, req SaveTemplateRequest) (*TemplateResponse, error) {
	if req.ID == nil {
		return s.createTemplate(ctx, tenantID, req)
	}
	return s.updateTemplate(ctx, tenantID, *req.ID, req)
}

func (s *Service) createTemplate(ctx context.Context, tenantID uuid.UUID, req SaveTemplateRequest) (*TemplateResponse, error) {
	exists, err := s.templateRepo.ExistsByName(ctx, tenantID, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check template name: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
	}

	template, err := labeling.NewLabelTemplate(tenantID, req.Name, req.Config)
	if err != nil {
		return nil, err
	}
	template.ReplaceElements(withElementIDs(req.Elements))

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	s.logger.Info("label template created",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name))

	return toTemplateResponse(template), nil
}

func (s *Service) updateTemplate(ctx context.Context, tenantID, templateID uuid.UUID, req SaveTemplateRequest) (*TemplateResponse, error) {
	template, err := s.findTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Version != 0 && req.Version != template.GetVersion() {
		return nil, shared.ErrConcurrencyConflict
	}

	if req.Name != template.Name {
		exists, err := s.templateRepo.ExistsByName(ctx, tenantID, req.Name, &templateID)
		if err != nil {
			return nil, fmt.Errorf("failed to check template name: %w", err)
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Template with this name already exists")
		}
		if err := template.Rename(req.Name); err != nil {
			return nil, err
		}
	}

	if err := template.UpdateConfig(req.Config); err != nil {
		return nil, err
	}
	template.ReplaceElements(withElementIDs(req.Elements))

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	s.logger.Info("label template updated",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name),
		zap.Int("version", template.GetVersion()))

	return toTemplateResponse(template), nil
}

// DeleteTemplate deletes a template; a default pointer referencing it is
// cleared in the same transaction
func (s *Service) DeleteTemplate(ctx context.Context, tenantID, templateID uuid.UUID) error {
	if err := s.templateRepo.Delete(ctx, tenantID, templateID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.logger.Info("label template deleted",
		zap.String("id", templateID.String()))

	return nil
}

// DuplicateTemplate deep-copies a template under a new identity
func (s *Service) DuplicateTemplate(ctx context.Context, tenantID, templateID uuid.UUID) (*TemplateResponse, error) {
	template, err := s.findTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	copyTpl := template.Duplicate()
	if err := s.templateRepo.Save(ctx, copyTpl); err != nil {
		return nil, fmt.Errorf("failed to save duplicate: %w", err)
	}

	s.logger.Info("label template duplicated",
		zap.String("source_id", templateID.String()),
		zap.String("copy_id", copyTpl.ID.String()))

	return toTemplateResponse(copyTpl), nil
}

// GetDefaultTemplate returns the tenant's default template pointer
func (s *Service) GetDefaultTemplate(ctx context.Context, tenantID uuid.UUID) (*DefaultTemplateResponse, error) {
	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load label settings: %w", err)
	}

	resp := &DefaultTemplateResponse{}
	if settings.DefaultTemplateID != nil {
		id := settings.DefaultTemplateID.String()
		resp.DefaultTemplateID = &id
	}
	return resp, nil
}

// SetDefaultTemplate points the tenant default at a template, or clears it
func (s *Service) SetDefaultTemplate(ctx context.Context, tenantID uuid.UUID, req SetDefaultTemplateRequest) error {
	if err := s.settingsRepo.SetDefaultTemplateID(ctx, tenantID, req.TemplateID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return fmt.Errorf("failed to set default template: %w", err)
	}

	if req.TemplateID != nil {
		s.logger.Info("default label template set",
			zap.String("template_id", req.TemplateID.String()))
	} else {
		s.logger.Info("default label template cleared")
	}
	return nil
}

// =============================================================================
// Import / Export
// =============================================================================

// ExportTemplate serializes a template into the portable export document
func (s *Service) ExportTemplate(ctx context.Context, tenantID, templateID uuid.UUID) ([]byte, error) {
	template, err := s.findTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	export := labeling.ExportTemplate(template)
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize export: %w", err)
	}
	return data, nil
}

// ImportTemplate creates a new template from an export document. The import
// never overwrites anything; a taken name gets an " (imported)" suffix.
func (s *Service) ImportTemplate(ctx context.Context, tenantID uuid.UUID, data []byte) (*TemplateResponse, error) {
	template, err := labeling.ImportTemplate(tenantID, data)
	if err != nil {
		return nil, err
	}

	exists, err := s.templateRepo.ExistsByName(ctx, tenantID, template.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check template name: %w", err)
	}
	if exists {
		if err := template.Rename(template.Name + " (imported)"); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to save imported template: %w", err)
	}

	s.logger.Info("label template imported",
		zap.String("id", template.ID.String()),
		zap.String("name", template.Name))

	return toTemplateResponse(template), nil
}

// =============================================================================
// Rendering
// =============================================================================

// RenderPreview computes the preview layout for one order. A nil template id
// falls back to the tenant default, then the first available template.
func (s *Service) RenderPreview(ctx context.Context, tenantID uuid.UUID, req RenderRequest) (*infra.Layout, error) {
	template, err := s.resolveTemplate(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	binding, err := s.bindOrder(ctx, tenantID, req.OrderID)
	if err != nil {
		return nil, err
	}

	return s.preview.Render(template, binding)
}

// GenerateLabel renders and persists the PDF artifact for one order,
// recording the outcome on a label job
func (s *Service) GenerateLabel(ctx context.Context, tenantID uuid.UUID, req RenderRequest) (*GenerateResponse, error) {
	template, err := s.resolveTemplate(ctx, tenantID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderReader.FindByID(ctx, tenantID, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	binding, err := s.bindLoadedOrder(ctx, tenantID, order)
	if err != nil {
		return nil, err
	}

	job, err := labeling.NewLabelJob(tenantID, template.ID, order.ID, order.Number)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create label job: %w", err)
	}

	if err := job.StartRendering(); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update label job: %w", err)
	}

	result, err := s.pdf.Render(ctx, template, binding)
	if err != nil {
		s.failJob(ctx, job, err)
		return nil, err
	}

	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		TenantID: tenantID,
		JobID:    job.ID,
		Data:     result.Data,
	})
	if err != nil {
		s.failJob(ctx, job, err)
		return nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "cannot store label artifact", err)
	}

	if err := job.Complete(stored.Path, stored.URL); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to complete label job: %w", err)
	}

	s.logger.Info("label generated",
		zap.String("job_id", job.ID.String()),
		zap.String("order_number", order.Number),
		zap.String("template_id", template.ID.String()),
		zap.Duration("render_duration", result.RenderDuration),
		zap.Int("bytes", len(result.Data)))

	return &GenerateResponse{
		Job:         *toJobResponse(job),
		ArtifactURL: stored.URL,
		DurationMS:  result.RenderDuration.Milliseconds(),
	}, nil
}

// failJob records a render failure on the job; the original error wins over
// any bookkeeping error.
func (s *Service) failJob(ctx context.Context, job *labeling.LabelJob, cause error) {
	if err := job.Fail(cause.Error()); err != nil {
		s.logger.Warn("cannot mark label job failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		s.logger.Warn("cannot persist failed label job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
}

// =============================================================================
// Jobs and artifacts
// =============================================================================

// ListJobs retrieves a paginated list of label jobs
func (s *Service) ListJobs(ctx context.Context, tenantID uuid.UUID, req ListJobsRequest) (*ListJobsResponse, error) {
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	if req.Status != "" {
		filter.Filters = map[string]any{"status": req.Status}
	}

	jobs, total, err := s.jobRepo.FindByTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list label jobs: %w", err)
	}

	items := make([]JobResponse, len(jobs))
	for i := range jobs {
		items[i] = *toJobResponse(&jobs[i])
	}

	return &ListJobsResponse{
		Items: items,
		Total: total,
		Page:  req.Page,
		Size:  req.PageSize,
	}, nil
}

// GetJob retrieves a label job by ID
func (s *Service) GetJob(ctx context.Context, tenantID, jobID uuid.UUID) (*JobResponse, error) {
	job, err := s.jobRepo.FindByID(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Label job not found")
		}
		return nil, fmt.Errorf("failed to load label job: %w", err)
	}
	return toJobResponse(job), nil
}

// DownloadArtifact opens the stored PDF of a completed job. The returned
// filename is stable per order.
func (s *Service) DownloadArtifact(ctx context.Context, tenantID, jobID uuid.UUID) (io.ReadCloser, string, error) {
	job, err := s.jobRepo.FindByID(ctx, tenantID, jobID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, "", shared.NewDomainError("NOT_FOUND", "Label job not found")
		}
		return nil, "", fmt.Errorf("failed to load label job: %w", err)
	}
	if !job.HasArtifact() {
		return nil, "", shared.NewDomainError("INVALID_STATE", "Label job has no artifact")
	}

	reader, err := s.storage.Get(ctx, job.ArtifactPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open label artifact: %w", err)
	}

	filename := fmt.Sprintf("label-%s.pdf", job.OrderNumber)
	return reader, filename, nil
}

// =============================================================================
// Catalog and diagnostics
// =============================================================================

// PaperSizes returns the paper-size catalog the designer offers
func (s *Service) PaperSizes() []PaperSizeInfo {
	sizes := labeling.AllPaperSizes()
	out := make([]PaperSizeInfo, 0, len(sizes))
	for _, size := range sizes {
		width, height := size.BaseDimensions()
		out = append(out, PaperSizeInfo{
			Code:     string(size),
			WidthMM:  width,
			HeightMM: height,
			Custom:   size == labeling.PaperSizeCustom,
		})
	}
	return out
}

// CheckEncoding runs authoring-time text diagnostics
func (s *Service) CheckEncoding(req CheckEncodingRequest) []EncodingReport {
	reports := make([]EncodingReport, len(req.Texts))
	for i, text := range req.Texts {
		issues := textpipe.DetectEncodingIssues(text)
		if issues == nil {
			issues = []textpipe.EncodingIssue{}
		}
		reports[i] = EncodingReport{
			Input:      text,
			Normalized: textpipe.EnsureProperEncoding(text),
			Issues:     issues,
		}
	}
	return reports
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Service) findTemplate(ctx context.Context, tenantID, templateID uuid.UUID) (*labeling.LabelTemplate, error) {
	template, err := s.templateRepo.FindByID(ctx, tenantID, templateID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Template not found")
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return template, nil
}

// resolveTemplate applies the explicit > default > first-available precedence
func (s *Service) resolveTemplate(ctx context.Context, tenantID uuid.UUID, explicitID *uuid.UUID) (*labeling.LabelTemplate, error) {
	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load label settings: %w", err)
	}

	available, err := s.templateRepo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	return labeling.ResolveTemplate(explicitID, settings.DefaultTemplateID, available)
}

func (s *Service) bindOrder(ctx context.Context, tenantID, orderID uuid.UUID) (infra.BindingContext, error) {
	order, err := s.orderReader.FindByID(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return infra.BindingContext{}, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return infra.BindingContext{}, fmt.Errorf("failed to load order: %w", err)
	}
	return s.bindLoadedOrder(ctx, tenantID, order)
}

func (s *Service) bindLoadedOrder(ctx context.Context, tenantID uuid.UUID, order *trade.Order) (infra.BindingContext, error) {
	items, err := s.orderReader.FindItems(ctx, tenantID, order.ID)
	if err != nil {
		return infra.BindingContext{}, fmt.Errorf("failed to load order items: %w", err)
	}
	shipping, err := s.orderReader.FindShippingDetail(ctx, tenantID, order.ID)
	if err != nil {
		return infra.BindingContext{}, fmt.Errorf("failed to load shipping detail: %w", err)
	}
	return infra.BindOrder(order, shipping, items, s.sender), nil
}

// withElementIDs assigns ids to designer-created elements that carry none
func withElementIDs(elements []labeling.Element) []labeling.Element {
	out := make([]labeling.Element, len(elements))
	for i, el := range elements {
		if el.ID == uuid.Nil {
			el.ID = uuid.New()
		}
		out[i] = el
	}
	return out
}
