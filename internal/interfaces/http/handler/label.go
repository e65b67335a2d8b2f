package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	labelingapp "github.com/marketops/backend/internal/application/labeling"
)

// LabelHandler handles label template and rendering API endpoints
type LabelHandler struct {
	BaseHandler
	labelService *labelingapp.Service
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(labelService *labelingapp.Service) *LabelHandler {
	return &LabelHandler{
		labelService: labelService,
	}
}

// =============================================================================
// Template Endpoints
// =============================================================================

// ListTemplates godoc
//
//	@ID				listLabelTemplates
//
//	@Summary		List label templates
//	@Description	Retrieve a paginated list of label templates
//	@Tags			label-templates
//	@Produce		json
//	@Param			page		query		int		false	"Page number"		default(1)
//	@Param			page_size	query		int		false	"Page size"			default(20)
//	@Param			order_by	query		string	false	"Order by field"	default(created_at)
//	@Param			order_dir	query		string	false	"Order direction"	Enums(asc, desc)	default(desc)
//	@Param			search		query		string	false	"Search by name"
//	@Success		200			{object}	APIResponse[[]labelingapp.TemplateResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Failure		500			{object}	dto.ErrorResponse
//	@Router			/labels/templates [get]
func (h *LabelHandler) ListTemplates(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := labelingapp.ListTemplatesRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	result, err := h.labelService.ListTemplates(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetTemplate godoc
//
//	@ID				getLabelTemplate
//
//	@Summary		Get label template by ID
//	@Tags			label-templates
//	@Produce		json
//	@Param			id	path		string	true	"Template ID"	format(uuid)
//	@Success		200	{object}	APIResponse[labelingapp.TemplateResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/templates/{id} [get]
func (h *LabelHandler) GetTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.labelService.GetTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateTemplate godoc
//
//	@ID				createLabelTemplate
//
//	@Summary		Create label template
//	@Description	Create a new label template from the designer document
//	@Tags			label-templates
//	@Accept			json
//	@Produce		json
//	@Param			request	body		labelingapp.SaveTemplateRequest	true	"Template document"
//	@Success		201		{object}	APIResponse[labelingapp.TemplateResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/labels/templates [post]
func (h *LabelHandler) CreateTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req labelingapp.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ID = nil

	result, err := h.labelService.SaveTemplate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// UpdateTemplate godoc
//
//	@ID				updateLabelTemplate
//
//	@Summary		Update label template
//	@Description	Update a label template. The version field is the optimistic
//	@Description	token the client loaded; a stale token yields 409.
//	@Tags			label-templates
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Template ID"	format(uuid)
//	@Param			request	body		labelingapp.SaveTemplateRequest	true	"Template document"
//	@Success		200		{object}	APIResponse[labelingapp.TemplateResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/labels/templates/{id} [put]
func (h *LabelHandler) UpdateTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	var req labelingapp.SaveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ID = &templateID

	result, err := h.labelService.SaveTemplate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DeleteTemplate godoc
//
//	@ID				deleteLabelTemplate
//
//	@Summary		Delete label template
//	@Description	Delete a template; the tenant default pointer is cleared if it referenced it
//	@Tags			label-templates
//	@Param			id	path	string	true	"Template ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/templates/{id} [delete]
func (h *LabelHandler) DeleteTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	if err := h.labelService.DeleteTemplate(c.Request.Context(), tenantID, templateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DuplicateTemplate godoc
//
//	@ID				duplicateLabelTemplate
//
//	@Summary		Duplicate label template
//	@Description	Create a deep copy of a template under a " (copy)" name
//	@Tags			label-templates
//	@Produce		json
//	@Param			id	path		string	true	"Template ID"	format(uuid)
//	@Success		201	{object}	APIResponse[labelingapp.TemplateResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/templates/{id}/duplicate [post]
func (h *LabelHandler) DuplicateTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	result, err := h.labelService.DuplicateTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ExportTemplate godoc
//
//	@ID				exportLabelTemplate
//
//	@Summary		Export label template
//	@Description	Download a template as a portable JSON document without tenant identity
//	@Tags			label-templates
//	@Produce		application/json
//	@Param			id	path		string	true	"Template ID"	format(uuid)
//	@Success		200	{file}		binary	"Template export file"
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/templates/{id}/export [get]
func (h *LabelHandler) ExportTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	templateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid template ID format")
		return
	}

	doc, err := h.labelService.ExportTemplate(c.Request.Context(), tenantID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "label-template-" + templateID.String() + ".json"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", doc)
}

// ImportTemplate godoc
//
//	@ID				importLabelTemplate
//
//	@Summary		Import label template
//	@Description	Create a template from an exported JSON document
//	@Tags			label-templates
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	APIResponse[labelingapp.TemplateResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Router			/labels/templates/import [post]
func (h *LabelHandler) ImportTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	data, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Cannot read request body")
		return
	}

	result, err := h.labelService.ImportTemplate(c.Request.Context(), tenantID, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// =============================================================================
// Default Template Endpoints
// =============================================================================

// GetDefaultTemplate godoc
//
//	@ID				getDefaultLabelTemplate
//
//	@Summary		Get default template pointer
//	@Tags			label-settings
//	@Produce		json
//	@Success		200	{object}	APIResponse[labelingapp.DefaultTemplateResponse]
//	@Router			/labels/settings/default-template [get]
func (h *LabelHandler) GetDefaultTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	result, err := h.labelService.GetDefaultTemplate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SetDefaultTemplate godoc
//
//	@ID				setDefaultLabelTemplate
//
//	@Summary		Set default template pointer
//	@Description	Point the tenant default at a template. A null template_id clears the pointer.
//	@Tags			label-settings
//	@Accept			json
//	@Param			request	body	labelingapp.SetDefaultTemplateRequest	true	"Default pointer"
//	@Success		204
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/settings/default-template [put]
func (h *LabelHandler) SetDefaultTemplate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req labelingapp.SetDefaultTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.labelService.SetDefaultTemplate(c.Request.Context(), tenantID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// =============================================================================
// Rendering Endpoints
// =============================================================================

// RenderPreview godoc
//
//	@ID				renderLabelPreview
//
//	@Summary		Render label preview
//	@Description	Compute the preview layout for an order using an explicit or resolved template
//	@Tags			label-rendering
//	@Accept			json
//	@Produce		json
//	@Param			request	body		labelingapp.RenderRequest	true	"Render request"
//	@Success		200		{object}	APIResponse[any]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		422		{object}	dto.ErrorResponse
//	@Router			/labels/preview [post]
func (h *LabelHandler) RenderPreview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req labelingapp.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.labelService.RenderPreview(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GenerateLabel godoc
//
//	@ID				generateLabel
//
//	@Summary		Generate label PDF
//	@Description	Render and persist a PDF label for an order, recording a label job
//	@Tags			label-rendering
//	@Accept			json
//	@Produce		json
//	@Param			request	body		labelingapp.RenderRequest	true	"Render request"
//	@Success		201		{object}	APIResponse[labelingapp.GenerateResponse]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		404		{object}	dto.ErrorResponse
//	@Failure		422		{object}	dto.ErrorResponse
//	@Failure		503		{object}	dto.ErrorResponse
//	@Failure		504		{object}	dto.ErrorResponse
//	@Router			/labels/generate [post]
func (h *LabelHandler) GenerateLabel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req labelingapp.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.labelService.GenerateLabel(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// =============================================================================
// Label Job Endpoints
// =============================================================================

// ListJobs godoc
//
//	@ID				listLabelJobs
//
//	@Summary		List label jobs
//	@Description	Retrieve a paginated list of label render jobs
//	@Tags			label-jobs
//	@Produce		json
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Param			status		query		string	false	"Filter by status"
//	@Param			search		query		string	false	"Search by order number"
//	@Success		200			{object}	APIResponse[[]labelingapp.JobResponse]
//	@Failure		400			{object}	dto.ErrorResponse
//	@Router			/labels/jobs [get]
func (h *LabelHandler) ListJobs(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	req := labelingapp.ListJobsRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}

	result, err := h.labelService.ListJobs(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.Size)
}

// GetJob godoc
//
//	@ID				getLabelJob
//
//	@Summary		Get label job by ID
//	@Tags			label-jobs
//	@Produce		json
//	@Param			id	path		string	true	"Job ID"	format(uuid)
//	@Success		200	{object}	APIResponse[labelingapp.JobResponse]
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/labels/jobs/{id} [get]
func (h *LabelHandler) GetJob(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	result, err := h.labelService.GetJob(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadArtifact godoc
//
//	@ID				downloadLabelArtifact
//
//	@Summary		Download label PDF
//	@Description	Stream the persisted PDF artifact of a completed label job
//	@Tags			label-jobs
//	@Produce		application/pdf
//	@Param			id	path		string	true	"Job ID"	format(uuid)
//	@Success		200	{file}		binary	"PDF file"
//	@Failure		400	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Failure		422	{object}	dto.ErrorResponse
//	@Router			/labels/jobs/{id}/download [get]
func (h *LabelHandler) DownloadArtifact(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid job ID format")
		return
	}

	reader, filename, err := h.labelService.DownloadArtifact(c.Request.Context(), tenantID, jobID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.InternalError(c, "Failed to stream PDF file")
		return
	}
}

// =============================================================================
// Reference and Diagnostics Endpoints
// =============================================================================

// GetPaperSizes godoc
//
//	@ID				getLabelPaperSizes
//
//	@Summary		Get paper-size catalog
//	@Tags			label-reference
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]labelingapp.PaperSizeInfo]
//	@Router			/labels/paper-sizes [get]
func (h *LabelHandler) GetPaperSizes(c *gin.Context) {
	h.Success(c, h.labelService.PaperSizes())
}

// CheckEncoding godoc
//
//	@ID				checkLabelEncoding
//
//	@Summary		Diagnose authoring text encoding
//	@Description	Report replacement characters, control characters and script mixing for designer inputs
//	@Tags			label-reference
//	@Accept			json
//	@Produce		json
//	@Param			request	body		labelingapp.CheckEncodingRequest	true	"Texts to diagnose"
//	@Success		200		{object}	APIResponse[[]labelingapp.EncodingReport]
//	@Failure		400		{object}	dto.ErrorResponse
//	@Router			/labels/check-encoding [post]
func (h *LabelHandler) CheckEncoding(c *gin.Context) {
	var req labelingapp.CheckEncodingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, h.labelService.CheckEncoding(req))
}
