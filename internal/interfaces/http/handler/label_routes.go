package handler

import (
	"github.com/marketops/backend/internal/interfaces/http/router"
)

// LabelRoutes creates the route group for label-related endpoints
func LabelRoutes(handler *LabelHandler) *router.DomainGroup {
	group := router.NewDomainGroup("labels", "/labels")

	// Template designer documents
	group.GET("/templates", handler.ListTemplates)
	group.POST("/templates", handler.CreateTemplate)
	group.POST("/templates/import", handler.ImportTemplate)
	group.GET("/templates/:id", handler.GetTemplate)
	group.PUT("/templates/:id", handler.UpdateTemplate)
	group.DELETE("/templates/:id", handler.DeleteTemplate)
	group.POST("/templates/:id/duplicate", handler.DuplicateTemplate)
	group.GET("/templates/:id/export", handler.ExportTemplate)

	// Tenant default pointer
	group.GET("/settings/default-template", handler.GetDefaultTemplate)
	group.PUT("/settings/default-template", handler.SetDefaultTemplate)

	// Rendering
	group.POST("/preview", handler.RenderPreview)
	group.POST("/generate", handler.GenerateLabel)

	// Label jobs
	group.GET("/jobs", handler.ListJobs)
	group.GET("/jobs/:id", handler.GetJob)
	group.GET("/jobs/:id/download", handler.DownloadArtifact)

	// Reference data and diagnostics
	group.GET("/paper-sizes", handler.GetPaperSizes)
	group.POST("/check-encoding", handler.CheckEncoding)

	return group
}
