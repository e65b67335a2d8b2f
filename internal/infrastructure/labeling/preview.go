package labeling

import (
	"github.com/marketops/backend/internal/domain/labeling"
)

// PreviewRenderer produces the structured artifact the designer canvas
// draws. It is a thin wrapper over the shared layout pass; anything it
// returns is exactly what the PDF surface will draw.
type PreviewRenderer struct {
	formatter labeling.ValueFormatter
}

// NewPreviewRenderer creates a preview renderer bound to a formatter
func NewPreviewRenderer(formatter labeling.ValueFormatter) *PreviewRenderer {
	return &PreviewRenderer{formatter: formatter}
}

// Render computes the layout for a template and binding
func (r *PreviewRenderer) Render(template *labeling.LabelTemplate, binding BindingContext) (*Layout, error) {
	return ComputeLayout(template, binding, r.formatter)
}
