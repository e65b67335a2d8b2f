package labeling

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// PaperConfig is the geometry and typography configuration of a template
type PaperConfig struct {
	PaperSize        PaperSize         `json:"paperSize"`
	CustomDimensions *CustomDimensions `json:"customDimensions,omitempty"`
	Orientation      Orientation       `json:"orientation"`
	Margins          Margins           `json:"margins"`
	DefaultFont      FontSpec          `json:"defaultFont"`

	// ApplyDefaultFontToAll is a render-time instruction, not persisted
	// designer state: when set, unlocked elements take the default font.
	ApplyDefaultFontToAll bool `json:"applyDefaultFontToAll,omitempty"`
}

// Clone returns a deep copy of the configuration
func (c PaperConfig) Clone() PaperConfig {
	out := c
	if c.CustomDimensions != nil {
		dims := *c.CustomDimensions
		out.CustomDimensions = &dims
	}
	return out
}

// LabelTemplate is a named printable document definition: paper geometry plus
// an ordered list of positioned elements. It is the aggregate root of the
// labeling context.
type LabelTemplate struct {
	shared.TenantAggregateRoot
	Name     string
	Config   PaperConfig
	Elements []Element
}

// NewLabelTemplate creates a new label template
func NewLabelTemplate(tenantID uuid.UUID, name string, cfg PaperConfig) (*LabelTemplate, error) {
	if err := validateTemplateName(name); err != nil {
		return nil, err
	}
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &LabelTemplate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Config:              cfg,
		Elements:            make([]Element, 0),
	}, nil
}

// Rename updates the template name
func (t *LabelTemplate) Rename(name string) error {
	if err := validateTemplateName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.touch()
	return nil
}

// UpdateConfig replaces the paper configuration
func (t *LabelTemplate) UpdateConfig(cfg PaperConfig) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	t.Config = cfg
	t.touch()
	return nil
}

// ReplaceElements swaps the whole element list, keeping its order
func (t *LabelTemplate) ReplaceElements(elements []Element) {
	t.Elements = make([]Element, len(elements))
	for i, el := range elements {
		t.Elements[i] = el.Clone()
	}
	t.touch()
}

// AddElement appends an element to the template
func (t *LabelTemplate) AddElement(el Element) {
	t.Elements = append(t.Elements, el.Clone())
	t.touch()
}

// UpdateElement replaces the element with the same id
func (t *LabelTemplate) UpdateElement(el Element) error {
	for i := range t.Elements {
		if t.Elements[i].ID == el.ID {
			t.Elements[i] = el.Clone()
			t.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Element not found in template")
}

// RemoveElement deletes the element with the given id
func (t *LabelTemplate) RemoveElement(id uuid.UUID) error {
	for i := range t.Elements {
		if t.Elements[i].ID == id {
			t.Elements = append(t.Elements[:i], t.Elements[i+1:]...)
			t.touch()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Element not found in template")
}

// Duplicate deep-copies the template under a new identity. The source is not
// mutated; the copy gets fresh timestamps and a name suffix.
func (t *LabelTemplate) Duplicate() *LabelTemplate {
	copyTpl := &LabelTemplate{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(t.TenantID),
		Name:                t.Name + " (copy)",
		Config:              t.Config.Clone(),
		Elements:            make([]Element, len(t.Elements)),
	}
	for i, el := range t.Elements {
		copyTpl.Elements[i] = el.Clone()
	}
	return copyTpl
}

// touch refreshes the update stamp. The version column is advanced by the
// repository on save, not per mutation, so one edit session consumes one
// optimistic token regardless of how many mutations it applied.
func (t *LabelTemplate) touch() {
	t.UpdatedAt = time.Now()
}

func validateTemplateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Template name cannot be empty")
	}
	if len(trimmed) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Template name cannot exceed 100 characters")
	}
	return nil
}

func normalizeConfig(cfg PaperConfig) PaperConfig {
	if cfg.PaperSize == "" {
		cfg.PaperSize = PaperSizeA4
	}
	if cfg.Orientation == "" {
		cfg.Orientation = OrientationPortrait
	}
	if cfg.DefaultFont.IsZero() {
		cfg.DefaultFont = DefaultFont()
	}
	return cfg
}

func validateConfig(cfg PaperConfig) error {
	if !cfg.PaperSize.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid paper size")
	}
	if cfg.PaperSize == PaperSizeCustom {
		if cfg.CustomDimensions == nil || !cfg.CustomDimensions.IsPositive() {
			return shared.NewDomainError("VALIDATION_ERROR", "Custom paper size requires positive dimensions")
		}
	}
	if !cfg.Orientation.IsValid() {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid orientation value")
	}
	if _, err := NewMargins(cfg.Margins.Top, cfg.Margins.Right, cfg.Margins.Bottom, cfg.Margins.Left); err != nil {
		return err
	}
	if cfg.DefaultFont.Size <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Default font size must be positive")
	}
	return nil
}
