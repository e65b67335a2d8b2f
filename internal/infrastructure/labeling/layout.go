package labeling

import (
	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
)

// PlacedElement is one fully resolved element of a layout: geometry in
// millimeters, display text after formatting, and the font stack both
// surfaces must use.
type PlacedElement struct {
	ID        uuid.UUID            `json:"id"`
	Type      labeling.ElementType `json:"type"`
	X         float64              `json:"x"`
	Y         float64              `json:"y"`
	Width     float64              `json:"width"`
	Height    float64              `json:"height"`
	Text      string               `json:"text"`
	Font      labeling.FontSpec    `json:"font"`
	FontStack []string             `json:"fontStack"`
}

// Layout is the single source of truth for both render surfaces. The preview
// returns it verbatim; the PDF renderer draws it without recomputing
// anything.
type Layout struct {
	TemplateID uuid.UUID           `json:"templateId"`
	Page       labeling.Dimensions `json:"page"`
	Margins    labeling.Margins    `json:"margins"`
	Elements   []PlacedElement     `json:"elements"`
}

// ComputeLayout resolves a template against a binding context: page geometry,
// element placement, value formatting and font-stack resolution happen here
// and nowhere else.
func ComputeLayout(template *labeling.LabelTemplate, binding BindingContext, formatter labeling.ValueFormatter) (*Layout, error) {
	page, err := labeling.ResolveDimensions(template.Config)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidGeometry, "cannot resolve page dimensions", err)
	}

	layout := &Layout{
		TemplateID: template.ID,
		Page:       page,
		Margins:    template.Config.Margins,
		Elements:   make([]PlacedElement, 0, len(template.Elements)),
	}

	for _, el := range template.Elements {
		raw := el.Spec.StaticValue()
		if path := el.Spec.BindingPath(); path != "" {
			if bound := binding.Lookup(path); bound != "" {
				raw = bound
			}
		}

		text := el.Spec.Format(raw, formatter)
		font := el.EffectiveFont(template.Config)

		layout.Elements = append(layout.Elements, PlacedElement{
			ID:        el.ID,
			Type:      el.Type(),
			X:         el.Position.X,
			Y:         el.Position.Y,
			Width:     el.Size.Width,
			Height:    el.Size.Height,
			Text:      text,
			Font:      font,
			FontStack: textpipe.FontStack(text, font.Family),
		})
	}

	return layout, nil
}
