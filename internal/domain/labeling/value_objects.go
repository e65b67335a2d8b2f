package labeling

import "github.com/marketops/backend/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left float64) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("VALIDATION_ERROR", "Margins cannot be negative")
	}
	if top > 100 || right > 100 || bottom > 100 || left > 100 {
		return Margins{}, shared.NewDomainError("VALIDATION_ERROR", "Margins cannot exceed 100mm")
	}
	return Margins{Top: top, Right: right, Bottom: bottom, Left: left}, nil
}

// DefaultMargins returns the default margins for label templates
func DefaultMargins() Margins {
	return Margins{Top: 5, Right: 5, Bottom: 5, Left: 5}
}

// Equals checks if two Margins are equal
func (m Margins) Equals(other Margins) bool {
	return m.Top == other.Top &&
		m.Right == other.Right &&
		m.Bottom == other.Bottom &&
		m.Left == other.Left
}

// Dimensions is a resolved page size in millimeters
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CustomDimensions carries the caller-supplied base size for CUSTOM paper,
// always stored portrait (orientation is applied at resolve time)
type CustomDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsPositive returns true when both sides are greater than zero
func (d CustomDimensions) IsPositive() bool {
	return d.Width > 0 && d.Height > 0
}

// Position is the top-left corner of an element, in millimeters from the page origin
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the bounding box of an element in millimeters
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FontSpec describes how an element's text is set.
// Size is in points; LineHeight is a multiplier of the font size.
type FontSpec struct {
	Family     string  `json:"fontFamily"`
	Size       float64 `json:"fontSize"`
	Weight     string  `json:"fontWeight"` // "normal" or "bold"
	Style      string  `json:"fontStyle"`  // "normal" or "italic"
	Color      string  `json:"color"`      // #RRGGBB
	LineHeight float64 `json:"lineHeight"`
}

// DefaultFont returns the font applied when a template does not specify one.
// The family matches the guaranteed coverage font of the render pipeline so a
// fresh template previews identically on both surfaces.
func DefaultFont() FontSpec {
	return FontSpec{
		Family:     "Noto Sans",
		Size:       10,
		Weight:     "normal",
		Style:      "normal",
		Color:      "#000000",
		LineHeight: 1.2,
	}
}

// IsZero reports whether no font values are set at all
func (f FontSpec) IsZero() bool {
	return f == FontSpec{}
}
