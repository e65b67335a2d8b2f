package labeling

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/shared"
)

// ValueFormatter is the port through which element variants turn a bound raw
// value into display text. The text pipeline implements it once; both render
// surfaces share that single implementation.
type ValueFormatter interface {
	Text(raw string) string
	Date(raw, layout string) string
	Currency(raw, code string) string
	Number(raw string) string
	Barcode(raw string) string
}

// ElementSpec is the variant payload of an element. Each element type carries
// only the fields relevant to it and knows how to format its bound value,
// so neither the formatter nor the renderer branches on a type string.
type ElementSpec interface {
	Kind() ElementType
	BindingPath() string
	StaticValue() string
	Format(raw string, f ValueFormatter) string
}

// TextSpec renders the bound value verbatim after encoding normalization
type TextSpec struct {
	Path   string
	Static string
}

func (s TextSpec) Kind() ElementType   { return ElementTypeText }
func (s TextSpec) BindingPath() string { return s.Path }
func (s TextSpec) StaticValue() string { return s.Static }
func (s TextSpec) Format(raw string, f ValueFormatter) string {
	return f.Text(raw)
}

// DateSpec renders the bound value as a locale-formatted date.
// Layout optionally overrides the locale's default date layout.
type DateSpec struct {
	Path   string
	Static string
	Layout string
}

func (s DateSpec) Kind() ElementType   { return ElementTypeDate }
func (s DateSpec) BindingPath() string { return s.Path }
func (s DateSpec) StaticValue() string { return s.Static }
func (s DateSpec) Format(raw string, f ValueFormatter) string {
	return f.Date(raw, s.Layout)
}

// CurrencySpec renders the bound value as a locale-formatted amount.
// Code optionally pins the currency; empty means the binding context's currency.
type CurrencySpec struct {
	Path   string
	Static string
	Code   string
}

func (s CurrencySpec) Kind() ElementType   { return ElementTypeCurrency }
func (s CurrencySpec) BindingPath() string { return s.Path }
func (s CurrencySpec) StaticValue() string { return s.Static }
func (s CurrencySpec) Format(raw string, f ValueFormatter) string {
	return f.Currency(raw, s.Code)
}

// NumberSpec renders the bound value as a locale-formatted number
type NumberSpec struct {
	Path   string
	Static string
}

func (s NumberSpec) Kind() ElementType   { return ElementTypeNumber }
func (s NumberSpec) BindingPath() string { return s.Path }
func (s NumberSpec) StaticValue() string { return s.Static }
func (s NumberSpec) Format(raw string, f ValueFormatter) string {
	return f.Number(raw)
}

// BarcodeSpec renders the bound value as a Code 128 barcode; the formatted
// text is the sanitized payload encoded into the symbol
type BarcodeSpec struct {
	Path   string
	Static string
}

func (s BarcodeSpec) Kind() ElementType   { return ElementTypeBarcode }
func (s BarcodeSpec) BindingPath() string { return s.Path }
func (s BarcodeSpec) StaticValue() string { return s.Static }
func (s BarcodeSpec) Format(raw string, f ValueFormatter) string {
	return f.Barcode(raw)
}

// ImageSpec places an image; the bound value is the image source reference
// and is passed through untouched
type ImageSpec struct {
	Path   string
	Static string
}

func (s ImageSpec) Kind() ElementType   { return ElementTypeImage }
func (s ImageSpec) BindingPath() string { return s.Path }
func (s ImageSpec) StaticValue() string { return s.Static }
func (s ImageSpec) Format(raw string, f ValueFormatter) string {
	return raw
}

// Element is one positioned field of a label template. It never exists
// outside its owning template.
type Element struct {
	ID         uuid.UUID
	Position   Position
	Size       Size
	Font       *FontSpec // nil falls back to the template default font
	FontLocked bool      // keeps the override when apply-default-font-to-all is set
	Spec       ElementSpec
}

// Type returns the variant discriminator of the element
func (e Element) Type() ElementType {
	return e.Spec.Kind()
}

// EffectiveFont resolves the font the element renders with, honoring the
// template-wide apply-default instruction unless the element is locked
func (e Element) EffectiveFont(cfg PaperConfig) FontSpec {
	if cfg.ApplyDefaultFontToAll && !e.FontLocked {
		return cfg.DefaultFont
	}
	if e.Font != nil {
		return *e.Font
	}
	return cfg.DefaultFont
}

// Clone returns a deep copy of the element
func (e Element) Clone() Element {
	out := e
	if e.Font != nil {
		font := *e.Font
		out.Font = &font
	}
	return out
}

// NewElement builds an element from its variant payload, generating an id
func NewElement(spec ElementSpec, pos Position, size Size) (Element, error) {
	if spec == nil {
		return Element{}, shared.NewDomainError("VALIDATION_ERROR", "Element type is required")
	}
	if size.Width <= 0 || size.Height <= 0 {
		return Element{}, shared.NewDomainError("VALIDATION_ERROR", "Element size must be positive")
	}
	return Element{
		ID:       uuid.New(),
		Position: pos,
		Size:     size,
		Spec:     spec,
	}, nil
}

// elementWire is the flat persisted shape of an element. The type field
// discriminates the variant; kind-specific fields are optional.
type elementWire struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Position     Position  `json:"position"`
	Size         Size      `json:"size"`
	Font         *FontSpec `json:"font,omitempty"`
	FontLocked   bool      `json:"fontLocked,omitempty"`
	BindingPath  string    `json:"bindingPath,omitempty"`
	StaticValue  string    `json:"staticValue,omitempty"`
	DateLayout   string    `json:"dateLayout,omitempty"`
	CurrencyCode string    `json:"currencyCode,omitempty"`
}

// MarshalJSON flattens the element variant into the persisted wire shape
func (e Element) MarshalJSON() ([]byte, error) {
	w := elementWire{
		ID:          e.ID,
		Type:        string(e.Spec.Kind()),
		Position:    e.Position,
		Size:        e.Size,
		Font:        e.Font,
		FontLocked:  e.FontLocked,
		BindingPath: e.Spec.BindingPath(),
		StaticValue: e.Spec.StaticValue(),
	}
	switch s := e.Spec.(type) {
	case DateSpec:
		w.DateLayout = s.Layout
	case CurrencySpec:
		w.CurrencyCode = s.Code
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the element variant from the wire shape
func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	spec, err := specFromWire(w)
	if err != nil {
		return err
	}

	e.ID = w.ID
	e.Position = w.Position
	e.Size = w.Size
	e.Font = w.Font
	e.FontLocked = w.FontLocked
	e.Spec = spec
	return nil
}

func specFromWire(w elementWire) (ElementSpec, error) {
	switch ElementType(w.Type) {
	case ElementTypeText:
		return TextSpec{Path: w.BindingPath, Static: w.StaticValue}, nil
	case ElementTypeDate:
		return DateSpec{Path: w.BindingPath, Static: w.StaticValue, Layout: w.DateLayout}, nil
	case ElementTypeCurrency:
		return CurrencySpec{Path: w.BindingPath, Static: w.StaticValue, Code: w.CurrencyCode}, nil
	case ElementTypeNumber:
		return NumberSpec{Path: w.BindingPath, Static: w.StaticValue}, nil
	case ElementTypeBarcode:
		return BarcodeSpec{Path: w.BindingPath, Static: w.StaticValue}, nil
	case ElementTypeImage:
		return ImageSpec{Path: w.BindingPath, Static: w.StaticValue}, nil
	default:
		return nil, fmt.Errorf("unknown element type %q", w.Type)
	}
}
