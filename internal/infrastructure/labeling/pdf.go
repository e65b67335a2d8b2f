package labeling

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	gofpdf "github.com/lvillar/gofpdf"
	"github.com/marketops/backend/internal/domain/labeling"
	"go.uber.org/zap"
)

// ptToMM converts font points to millimeters for line height math
const ptToMM = 25.4 / 72.0

// barcodePixelsPerMM controls the raster resolution of embedded barcodes
const barcodePixelsPerMM = 8

// PDFRendererConfig contains configuration for the PDF renderer
type PDFRendererConfig struct {
	// Timeout bounds a single render. Default: 10s
	Timeout time.Duration
	// MaxConcurrent bounds how many renders run at once. Default: 4
	MaxConcurrent int
	// FontDir holds UTF-8 TTF fonts registered at render time (optional).
	// Without it the built-in core fonts and codepage translation are used.
	FontDir string
	// Logger for operations
	Logger *zap.Logger
}

// PDFResult contains the output of a PDF render
type PDFResult struct {
	// Data is the raw PDF file content
	Data []byte
	// Layout is the computed layout the document was drawn from
	Layout *Layout
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer draws computed layouts into PDF documents. Renders run off the
// caller's goroutine under a timeout; concurrency is bounded by render slots
// so a burst of label requests cannot exhaust the process.
type PDFRenderer struct {
	config    *PDFRendererConfig
	formatter labeling.ValueFormatter
	slots     chan struct{}
	logger    *zap.Logger
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer(config *PDFRendererConfig, formatter labeling.ValueFormatter) *PDFRenderer {
	if config == nil {
		config = &PDFRendererConfig{}
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{
		config:    config,
		formatter: formatter,
		slots:     make(chan struct{}, config.MaxConcurrent),
		logger:    logger,
	}
}

// Render computes the layout for the template and binding and draws it into
// a PDF. The caller's context bounds slot acquisition; the configured timeout
// bounds the draw itself.
func (r *PDFRenderer) Render(ctx context.Context, template *labeling.LabelTemplate, binding BindingContext) (*PDFResult, error) {
	select {
	case r.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRenderBusy, "no render slot available", ctx.Err())
	}

	layout, err := ComputeLayout(template, binding, r.formatter)
	if err != nil {
		<-r.slots
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	type drawResult struct {
		data []byte
		err  error
	}
	done := make(chan drawResult, 1)

	// The draw goroutine owns the slot until it finishes, so a draw
	// abandoned by a timeout keeps counting against MaxConcurrent.
	go func() {
		defer func() { <-r.slots }()
		data, err := r.draw(layout)
		done <- drawResult{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		duration := time.Since(start)
		r.logger.Debug("label PDF rendered",
			zap.String("templateId", template.ID.String()),
			zap.Int("elements", len(layout.Elements)),
			zap.Int("bytes", len(res.data)),
			zap.Duration("duration", duration))
		return &PDFResult{Data: res.data, Layout: layout, RenderDuration: duration}, nil
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeRenderTimeout,
			fmt.Sprintf("rendering exceeded %s", r.config.Timeout), ctx.Err())
	}
}

func (r *PDFRenderer) draw(layout *Layout) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P", // orientation is already baked into the resolved page size
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: layout.Page.Width, Ht: layout.Page.Height},
	})
	pdf.SetMargins(layout.Margins.Left, layout.Margins.Top, layout.Margins.Right)
	pdf.SetAutoPageBreak(false, 0)

	registered := r.registerFonts(pdf)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	for _, el := range layout.Elements {
		switch el.Type {
		case labeling.ElementTypeBarcode:
			if err := r.drawBarcode(pdf, el); err != nil {
				return nil, err
			}
		case labeling.ElementTypeImage:
			r.drawImage(pdf, el)
		default:
			r.drawText(pdf, el, registered, translate)
		}
	}

	if pdf.Err() {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF generation failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PDF output failed", err)
	}
	return buf.Bytes(), nil
}

// registerFonts loads UTF-8 fonts from the configured directory. File names
// follow the fontconfig-style convention Family-Regular.ttf, Family-Bold.ttf,
// Family-Italic.ttf, Family-BoldItalic.ttf.
func (r *PDFRenderer) registerFonts(pdf *gofpdf.Fpdf) map[string]bool {
	registered := make(map[string]bool)
	if r.config.FontDir == "" {
		return registered
	}

	variants := map[string]string{
		"":   "-Regular.ttf",
		"B":  "-Bold.ttf",
		"I":  "-Italic.ttf",
		"BI": "-BoldItalic.ttf",
	}

	entries, err := os.ReadDir(r.config.FontDir)
	if err != nil {
		r.logger.Warn("font directory unreadable, using core fonts",
			zap.String("dir", r.config.FontDir), zap.Error(err))
		return registered
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, "-Regular.ttf") {
			continue
		}
		base := strings.TrimSuffix(name, "-Regular.ttf")
		family := strings.ReplaceAll(base, "_", " ")
		for style, suffix := range variants {
			path := filepath.Join(r.config.FontDir, base+suffix)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			pdf.AddUTF8Font(family, style, path)
		}
		registered[family] = true
	}
	return registered
}

func (r *PDFRenderer) drawText(pdf *gofpdf.Fpdf, el PlacedElement, registered map[string]bool, translate func(string) string) {
	if el.Text == "" {
		return
	}

	family, needsTranslation := resolveFamily(el.FontStack, registered)
	style := fontStyle(el.Font)

	text := el.Text
	if needsTranslation {
		text = translate(text)
	}

	red, green, blue := parseHexColor(el.Font.Color)
	pdf.SetTextColor(red, green, blue)
	pdf.SetFont(family, style, el.Font.Size)

	lineHeight := el.Font.Size * el.Font.LineHeight * ptToMM
	if lineHeight <= 0 {
		lineHeight = el.Font.Size * 1.2 * ptToMM
	}

	pdf.SetXY(el.X, el.Y)
	pdf.MultiCell(el.Width, lineHeight, text, "", "L", false)
}

func (r *PDFRenderer) drawBarcode(pdf *gofpdf.Fpdf, el PlacedElement) error {
	if el.Text == "" {
		return nil
	}

	code, err := code128.Encode(el.Text)
	if err != nil {
		return NewRenderError(ErrCodeBarcodeFailed,
			fmt.Sprintf("cannot encode barcode payload %q", el.Text), err)
	}

	scaled, err := barcode.Scale(code,
		int(el.Width*barcodePixelsPerMM),
		int(el.Height*barcodePixelsPerMM))
	if err != nil {
		return NewRenderError(ErrCodeBarcodeFailed, "cannot scale barcode", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return NewRenderError(ErrCodeBarcodeFailed, "cannot rasterize barcode", err)
	}

	name := "barcode-" + el.ID.String()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	pdf.ImageOptions(name, el.X, el.Y, el.Width, el.Height, false, opts, 0, "")
	return nil
}

// drawImage places a static image from the local filesystem. A missing file
// skips the element instead of failing the label.
func (r *PDFRenderer) drawImage(pdf *gofpdf.Fpdf, el PlacedElement) {
	if el.Text == "" {
		return
	}
	if _, err := os.Stat(el.Text); err != nil {
		r.logger.Warn("image element source missing, skipping",
			zap.String("src", el.Text))
		return
	}
	pdf.ImageOptions(el.Text, el.X, el.Y, el.Width, el.Height, false,
		gofpdf.ImageOptions{}, 0, "")
}

// coreFonts ship with every PDF viewer and need codepage translation
var coreFonts = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
}

// resolveFamily walks the font stack and picks the first family the document
// can actually use: a registered UTF-8 font, or a core font with translation.
// The stack always ends with the coverage font, so when that is registered
// the walk cannot fall through to Helvetica.
func resolveFamily(stack []string, registered map[string]bool) (family string, needsTranslation bool) {
	for _, f := range stack {
		if registered[f] {
			return f, false
		}
		if core, ok := coreFonts[strings.ToLower(f)]; ok {
			return core, true
		}
	}
	return "Helvetica", true
}

func fontStyle(f labeling.FontSpec) string {
	style := ""
	if strings.EqualFold(f.Weight, "bold") {
		style += "B"
	}
	if strings.EqualFold(f.Style, "italic") {
		style += "I"
	}
	return style
}

// parseHexColor decodes #RRGGBB; malformed values fall back to black
func parseHexColor(s string) (r, g, b int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
