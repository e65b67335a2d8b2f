package labeling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/marketops/backend/internal/domain/labeling"
	"github.com/marketops/backend/internal/infrastructure/textpipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTemplate(t *testing.T) *labeling.LabelTemplate {
	t.Helper()
	tpl, err := labeling.NewLabelTemplate(uuid.New(), "Shipping label", labeling.PaperConfig{
		PaperSize:   labeling.PaperSizeLabel100x150,
		Orientation: labeling.OrientationPortrait,
		Margins:     labeling.DefaultMargins(),
		DefaultFont: labeling.DefaultFont(),
	})
	require.NoError(t, err)

	recipient, err := labeling.NewElement(
		labeling.TextSpec{Path: "recipient.name"},
		labeling.Position{X: 5, Y: 5}, labeling.Size{Width: 90, Height: 10})
	require.NoError(t, err)

	barcode, err := labeling.NewElement(
		labeling.BarcodeSpec{Path: "shipping.trackingNumber"},
		labeling.Position{X: 5, Y: 120}, labeling.Size{Width: 90, Height: 20})
	require.NoError(t, err)

	static, err := labeling.NewElement(
		labeling.TextSpec{Static: "FRAGILE"},
		labeling.Position{X: 5, Y: 20}, labeling.Size{Width: 40, Height: 8})
	require.NoError(t, err)

	tpl.AddElement(recipient)
	tpl.AddElement(barcode)
	tpl.AddElement(static)
	return tpl
}

func buildBinding() BindingContext {
	order := sampleOrder()
	return BindOrder(order, sampleShipping(order.ID), sampleItems(order.ID), SenderProfile{Name: "Marketops Ltd"})
}

func TestComputeLayout(t *testing.T) {
	formatter := textpipe.NewFormatter("tr-TR", "TRY")

	t.Run("resolves geometry and element placement", func(t *testing.T) {
		tpl := buildTemplate(t)
		layout, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.NoError(t, err)

		assert.Equal(t, tpl.ID, layout.TemplateID)
		assert.Equal(t, labeling.Dimensions{Width: 100, Height: 150}, layout.Page)
		require.Len(t, layout.Elements, 3)

		recipient := layout.Elements[0]
		assert.Equal(t, "Ayşe Demir", recipient.Text)
		assert.Equal(t, 5.0, recipient.X)
		assert.Equal(t, 90.0, recipient.Width)
	})

	t.Run("barcode text is scanner safe", func(t *testing.T) {
		tpl := buildTemplate(t)
		layout, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.NoError(t, err)

		barcode := layout.Elements[1]
		assert.Equal(t, labeling.ElementTypeBarcode, barcode.Type)
		assert.Equal(t, textpipe.SanitizeForBarcode("YK123456789"), barcode.Text)
	})

	t.Run("static value fills unbound elements", func(t *testing.T) {
		tpl := buildTemplate(t)
		layout, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.NoError(t, err)
		assert.Equal(t, "FRAGILE", layout.Elements[2].Text)
	})

	t.Run("every font stack carries the coverage font up front", func(t *testing.T) {
		tpl := buildTemplate(t)
		layout, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.NoError(t, err)
		for _, el := range layout.Elements {
			require.NotEmpty(t, el.FontStack)
			head := el.FontStack
			if len(head) > 2 {
				head = head[:2]
			}
			assert.Contains(t, head, textpipe.CoverageFont)
		}
	})

	t.Run("landscape swaps the page dimensions", func(t *testing.T) {
		tpl := buildTemplate(t)
		cfg := tpl.Config
		cfg.Orientation = labeling.OrientationLandscape
		require.NoError(t, tpl.UpdateConfig(cfg))

		layout, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.NoError(t, err)
		assert.Equal(t, labeling.Dimensions{Width: 150, Height: 100}, layout.Page)
	})

	t.Run("broken geometry surfaces as a render error", func(t *testing.T) {
		tpl := &labeling.LabelTemplate{
			Config: labeling.PaperConfig{PaperSize: labeling.PaperSizeCustom},
		}
		_, err := ComputeLayout(tpl, buildBinding(), formatter)
		require.Error(t, err)
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeInvalidGeometry, renderErr.Code)
	})
}

func TestPreviewMatchesLayout(t *testing.T) {
	formatter := textpipe.NewFormatter("tr-TR", "TRY")
	tpl := buildTemplate(t)
	binding := buildBinding()

	direct, err := ComputeLayout(tpl, binding, formatter)
	require.NoError(t, err)

	preview, err := NewPreviewRenderer(formatter).Render(tpl, binding)
	require.NoError(t, err)

	// The preview artifact must be byte-for-byte what the PDF surface draws.
	assert.Equal(t, direct, preview)
}
