package labeling

import (
	"fmt"

	"github.com/marketops/backend/internal/domain/shared"
)

// NewInvalidGeometryError builds the error returned when a paper configuration
// cannot yield a printable page
func NewInvalidGeometryError(msg string) *shared.DomainError {
	return shared.NewDomainError("INVALID_GEOMETRY", msg)
}

// ResolveDimensions converts a paper configuration into concrete page
// dimensions in millimeters.
//
// The swap for landscape is applied to the stored base size (preset table or
// custom dimensions), never to a previously resolved value: callers must pass
// the template configuration each time rather than cache a resolved pair.
// Margins are not part of the swap.
func ResolveDimensions(cfg PaperConfig) (Dimensions, error) {
	var width, height float64

	if cfg.PaperSize == PaperSizeCustom {
		if cfg.CustomDimensions == nil {
			return Dimensions{}, NewInvalidGeometryError("Custom paper size requires custom dimensions")
		}
		width, height = cfg.CustomDimensions.Width, cfg.CustomDimensions.Height
	} else {
		if !cfg.PaperSize.IsValid() {
			return Dimensions{}, NewInvalidGeometryError(fmt.Sprintf("Unknown paper size %q", cfg.PaperSize))
		}
		width, height = cfg.PaperSize.BaseDimensions()
	}

	if width <= 0 || height <= 0 {
		return Dimensions{}, NewInvalidGeometryError(
			fmt.Sprintf("Paper dimensions must be positive, got %.1fmm x %.1fmm", width, height))
	}

	if cfg.Orientation == OrientationLandscape {
		width, height = height, width
	}

	return Dimensions{Width: width, Height: height}, nil
}

// ContentBox returns the printable area of the page: the resolved dimensions
// minus the configured margins
func ContentBox(cfg PaperConfig) (Dimensions, error) {
	page, err := ResolveDimensions(cfg)
	if err != nil {
		return Dimensions{}, err
	}

	box := Dimensions{
		Width:  page.Width - cfg.Margins.Left - cfg.Margins.Right,
		Height: page.Height - cfg.Margins.Top - cfg.Margins.Bottom,
	}
	if box.Width <= 0 || box.Height <= 0 {
		return Dimensions{}, NewInvalidGeometryError("Margins leave no printable area")
	}
	return box, nil
}
