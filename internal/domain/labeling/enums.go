package labeling

// PaperSize identifies a paper preset, or CUSTOM for caller-supplied dimensions
type PaperSize string

const (
	PaperSizeA4           PaperSize = "A4"            // 210mm x 297mm
	PaperSizeA5           PaperSize = "A5"            // 148mm x 210mm
	PaperSizeA6           PaperSize = "A6"            // 105mm x 148mm
	PaperSizeLetter       PaperSize = "LETTER"        // 215.9mm x 279.4mm
	PaperSizeLabel100x150 PaperSize = "LABEL_100X150" // thermal shipping label
	PaperSizeLabel100x100 PaperSize = "LABEL_100X100" // square thermal label
	PaperSizeCustom       PaperSize = "CUSTOM"        // dimensions supplied per template
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeA6, PaperSizeLetter,
		PaperSizeLabel100x150, PaperSizeLabel100x100, PaperSizeCustom:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// BaseDimensions returns the preset portrait dimensions in millimeters.
// CUSTOM (and unknown values) return zero dimensions; the geometry resolver
// takes custom sizes from the template configuration instead.
func (p PaperSize) BaseDimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	case PaperSizeA5:
		return 148, 210
	case PaperSizeA6:
		return 105, 148
	case PaperSizeLetter:
		return 215.9, 279.4
	case PaperSizeLabel100x150:
		return 100, 150
	case PaperSizeLabel100x100:
		return 100, 100
	default:
		return 0, 0
	}
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{
		PaperSizeA4, PaperSizeA5, PaperSizeA6, PaperSizeLetter,
		PaperSizeLabel100x150, PaperSizeLabel100x100, PaperSizeCustom,
	}
}

// Orientation represents the page orientation of a label template
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// ElementType discriminates the element variants of a template
type ElementType string

const (
	ElementTypeText     ElementType = "TEXT"
	ElementTypeDate     ElementType = "DATE"
	ElementTypeCurrency ElementType = "CURRENCY"
	ElementTypeNumber   ElementType = "NUMBER"
	ElementTypeBarcode  ElementType = "BARCODE"
	ElementTypeImage    ElementType = "IMAGE"
)

// IsValid checks if the ElementType is a valid value
func (t ElementType) IsValid() bool {
	switch t {
	case ElementTypeText, ElementTypeDate, ElementTypeCurrency,
		ElementTypeNumber, ElementTypeBarcode, ElementTypeImage:
		return true
	}
	return false
}

// String returns the string representation of ElementType
func (t ElementType) String() string {
	return string(t)
}

// JobStatus represents the status of a label job
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRendering JobStatus = "RENDERING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// IsValid checks if the JobStatus is a valid value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusRendering, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks if the status can transition to the target status
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	switch s {
	case JobStatusPending:
		return target == JobStatusRendering || target == JobStatusFailed
	case JobStatusRendering:
		return target == JobStatusCompleted || target == JobStatusFailed
	}
	return false
}
