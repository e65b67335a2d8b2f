package textpipe

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter turns raw bound values into locale-aware display text. It never
// returns an error: when a raw value does not parse as the expected kind the
// raw text is printed as-is, so a malformed order field degrades to plain
// text instead of failing the whole label.
type Formatter struct {
	tag              language.Tag
	printer          *message.Printer
	fallbackCurrency string
}

// NewFormatter builds a formatter for a BCP 47 locale such as "tr-TR".
// Unparseable locales fall back to English; fallbackCurrency is the ISO 4217
// code used when an element does not pin one.
func NewFormatter(locale, fallbackCurrency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if fallbackCurrency == "" {
		fallbackCurrency = "USD"
	}
	return &Formatter{
		tag:              tag,
		printer:          message.NewPrinter(tag),
		fallbackCurrency: fallbackCurrency,
	}
}

// Locale returns the resolved locale tag
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Text normalizes plain text for display
func (f *Formatter) Text(raw string) string {
	return EnsureProperEncoding(raw)
}

// Date formats a raw timestamp. Layout overrides the locale's default date
// layout when non-empty; unparseable input comes back unchanged.
func (f *Formatter) Date(raw, layout string) string {
	t := parseTime(raw)
	if t.IsZero() {
		return EnsureProperEncoding(raw)
	}
	if layout == "" {
		layout = f.defaultDateLayout()
	}
	return t.Format(layout)
}

// Currency formats a raw amount with the locale's digit grouping and the
// currency's symbol. Code overrides the fallback currency when non-empty.
func (f *Formatter) Currency(raw, code string) string {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return EnsureProperEncoding(raw)
	}
	if code == "" {
		code = f.fallbackCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return f.printer.Sprintf("%v", number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2), number.MinFractionDigits(2)))
	}
	return f.printer.Sprintf("%v%v",
		currency.Symbol(unit),
		number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2), number.MinFractionDigits(2)))
}

// Number formats a raw numeric value with the locale's digit grouping
func (f *Formatter) Number(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return EnsureProperEncoding(raw)
	}
	if d.IsInteger() {
		return f.printer.Sprintf("%v", number.Decimal(d.IntPart()))
	}
	return f.printer.Sprintf("%v", number.Decimal(d.InexactFloat64()))
}

// Barcode reduces a raw value to its scanner-safe payload
func (f *Formatter) Barcode(raw string) string {
	return SanitizeForBarcode(raw)
}

// defaultDateLayout picks the conventional short date order for the locale's
// base language. The table is small on purpose; elements can always pin an
// explicit layout.
func (f *Formatter) defaultDateLayout() string {
	base, _ := f.tag.Base()
	switch base.String() {
	case "tr", "de", "ru":
		return "02.01.2006"
	case "en":
		region, _ := f.tag.Region()
		if region.String() == "US" {
			return "01/02/2006"
		}
		return "02/01/2006"
	case "fr", "es", "it", "pt", "nl":
		return "02/01/2006"
	default:
		return "2006-01-02"
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(raw string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
