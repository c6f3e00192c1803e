// Package layout holds the page configuration and plans header, footer and
// watermark composition for it.
//
// Planning has no side effects: it decides what goes where and leaves the
// drawing to a renderer.
package layout

import (
	"fmt"
	"strings"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/style"
)

// Defaults of a page configuration.
const (
	DefaultMargin           = 30.0
	DefaultWatermarkOpacity = 30
	DefaultCustomFontName   = "Custom"
)

// Margins defines page margins in points.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargins returns margins with the same value on all sides.
func UniformMargins(v float64) Margins {
	return Margins{Top: v, Right: v, Bottom: v, Left: v}
}

// LogoAlignment places the logo when a header has both a logo and a title.
type LogoAlignment int

const (
	LogoLeft LogoAlignment = iota
	LogoRight
)

func (a LogoAlignment) String() string {
	if a == LogoRight {
		return "right"
	}
	return "left"
}

// ParseLogoAlignment accepts "left" or "right" in any case; "" is left.
func ParseLogoAlignment(s string) (LogoAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left", "l":
		return LogoLeft, nil
	case "right", "r":
		return LogoRight, nil
	}
	return LogoLeft, fmt.Errorf("layout: unknown logo alignment %q", s)
}

// HeaderComposition describes the header repeated on every page.
type HeaderComposition struct {
	Logo       []byte
	LogoAlign  LogoAlignment
	Title      string
	TitleStyle style.Style
}

// DefaultHeader returns an empty header whose title style is bold at the
// title size.
func DefaultHeader() HeaderComposition {
	return HeaderComposition{
		TitleStyle: style.Style{Bold: true, Size: style.TitleSize},
	}
}

// StampKind selects the barcode symbology of the signature stamp.
type StampKind int

const (
	StampNone StampKind = iota
	StampQR
	StampPDF417
)

func (k StampKind) String() string {
	switch k {
	case StampQR:
		return "qr"
	case StampPDF417:
		return "pdf417"
	default:
		return "none"
	}
}

// ParseStampKind accepts "", "none", "qr" or "pdf417".
func ParseStampKind(s string) (StampKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return StampNone, nil
	case "qr":
		return StampQR, nil
	case "pdf417":
		return StampPDF417, nil
	}
	return StampNone, fmt.Errorf("layout: unknown stamp kind %q", s)
}

// PageConfiguration is the declarative description of every page.
type PageConfiguration struct {
	Margins Margins

	Watermark        []byte // image drawn behind the content
	WatermarkOpacity int    // percent, 0..100

	Font           fonts.Family
	CustomFont     []byte // TrueType bytes used when Font is fonts.Custom
	CustomFontName string // family name the custom font registers under

	FooterPagination bool
	Header           HeaderComposition

	Letterhead []byte    // PDF whose first page is drawn under every page
	Stamp      StampKind // barcode of the document signature in the footer
}

// DefaultPageConfiguration returns 30pt margins, 30% watermark opacity,
// Liberation Sans, footer pagination and an empty default header.
func DefaultPageConfiguration() PageConfiguration {
	return PageConfiguration{
		Margins:          UniformMargins(DefaultMargin),
		WatermarkOpacity: DefaultWatermarkOpacity,
		Font:             fonts.LiberationSans,
		CustomFontName:   DefaultCustomFontName,
		FooterPagination: true,
		Header:           DefaultHeader(),
	}
}

// FontName is the family name body text is requested in. The renderer falls
// back to its built-in family if nothing was registered under it.
func (c PageConfiguration) FontName() string {
	if c.Font == fonts.Custom {
		name := strings.TrimSpace(c.CustomFontName)
		if name == "" {
			name = DefaultCustomFontName
		}
		return strings.ToLower(name)
	}
	return c.Font.Name()
}
