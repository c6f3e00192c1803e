package layout

import (
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/lvillar/pdfcompose/style"
)

// Relative widths of the logo and title regions when a header has both.
const (
	LogoWeight  = 3
	TitleWeight = 9
)

// DefaultFooterFormat is the page label; {page} and {pages} are expanded per page.
const DefaultFooterFormat = "Page {page} of {pages}"

// HeaderVariant is the header layout chosen for a composition.
type HeaderVariant int

const (
	HeaderNone HeaderVariant = iota
	HeaderTitle
	HeaderLogo
	HeaderLogoAndTitle
)

func (v HeaderVariant) String() string {
	switch v {
	case HeaderTitle:
		return "title"
	case HeaderLogo:
		return "logo"
	case HeaderLogoAndTitle:
		return "logo+title"
	default:
		return "none"
	}
}

// RegionKind is what a header region holds.
type RegionKind int

const (
	RegionLogo RegionKind = iota
	RegionTitle
)

func (k RegionKind) String() string {
	if k == RegionTitle {
		return "title"
	}
	return "logo"
}

// Region is one cell of the header row. Weight is relative to the other
// regions; Align is "L", "C" or "R".
type Region struct {
	Kind   RegionKind
	Weight int
	Align  string
}

// HeaderPlan is the header layout decision.
type HeaderPlan struct {
	Variant    HeaderVariant
	Regions    []Region // left to right
	Logo       []byte
	Title      string
	TitleStyle style.Style
	Rule       bool // draw a line under the header
}

// Empty reports whether the header takes no space.
func (p HeaderPlan) Empty() bool {
	return p.Variant == HeaderNone
}

// PlanHeader picks the header layout for h.
func PlanHeader(h HeaderComposition) HeaderPlan {
	hasLogo := len(h.Logo) > 0
	hasTitle := strings.TrimSpace(h.Title) != ""

	plan := HeaderPlan{
		Logo:       h.Logo,
		Title:      h.Title,
		TitleStyle: h.TitleStyle,
	}

	switch {
	case !hasLogo && !hasTitle:
		return HeaderPlan{Variant: HeaderNone}
	case hasTitle && !hasLogo:
		plan.Variant = HeaderTitle
		plan.Logo = nil
		plan.Regions = []Region{{Kind: RegionTitle, Weight: 1, Align: "C"}}
	case hasLogo && !hasTitle:
		plan.Variant = HeaderLogo
		plan.Title = ""
		plan.Regions = []Region{{Kind: RegionLogo, Weight: 1, Align: "C"}}
	case h.LogoAlign == LogoRight:
		plan.Variant = HeaderLogoAndTitle
		plan.Regions = []Region{
			{Kind: RegionTitle, Weight: TitleWeight, Align: "L"},
			{Kind: RegionLogo, Weight: LogoWeight, Align: "R"},
		}
	default:
		plan.Variant = HeaderLogoAndTitle
		plan.Regions = []Region{
			{Kind: RegionLogo, Weight: LogoWeight, Align: "L"},
			{Kind: RegionTitle, Weight: TitleWeight, Align: "R"},
		}
	}
	plan.Rule = true
	return plan
}

// Widths splits total among the regions by weight.
func (p HeaderPlan) Widths(total float64) []float64 {
	sum := 0
	for _, r := range p.Regions {
		sum += r.Weight
	}
	widths := make([]float64, len(p.Regions))
	if sum == 0 {
		return widths
	}
	for i, r := range p.Regions {
		widths[i] = total * float64(r.Weight) / float64(sum)
	}
	return widths
}

// FooterPlan is the footer decision.
type FooterPlan struct {
	Enabled bool
	Format  string
	Align   string
}

// PlanFooter enables a centered page label when pagination is on.
func PlanFooter(c PageConfiguration) FooterPlan {
	if !c.FooterPagination {
		return FooterPlan{}
	}
	return FooterPlan{Enabled: true, Format: DefaultFooterFormat, Align: "C"}
}

// Label expands the footer format for page. pages stands in for the total
// page count; a renderer that learns the total only at the end passes its
// alias, and one that never learns it passes "" to drop the " of {pages}" part.
func (p FooterPlan) Label(page int, pages string) string {
	format := p.Format
	if pages == "" {
		format = strings.Replace(format, " of {pages}", "", 1)
	}
	return fasttemplate.ExecuteStringStd(format, "{", "}", map[string]interface{}{
		"page":  strconv.Itoa(page),
		"pages": pages,
	})
}

// WatermarkFill describes how the watermark covers the page.
type WatermarkFill int

const (
	// FillStretch scales the image to the full page, ignoring aspect ratio.
	FillStretch WatermarkFill = iota
)

// WatermarkPlan is the watermark decision.
type WatermarkPlan struct {
	Enabled    bool
	Image      []byte
	Opacity    int // percent, 0..100
	Fill       WatermarkFill
	Background bool // behind all foreground content
}

// PlanWatermark requests an opacity-adjusted background image when the
// configuration has one. Opacity is clamped to 0..100.
func PlanWatermark(c PageConfiguration) WatermarkPlan {
	if len(c.Watermark) == 0 {
		return WatermarkPlan{}
	}
	opacity := c.WatermarkOpacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	return WatermarkPlan{
		Enabled:    true,
		Image:      c.Watermark,
		Opacity:    opacity,
		Fill:       FillStretch,
		Background: true,
	}
}

// Plan bundles every composition decision for a page configuration.
type Plan struct {
	Margins   Margins
	Header    HeaderPlan
	Footer    FooterPlan
	Watermark WatermarkPlan
	Stamp     StampKind
}

// PlanPage plans header, footer and watermark for c.
func PlanPage(c PageConfiguration) Plan {
	return Plan{
		Margins:   c.Margins,
		Header:    PlanHeader(c.Header),
		Footer:    PlanFooter(c),
		Watermark: PlanWatermark(c),
		Stamp:     c.Stamp,
	}
}
