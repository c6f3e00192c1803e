// Package style describes how placeholder fragments look and resolves a
// fragment's style against page defaults into concrete rendering attributes.
//
// A Style is a plain value: copying it yields an independent instance, so
// styles can be handed out to many placeholders without aliasing.
package style

import "strings"

// Default font sizes in points, applied when a style leaves Size unset.
const (
	BodySize  = 12.0
	TitleSize = 20.0
)

// Style defines the visual appearance of a fragment.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Size      float64 // in points; 0 means the context default
	Color     ColorSpec
	Family    string // custom font family, best effort
}

// Defaults carries the page-level values a style falls back to.
type Defaults struct {
	Family string
	Size   float64
}

// BodyDefaults returns the defaults for body spans in the given family.
func BodyDefaults(family string) Defaults {
	return Defaults{Family: family, Size: BodySize}
}

// TitleDefaults returns the defaults for header title spans.
func TitleDefaults(family string) Defaults {
	return Defaults{Family: family, Size: TitleSize}
}

// FamilyChecker reports whether a font family can be used by the renderer.
type FamilyChecker interface {
	Has(family string) bool
}

// FamilyOutcome reports what happened to a custom font family request.
type FamilyOutcome int

const (
	// FamilyDefault means no custom family was requested.
	FamilyDefault FamilyOutcome = iota
	// FamilyApplied means the requested family is in use.
	FamilyApplied
	// FamilyFallback means the requested family was unknown and the page
	// family is used instead.
	FamilyFallback
)

func (o FamilyOutcome) String() string {
	switch o {
	case FamilyApplied:
		return "applied"
	case FamilyFallback:
		return "fallback"
	default:
		return "default"
	}
}

// Attributes are the concrete rendering attributes of one fragment.
type Attributes struct {
	Family    string
	Bold      bool
	Italic    bool
	Underline bool
	Size      float64
	Color     string

	Requested string // custom family asked for, if any
	Outcome   FamilyOutcome
}

// FontStyle returns the gofpdf style string ("", "B", "I", "U" or a
// combination such as "BIU").
func (a Attributes) FontStyle() string {
	var b strings.Builder
	if a.Bold {
		b.WriteByte('B')
	}
	if a.Italic {
		b.WriteByte('I')
	}
	if a.Underline {
		b.WriteByte('U')
	}
	return b.String()
}

// Apply combines a fragment style with page defaults. Every combination of
// bold, italic and underline is legal. A custom family is used only when
// known reports it; otherwise the page family is kept and the outcome says so.
// A nil known accepts nothing.
func Apply(s Style, page Defaults, known FamilyChecker) Attributes {
	size := page.Size
	if s.Size > 0 {
		size = s.Size
	}

	attrs := Attributes{
		Family:    page.Family,
		Bold:      s.Bold,
		Italic:    s.Italic,
		Underline: s.Underline,
		Size:      size,
		Color:     ResolveColor(s),
	}

	family := strings.TrimSpace(s.Family)
	if family == "" {
		return attrs
	}
	attrs.Requested = family
	if known != nil && known.Has(family) {
		attrs.Family = family
		attrs.Outcome = FamilyApplied
	} else {
		attrs.Outcome = FamilyFallback
	}
	return attrs
}
