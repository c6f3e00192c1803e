// Package render draws resolved fragments and a composition plan into a PDF
// using gofpdf.
//
// Each Render call builds an independent document, so a Renderer can be shared
// between goroutines. Font files come from a fonts.Loader, which caches them
// per process.
package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/imagefilter"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/sign"
)

// Creator is written to the document information dictionary.
const Creator = "pdfcompose"

// ImageFilter returns a copy of an image with its opacity set to percent.
type ImageFilter interface {
	AdjustOpacity(data []byte, percent int) ([]byte, error)
}

// Input is everything one document is drawn from.
type Input struct {
	Fragments []placeholder.Fragment
	Page      layout.PageConfiguration
	Plan      layout.Plan
	Metadata  sign.Metadata
}

// WarningKind classifies recoverable problems met while rendering.
type WarningKind int

const (
	// FontFallback means a fragment asked for a family the document does not
	// have and was drawn in the page family.
	FontFallback WarningKind = iota
	// FontUnavailable means the page family could not be registered and the
	// built-in family is used for the whole document.
	FontUnavailable
	// FontIncomplete means some faces of the page family could not be
	// registered; styles without a face use the closest one that was.
	FontIncomplete
)

func (k WarningKind) String() string {
	switch k {
	case FontUnavailable:
		return "font-unavailable"
	case FontIncomplete:
		return "font-incomplete"
	default:
		return "font-fallback"
	}
}

// Warning is a recoverable problem; the document was still produced.
type Warning struct {
	Kind    WarningKind
	Family  string
	Message string
}

// Report describes a rendered document.
type Report struct {
	Pages    int
	Warnings []Warning
}

// Renderer turns fragments and plans into PDF bytes.
type Renderer struct {
	log      *zap.Logger
	filter   ImageFilter
	fonts    *fonts.Loader
	pageSize string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger for warnings.
func WithLogger(log *zap.Logger) Option {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// WithImageFilter replaces the watermark opacity filter.
func WithImageFilter(f ImageFilter) Option {
	return func(r *Renderer) {
		if f != nil {
			r.filter = f
		}
	}
}

// WithFontLoader sets where font families are loaded from.
func WithFontLoader(l *fonts.Loader) Option {
	return func(r *Renderer) {
		r.fonts = l
	}
}

// WithPageSize sets the page size by name: A3, A4, A5, Letter or Legal.
func WithPageSize(size string) Option {
	return func(r *Renderer) {
		if size != "" {
			r.pageSize = size
		}
	}
}

// New returns a Renderer. By default it draws A4 pages, filters watermarks
// with imagefilter and has no font files, so text uses Helvetica.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:      zap.NewNop(),
		filter:   imagefilter.Filter{},
		pageSize: "A4",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render draws in and writes the PDF to w.
func (r *Renderer) Render(w io.Writer, in Input) (Report, error) {
	m := in.Plan.Margins
	pdf := gofpdf.New("P", "pt", r.pageSize, "")
	pdf.SetMargins(m.Left, m.Top, m.Right)
	pdf.SetAutoPageBreak(true, m.Bottom)
	pdf.AliasNbPages(pagesAlias)

	setMetadata(pdf, in.Metadata)

	d := &document{
		pdf:    pdf,
		plan:   in.Plan,
		log:    r.log,
		fonts:  fonts.NewSet(),
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		warned: make(map[string]bool),
	}
	d.family = r.registerFonts(d, in.Page)

	if err := d.prepareImages(r.filter, in.Page.Letterhead); err != nil {
		return d.report, err
	}
	if err := d.prepareStamp(in.Metadata.Signature); err != nil {
		return d.report, err
	}

	pdf.SetHeaderFunc(d.header)
	pdf.SetFooterFunc(d.footer)

	if err := d.body(in.Fragments); err != nil {
		return d.report, err
	}

	if pdf.Err() {
		return d.report, fmt.Errorf("render: %w", pdf.Error())
	}
	d.report.Pages = pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return d.report, fmt.Errorf("render: writing pdf: %w", err)
	}
	return d.report, nil
}

func setMetadata(pdf *gofpdf.Fpdf, meta sign.Metadata) {
	if meta.Title != "" {
		pdf.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(meta.Subject, true)
	}
	if meta.Keywords != "" {
		pdf.SetKeywords(meta.Keywords, false)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created)
	}
	pdf.SetCreator(Creator, false)
}

// registerFonts registers the page family and returns the family body text
// is drawn in. Registration is best effort: a family left without any face
// is replaced by the built-in one.
func (r *Renderer) registerFonts(d *document, page layout.PageConfiguration) string {
	name := page.FontName()

	var (
		faces []fonts.Face
		want  int
	)
	if page.Font == fonts.Custom {
		want = 1
		if len(page.CustomFont) > 0 {
			faces = []fonts.Face{{Variant: fonts.Regular, Data: page.CustomFont}}
		}
	} else {
		want = len(fonts.Variants(page.Font))
		faces = r.fonts.Ensure(page.Font)
	}
	n := d.fonts.Register(d.pdf, name, faces, r.log)

	if !d.fonts.Has(name) {
		d.warn(FontUnavailable, name, "no faces registered, using "+fonts.DefaultFamily)
		return fonts.DefaultFamily
	}
	if n < want {
		d.warn(FontIncomplete, name, fmt.Sprintf("%d of %d faces registered", n, want))
	}
	return name
}
