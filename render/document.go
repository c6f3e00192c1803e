package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
	pdf417 "github.com/ruudk/golang-pdf417"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/imagefilter"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/style"
)

const (
	pagesAlias = "{nb}"

	minHeaderHeight = 40.0
	headerGap       = 8.0
	ruleWidth       = 1.0
	footerSize      = 9.0
	lineSpacing     = 1.3

	pdf417Columns  = 6
	pdf417Security = 2
	stampModule    = 4

	logoImage      = "header-logo"
	watermarkImage = "page-watermark"
	stampImage     = "signature-stamp"
)

// document is the state of one Render call.
type document struct {
	pdf    *gofpdf.Fpdf
	plan   layout.Plan
	log    *zap.Logger
	fonts  *fonts.Set
	family string
	tr     func(string) string

	logo      *gofpdf.ImageInfoType
	watermark bool

	letterhead    *gofpdi.Importer
	letterheadTpl int

	stamp *gofpdf.ImageInfoType

	report Report
	warned map[string]bool
}

func (d *document) warn(kind WarningKind, family, msg string) {
	key := kind.String() + "/" + family
	if d.warned[key] {
		return
	}
	d.warned[key] = true
	d.log.Warn(msg, zap.String("family", family), zap.Stringer("kind", kind))
	d.report.Warnings = append(d.report.Warnings, Warning{Kind: kind, Family: family, Message: msg})
}

// text converts s for the font it is drawn in; core fonts take cp1252.
func (d *document) text(family, s string) string {
	if d.fonts.UTF8(family) {
		return s
	}
	return d.tr(s)
}

func (d *document) prepareImages(filter ImageFilter, letterhead []byte) error {
	h := d.plan.Header
	if len(h.Logo) > 0 {
		info, err := d.registerImage(logoImage, h.Logo)
		if err != nil {
			return fmt.Errorf("render: header logo: %w", err)
		}
		d.logo = info
	}

	if wm := d.plan.Watermark; wm.Enabled {
		faded, err := filter.AdjustOpacity(wm.Image, wm.Opacity)
		if err != nil {
			return fmt.Errorf("render: watermark: %w", err)
		}
		if _, err := d.registerImage(watermarkImage, faded); err != nil {
			return fmt.Errorf("render: watermark: %w", err)
		}
		d.watermark = true
	}

	if len(letterhead) > 0 {
		if err := d.importLetterhead(letterhead); err != nil {
			return err
		}
	}
	return nil
}

func (d *document) registerImage(name string, data []byte) (*gofpdf.ImageInfoType, error) {
	data, typ, err := imagefilter.Normalize(data)
	if err != nil {
		return nil, err
	}
	info := d.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: typ}, bytes.NewReader(data))
	if d.pdf.Err() {
		return nil, d.pdf.Error()
	}
	return info, nil
}

// importLetterhead imports the first page of a PDF as a template. The
// importer panics on malformed input, which is turned into an error here.
func (d *document) importLetterhead(data []byte) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("render: letterhead: %v", p)
		}
	}()

	imp := gofpdi.NewImporter()
	var rs io.ReadSeeker = bytes.NewReader(data)
	d.letterheadTpl = imp.ImportPageFromStream(d.pdf, &rs, 1, "/MediaBox")
	d.letterhead = imp
	return nil
}

// prepareStamp encodes the signature as a barcode image owned by this
// document.
func (d *document) prepareStamp(signature string) error {
	if signature == "" {
		return nil
	}
	var (
		code barcode.Barcode
		err  error
	)
	switch d.plan.Stamp {
	case layout.StampQR:
		code, err = qr.Encode(signature, qr.M, qr.Auto)
	case layout.StampPDF417:
		code = pdf417.Encode(signature, pdf417Columns, pdf417Security)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("render: stamp: %w", err)
	}

	data, err := encodeBarcode(code)
	if err != nil {
		return fmt.Errorf("render: stamp: %w", err)
	}
	info, err := d.registerImage(stampImage, data)
	if err != nil {
		return fmt.Errorf("render: stamp: %w", err)
	}
	d.stamp = info
	return nil
}

// encodeBarcode scales code up to whole modules and encodes it as an 8-bit
// grayscale PNG.
func encodeBarcode(code barcode.Barcode) ([]byte, error) {
	b := code.Bounds()
	scaled, err := barcode.Scale(code, b.Dx()*stampModule, b.Dy()*stampModule)
	if err != nil {
		return nil, err
	}
	gray := image.NewGray(scaled.Bounds())
	xdraw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, xdraw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// header paints the page background, then the header row. It runs at the
// start of every page, so everything it draws sits behind the body text.
func (d *document) header() {
	pdf := d.pdf
	pageW, pageH := pdf.GetPageSize()
	left, top, right, _ := pdf.GetMargins()

	if d.letterhead != nil {
		d.letterhead.UseImportedTemplate(pdf, d.letterheadTpl, 0, 0, pageW, pageH)
	}
	if d.watermark {
		pdf.ImageOptions(watermarkImage, 0, 0, pageW, pageH, false, gofpdf.ImageOptions{}, 0, "")
	}

	hp := d.plan.Header
	if hp.Empty() {
		pdf.SetXY(left, top)
		return
	}

	title := style.Apply(hp.TitleStyle, style.TitleDefaults(d.family), d.fonts)
	d.noteFallback(title)
	height := math.Max(minHeaderHeight, title.Size*lineSpacing)

	contentW := pageW - left - right
	x := left
	for i, w := range hp.Widths(contentW) {
		region := hp.Regions[i]
		switch region.Kind {
		case layout.RegionLogo:
			d.drawLogo(x, top, w, height, region.Align)
		case layout.RegionTitle:
			if err := d.setStyle(title); err != nil {
				pdf.SetErrorf("%v", err)
				return
			}
			pdf.SetXY(x, top)
			pdf.CellFormat(w, height, d.text(title.Family, hp.Title), "", 0, region.Align+"M", false, 0, "")
		}
		x += w
	}

	y := top + height + headerGap
	if hp.Rule {
		pdf.SetLineWidth(ruleWidth)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Line(left, y, pageW-right, y)
		y += headerGap
	}
	pdf.SetXY(left, y)
}

// drawLogo scales the logo to fit the box, keeping its aspect ratio.
func (d *document) drawLogo(x, y, w, h float64, align string) {
	if d.logo == nil {
		return
	}
	iw, ih := d.logo.Width(), d.logo.Height()
	if iw <= 0 || ih <= 0 {
		return
	}
	scale := math.Min(w/iw, h/ih)
	dw, dh := iw*scale, ih*scale

	switch align {
	case "C":
		x += (w - dw) / 2
	case "R":
		x += w - dw
	}
	y += (h - dh) / 2
	d.pdf.ImageOptions(logoImage, x, y, dw, dh, false, gofpdf.ImageOptions{}, 0, "")
}

func (d *document) footer() {
	pdf := d.pdf
	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()

	if fp := d.plan.Footer; fp.Enabled {
		pdf.SetFont(d.family, d.fonts.Style(d.family, false, false, false), footerSize)
		if pdf.Err() {
			return
		}
		pdf.SetTextColor(0, 0, 0)
		h := math.Max(bottom, footerSize*lineSpacing)
		pdf.SetXY(left, pageH-h)
		label := fp.Label(pdf.PageNo(), pagesAlias)
		pdf.CellFormat(pageW-left-right, h, d.text(d.family, label), "", 0, fp.Align+"M", false, 0, "")
	}

	if d.stamp != nil {
		size := bottom * 0.8
		if size <= 0 || d.stamp.Height() <= 0 {
			return
		}
		w := size * d.stamp.Width() / d.stamp.Height()
		pdf.ImageOptions(stampImage, pageW-right-w, pageH-bottom+(bottom-size)/2, w, size, false, gofpdf.ImageOptions{}, 0, "")
	}
}

func (d *document) body(frags []placeholder.Fragment) error {
	pdf := d.pdf
	pdf.SetFont(d.family, d.fonts.Style(d.family, false, false, false), style.BodySize)
	if pdf.Err() {
		return fmt.Errorf("render: %w", pdf.Error())
	}
	pdf.AddPage()
	if pdf.Err() {
		return fmt.Errorf("render: %w", pdf.Error())
	}

	literal := style.Apply(style.Style{}, style.BodyDefaults(d.family), d.fonts)
	for _, f := range frags {
		attrs := literal
		if f.Styled {
			attrs = style.Apply(f.Style, style.BodyDefaults(d.family), d.fonts)
			d.noteFallback(attrs)
		}
		if err := d.setStyle(attrs); err != nil {
			return err
		}
		pdf.Write(attrs.Size*lineSpacing, d.text(attrs.Family, f.Text))
		if pdf.Err() {
			return fmt.Errorf("render: %w", pdf.Error())
		}
	}
	return nil
}

func (d *document) noteFallback(a style.Attributes) {
	if a.Outcome == style.FamilyFallback {
		d.warn(FontFallback, a.Requested, "font family not registered, using page family")
	}
}

// setStyle selects font and color. A color that does not parse, or a font
// the document rejects, is a render failure.
func (d *document) setStyle(a style.Attributes) error {
	rgb, err := style.ParseHex(a.Color)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	d.pdf.SetFont(a.Family, d.fonts.Style(a.Family, a.Bold, a.Italic, a.Underline), a.Size)
	if d.pdf.Err() {
		return fmt.Errorf("render: %w", d.pdf.Error())
	}
	d.pdf.SetTextColor(rgb.R, rgb.G, rgb.B)
	return nil
}
