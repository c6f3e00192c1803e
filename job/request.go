package job

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lvillar/pdfcompose"
	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/schema"
	"github.com/lvillar/pdfcompose/style"
)

// Style converts s. A nil s is the zero style.
func (s *Style) Style() (style.Style, error) {
	if s == nil {
		return style.Style{}, nil
	}
	out := style.Style{
		Bold:      s.Bold,
		Italic:    s.Italic,
		Underline: s.Underline,
		Size:      s.Size,
		Family:    s.Family,
	}
	if s.Color != "" {
		c, err := style.ParseColor(s.Color)
		if err != nil {
			return style.Style{}, err
		}
		out.Color = style.Named(c)
	}
	if s.Hex != "" {
		out.Color.Hex = s.Hex
	}
	return out, nil
}

// Request turns the job into a build request. Page settings override base.
// Values are applied after record and table placeholders, so a value with
// the same key wins.
func (f *File) Request(base layout.PageConfiguration) (pdfcompose.Request, error) {
	page, err := f.page(base)
	if err != nil {
		return pdfcompose.Request{}, err
	}

	tpl := f.Template
	if f.TemplateFile != "" {
		data, err := f.readFile(f.TemplateFile)
		if err != nil {
			return pdfcompose.Request{}, err
		}
		tpl = string(data)
	}

	reg := placeholder.NewRegistry()

	if len(f.Record) > 0 {
		def, err := f.RecordStyle.Style()
		if err != nil {
			return pdfcompose.Request{}, fmt.Errorf("job: record_style: %w", err)
		}
		reg.Merge(schema.FromRecord(schema.Map(f.Record), def))
	}

	if f.Table != nil {
		tbl, err := f.table()
		if err != nil {
			return pdfcompose.Request{}, err
		}
		def, err := f.Table.Style.Style()
		if err != nil {
			return pdfcompose.Request{}, fmt.Errorf("job: table style: %w", err)
		}
		treg, ttpl := schema.FromTable(tbl, def)
		reg.Merge(treg)
		tpl += ttpl
	}

	for i, v := range f.Values {
		s, err := v.Style.Style()
		if err != nil {
			return pdfcompose.Request{}, fmt.Errorf("job: values[%d]: %w", i, err)
		}
		reg.Set(tokenKey(v.Key), v.Value, s)
	}

	return pdfcompose.Request{Template: tpl, Registry: reg, Page: page}, nil
}

// Build builds the job with a composer for its author and title.
func (f *File) Build(base layout.PageConfiguration, opts ...pdfcompose.Option) (*pdfcompose.Result, error) {
	created, err := f.CreatedTime()
	if err != nil {
		return nil, err
	}
	req, err := f.Request(base)
	if err != nil {
		return nil, err
	}
	return pdfcompose.New(f.Author, f.Title, f.Subject, created, opts...).Build(req)
}

func tokenKey(key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, placeholder.Open) && strings.HasSuffix(key, placeholder.Close) {
		return key
	}
	return placeholder.Token(key)
}

func (f *File) table() (schema.Table, error) {
	t := f.Table
	if t.CSV == "" {
		return schema.Table{Columns: t.Columns, Rows: t.Rows}, nil
	}
	data, err := f.readFile(t.CSV)
	if err != nil {
		return schema.Table{}, err
	}
	tbl, err := schema.TableFromCSV(bytes.NewReader(data))
	if err != nil {
		return schema.Table{}, fmt.Errorf("job: %s: %w", t.CSV, err)
	}
	return tbl, nil
}

func (f *File) page(base layout.PageConfiguration) (layout.PageConfiguration, error) {
	p := f.Page
	page := base

	if p.Margin != nil {
		page.Margins = layout.UniformMargins(*p.Margin)
	}
	if m := p.Margins; m != nil {
		setFloat(&page.Margins.Top, m.Top)
		setFloat(&page.Margins.Right, m.Right)
		setFloat(&page.Margins.Bottom, m.Bottom)
		setFloat(&page.Margins.Left, m.Left)
	}
	if p.WatermarkOpacity != nil {
		page.WatermarkOpacity = *p.WatermarkOpacity
	}
	if p.FooterPagination != nil {
		page.FooterPagination = *p.FooterPagination
	}

	if p.Font != "" {
		fam, err := fonts.ParseFamily(p.Font)
		if err != nil {
			return page, fmt.Errorf("job: page font: %w", err)
		}
		page.Font = fam
	}
	if p.CustomFontName != "" {
		page.CustomFontName = p.CustomFontName
	}
	if p.Stamp != "" {
		k, err := layout.ParseStampKind(p.Stamp)
		if err != nil {
			return page, fmt.Errorf("job: page stamp: %w", err)
		}
		page.Stamp = k
	}

	for _, asset := range []struct {
		path string
		dst  *[]byte
	}{
		{p.Watermark, &page.Watermark},
		{p.CustomFont, &page.CustomFont},
		{p.Letterhead, &page.Letterhead},
	} {
		if asset.path == "" {
			continue
		}
		data, err := f.readFile(asset.path)
		if err != nil {
			return page, err
		}
		*asset.dst = data
	}
	if len(page.CustomFont) > 0 && p.Font == "" {
		page.Font = fonts.Custom
	}

	if h := p.Header; h != nil {
		if err := f.header(&page.Header, h); err != nil {
			return page, err
		}
	}
	return page, nil
}

func (f *File) header(dst *layout.HeaderComposition, h *Header) error {
	if h.Title != "" {
		dst.Title = h.Title
	}
	if h.LogoAlign != "" {
		a, err := layout.ParseLogoAlignment(h.LogoAlign)
		if err != nil {
			return fmt.Errorf("job: header: %w", err)
		}
		dst.LogoAlign = a
	}
	if h.TitleStyle != nil {
		s, err := h.TitleStyle.Style()
		if err != nil {
			return fmt.Errorf("job: header title_style: %w", err)
		}
		dst.TitleStyle = s
	}
	if h.Logo != "" {
		data, err := f.readFile(h.Logo)
		if err != nil {
			return err
		}
		dst.Logo = data
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
