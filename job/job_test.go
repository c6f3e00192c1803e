package job

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/style"
)

const invoiceYAML = `
author: Acme Corp
title: Invoice 1234
subject: Billing
created: "2024-01-15T10:00:00Z"
template: "Bill to: {{Customer}}\nTotal: {{total}}\n"
values:
  - key: Customer
    value: John Doe
    style: {bold: true, color: dark-blue}
  - key: "{{Total}}"
    value: "$160.00"
    style: {size: 14, hex: "#AA0000"}
page:
  margin: 36
  margins: {left: 50}
  footer_pagination: false
  font: comic-neue
  stamp: qr
  header:
    title: Invoice
    logo_align: right
    title_style: {bold: true, size: 18}
`

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecodeYAML(t *testing.T) {
	f, err := Decode([]byte(invoiceYAML), YAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if f.Author != "Acme Corp" || len(f.Values) != 2 {
		t.Fatalf("file = %+v", f)
	}
	created, err := f.CreatedTime()
	if err != nil || created.Year() != 2024 {
		t.Fatalf("created = %v, %v", created, err)
	}

	req, err := f.Request(layout.DefaultPageConfiguration())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	p := req.Page
	if p.Margins != (layout.Margins{Top: 36, Right: 36, Bottom: 36, Left: 50}) {
		t.Errorf("margins = %+v", p.Margins)
	}
	if p.FooterPagination || p.Font != fonts.ComicNeue || p.Stamp != layout.StampQR {
		t.Errorf("page = %+v", p)
	}
	if p.Header.Title != "Invoice" || p.Header.LogoAlign != layout.LogoRight || p.Header.TitleStyle.Size != 18 {
		t.Errorf("header = %+v", p.Header)
	}

	e, ok := req.Registry.Lookup("{{customer}}")
	if !ok || e.Value != "John Doe" || !e.Style.Bold || e.Style.Color.Name != style.DarkBlue {
		t.Errorf("customer = %+v, %v", e, ok)
	}
	e, ok = req.Registry.Lookup("{{TOTAL}}")
	if !ok || style.ResolveColor(e.Style) != "#AA0000" || e.Style.Size != 14 {
		t.Errorf("total = %+v, %v", e, ok)
	}
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`{
		"title": "Report",
		"template": "{{A}} and {{B}}",
		"values": [{"key": "A", "value": "1"}, {"key": "b", "value": "2", "style": {"italic": true}}],
		"page": {"watermark_opacity": 60}
	}`)
	f, err := Decode(data, JSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	req, err := f.Request(layout.DefaultPageConfiguration())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Page.WatermarkOpacity != 60 || req.Registry.Len() != 2 {
		t.Fatalf("request = %+v", req)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	if _, err := Decode([]byte("titel: typo\n"), YAML); err == nil {
		t.Error("yaml: expected error")
	}
	if _, err := Decode([]byte(`{"titel": "typo"}`), JSON); err == nil {
		t.Error("json: expected error")
	}
}

func TestRequestErrors(t *testing.T) {
	for name, src := range map[string]string{
		"color":      "values: [{key: a, value: b, style: {color: mauve}}]",
		"font":       "page: {font: papyrus}",
		"stamp":      "page: {stamp: aztec}",
		"align":      "page: {header: {logo_align: middle}}",
		"asset":      "page: {watermark: missing.png}",
		"template":   "template_file: missing.txt",
		"csv":        "table: {csv: missing.csv}",
		"title font": "page: {header: {title_style: {color: nope}}}",
	} {
		t.Run(name, func(t *testing.T) {
			f, err := Decode([]byte(src), YAML)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			f.SetDir(t.TempDir())
			if _, err := f.Request(layout.DefaultPageConfiguration()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "body.txt", []byte("Dear {{Name}},"))
	writeFile(t, dir, "logo.png", pngBytes(t))
	writeFile(t, dir, "brand.ttf", []byte("not really a font"))
	path := writeFile(t, dir, "job.yaml", []byte(`
title: Letter
template_file: body.txt
record: {Name: Grace}
page:
  custom_font: brand.ttf
  custom_font_name: Brand
  header: {logo: logo.png}
`))

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	req, err := f.Request(layout.DefaultPageConfiguration())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Template != "Dear {{Name}}," {
		t.Errorf("template = %q", req.Template)
	}
	if e, ok := req.Registry.Lookup("{{name}}"); !ok || e.Value != "Grace" {
		t.Errorf("record value = %+v", e)
	}
	if len(req.Page.Header.Logo) == 0 || req.Page.Font != fonts.Custom || req.Page.FontName() != "brand" {
		t.Errorf("page = %+v", req.Page)
	}
}

func TestTableFromCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.csv", []byte("Item,Qty\nWidget,10\nGadget,3\n"))
	path := writeFile(t, dir, "job.json", []byte(`{"title": "Stock", "table": {"csv": "items.csv", "style": {"bold": true}}}`))

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	req, err := f.Request(layout.DefaultPageConfiguration())
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if req.Registry.Len() != 4 {
		t.Fatalf("registry len = %d", req.Registry.Len())
	}
	if e, _ := req.Registry.Lookup("{{Qty_1}}"); e.Value != "3" || !e.Style.Bold {
		t.Fatalf("Qty_1 = %+v", e)
	}
	want := "Item | Qty | \n--------------------\n{{Item_0}} | {{Qty_0}} | \n{{Item_1}} | {{Qty_1}} | \n"
	if req.Template != want {
		t.Fatalf("template = %q", req.Template)
	}
}

func TestBuild(t *testing.T) {
	f, err := Decode([]byte(invoiceYAML), YAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	res, err := f.Build(layout.DefaultPageConfiguration())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	if res.Metadata.Author != "Acme Corp" || res.Metadata.Subject != "Billing" {
		t.Fatalf("metadata = %+v", res.Metadata)
	}
}

func TestFormatOf(t *testing.T) {
	if FormatOf("a/job.JSON") != JSON || FormatOf("job.yml") != YAML || FormatOf("job") != YAML {
		t.Fatal("FormatOf")
	}
}
