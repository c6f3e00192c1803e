package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	pdf417 "github.com/ruudk/golang-pdf417"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/sign"
	"github.com/lvillar/pdfcompose/style"
)

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 30, G: 90, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func input(template string, reg *placeholder.Registry, page layout.PageConfiguration) Input {
	return Input{
		Fragments: placeholder.Resolve(placeholder.Tokenize(template), reg),
		Page:      page,
		Plan:      layout.PlanPage(page),
		Metadata: sign.Signer{Nonce: func() string { return "n" }}.NewMetadata(
			"Ada", "Report", "Tests", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func render(t *testing.T, r *Renderer, in Input) ([]byte, Report) {
	t.Helper()
	var buf bytes.Buffer
	rep, err := r.Render(&buf, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatal("output does not start with %PDF header")
	}
	return buf.Bytes(), rep
}

func TestRenderMinimalDocument(t *testing.T) {
	reg := placeholder.NewRegistry()
	reg.Set("{{Name}}", "World", style.Style{Bold: true})

	_, rep := render(t, New(), input("Hello, {{Name}}!", reg, layout.DefaultPageConfiguration()))
	if rep.Pages != 1 {
		t.Fatalf("pages = %d, want 1", rep.Pages)
	}
}

func TestRenderEmbedsSignatureKeywords(t *testing.T) {
	in := input("Body", nil, layout.DefaultPageConfiguration())
	out, _ := render(t, New(), in)
	if !bytes.Contains(out, []byte(in.Metadata.Keywords)) {
		t.Fatalf("output does not contain %q", in.Metadata.Keywords)
	}
}

func TestRenderMissingFontFallsBack(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	_, rep := render(t, New(), input("text", nil, page))

	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != FontUnavailable {
		t.Fatalf("warnings = %+v", rep.Warnings)
	}
	if rep.Warnings[0].Family != "liberationsans" {
		t.Fatalf("family = %q", rep.Warnings[0].Family)
	}
}

func TestRenderFragmentFamilyFallbackWarnsOnce(t *testing.T) {
	reg := placeholder.NewRegistry()
	reg.Set("{{A}}", "a", style.Style{Family: "Comic Sans"})
	reg.Set("{{B}}", "b", style.Style{Family: "comic sans"})
	reg.Set("{{C}}", "c", style.Style{Family: "Courier"})

	_, rep := render(t, New(), input("{{A}} {{B}} {{C}}", reg, layout.DefaultPageConfiguration()))

	var fallbacks []string
	for _, w := range rep.Warnings {
		if w.Kind == FontFallback {
			fallbacks = append(fallbacks, w.Family)
		}
	}
	if len(fallbacks) != 2 {
		t.Fatalf("fallback warnings = %v", fallbacks)
	}
}

func TestRenderAllStyleCombinations(t *testing.T) {
	reg := placeholder.NewRegistry()
	var tpl strings.Builder
	for i := 0; i < 8; i++ {
		key := placeholder.Token(string(rune('A' + i)))
		reg.Set(key, "x", style.Style{
			Bold:      i&1 != 0,
			Italic:    i&2 != 0,
			Underline: i&4 != 0,
			Color:     style.Named(style.Color(i)),
		})
		tpl.WriteString(key)
	}
	render(t, New(), input(tpl.String(), reg, layout.DefaultPageConfiguration()))
}

func TestRenderInvalidHexFails(t *testing.T) {
	reg := placeholder.NewRegistry()
	reg.Set("{{X}}", "x", style.Style{Color: style.CustomHex("#GGHHII")})

	var buf bytes.Buffer
	if _, err := New().Render(&buf, input("{{X}}", reg, layout.DefaultPageConfiguration())); err == nil {
		t.Fatal("expected error for invalid hex color")
	}
}

func TestRenderHeaderVariants(t *testing.T) {
	logo := testImage(t)
	for _, h := range []layout.HeaderComposition{
		{Title: "Quarterly", TitleStyle: style.Style{Bold: true, Size: 20}},
		{Logo: logo},
		{Logo: logo, Title: "Quarterly", LogoAlign: layout.LogoLeft},
		{Logo: logo, Title: "Quarterly", LogoAlign: layout.LogoRight},
	} {
		page := layout.DefaultPageConfiguration()
		page.Header = h
		render(t, New(), input("Body", nil, page))
	}
}

func TestRenderBadLogo(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Header = layout.HeaderComposition{Logo: []byte("nope")}
	var buf bytes.Buffer
	if _, err := New().Render(&buf, input("Body", nil, page)); err == nil {
		t.Fatal("expected error for undecodable logo")
	}
}

type recordingFilter struct {
	percent int
	err     error
}

func (f *recordingFilter) AdjustOpacity(data []byte, percent int) ([]byte, error) {
	f.percent = percent
	return data, f.err
}

func TestRenderWatermarkUsesFilter(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Watermark = testImage(t)
	page.WatermarkOpacity = 45

	f := &recordingFilter{}
	render(t, New(WithImageFilter(f)), input("Body", nil, page))
	if f.percent != 45 {
		t.Fatalf("filter opacity = %d, want 45", f.percent)
	}

	f.err = errors.New("boom")
	var buf bytes.Buffer
	_, err := New(WithImageFilter(f)).Render(&buf, input("Body", nil, page))
	if err == nil || !strings.Contains(err.Error(), "watermark") {
		t.Fatalf("err = %v", err)
	}
}

func TestRenderDefaultWatermarkFilter(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Watermark = testImage(t)
	render(t, New(), input("Body", nil, page))
}

func TestRenderPagination(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Header.Title = "Long"
	_, rep := render(t, New(), input(strings.Repeat("line of body text\n", 200), nil, page))
	if rep.Pages < 2 {
		t.Fatalf("pages = %d, want several", rep.Pages)
	}

	page.FooterPagination = false
	render(t, New(), input("Body", nil, page))
}

func TestRenderStamps(t *testing.T) {
	for _, kind := range []layout.StampKind{layout.StampQR, layout.StampPDF417} {
		page := layout.DefaultPageConfiguration()
		page.Stamp = kind
		out, _ := render(t, New(), input("Body", nil, page))
		if !bytes.Contains(out, []byte("/Subtype /Image")) {
			t.Errorf("%v: no stamp image in output", kind)
		}
	}
}

func TestEncodeBarcodeIsEightBitGray(t *testing.T) {
	signature := strings.Repeat("ab", 32)
	q, err := qr.Encode(signature, qr.M, qr.Auto)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}

	for name, code := range map[string]barcode.Barcode{
		"qr":     q,
		"pdf417": pdf417.Encode(signature, pdf417Columns, pdf417Security),
	} {
		data, err := encodeBarcode(code)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if cfg.ColorModel != color.GrayModel {
			t.Errorf("%s: color model is not 8-bit gray", name)
		}
		b := code.Bounds()
		if cfg.Width != b.Dx()*stampModule || cfg.Height != b.Dy()*stampModule {
			t.Errorf("%s: %dx%d, want %dx%d", name, cfg.Width, cfg.Height, b.Dx()*stampModule, b.Dy()*stampModule)
		}
	}
}

func TestRenderLetterhead(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Header.Title = "Letterhead"
	letterhead, _ := render(t, New(), input(" ", nil, page))

	page = layout.DefaultPageConfiguration()
	page.Letterhead = letterhead
	render(t, New(), input("On company paper", nil, page))

	page.Letterhead = []byte("%PDF-garbage")
	var buf bytes.Buffer
	if _, err := New().Render(&buf, input("x", nil, page)); err == nil {
		t.Fatal("expected error for malformed letterhead")
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := New(WithPageSize("Letter"))
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			if _, err := r.Render(&buf, input("concurrent", nil, layout.DefaultPageConfiguration())); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func fontLoader(files map[string][]byte) *fonts.Loader {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return fonts.NewLoader(fsys, nil)
}

func warningsOf(rep Report, kind WarningKind) []Warning {
	var out []Warning
	for _, w := range rep.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func styledInput(page layout.PageConfiguration) Input {
	reg := placeholder.NewRegistry()
	reg.Set("{{B}}", "bold", style.Style{Bold: true})
	reg.Set("{{I}}", "italic", style.Style{Italic: true, Underline: true})
	reg.Set("{{BI}}", "both", style.Style{Bold: true, Italic: true})
	return input("plain literal text {{B}} {{I}} {{BI}}", reg, page)
}

func TestRenderFamilyWithoutRegularFace(t *testing.T) {
	loader := fontLoader(map[string][]byte{
		fonts.FilePath(fonts.LiberationSans, fonts.Bold): gobold.TTF,
	})
	page := layout.DefaultPageConfiguration()
	page.Header.Title = "Bold only"

	_, rep := render(t, New(WithFontLoader(loader)), styledInput(page))

	if got := warningsOf(rep, FontUnavailable); len(got) != 0 {
		t.Fatalf("family with a face reported unavailable: %+v", got)
	}
	got := warningsOf(rep, FontIncomplete)
	if len(got) != 1 || got[0].Family != "liberationsans" {
		t.Fatalf("incomplete warnings = %+v", rep.Warnings)
	}
}

func TestRenderPartialFamily(t *testing.T) {
	loader := fontLoader(map[string][]byte{
		fonts.FilePath(fonts.LiberationSans, fonts.Regular): goregular.TTF,
		fonts.FilePath(fonts.LiberationSans, fonts.Italic):  goitalic.TTF,
		fonts.FilePath(fonts.LiberationSans, fonts.Bold):    []byte("not a font"),
	})

	_, rep := render(t, New(WithFontLoader(loader)), styledInput(layout.DefaultPageConfiguration()))

	got := warningsOf(rep, FontIncomplete)
	if len(got) != 1 || !strings.Contains(got[0].Message, "2 of 4") {
		t.Fatalf("warnings = %+v", rep.Warnings)
	}
}

func TestRenderCustomFont(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Font = fonts.Custom
	page.CustomFontName = "Brand"
	page.CustomFont = goregular.TTF

	_, rep := render(t, New(), styledInput(page))
	if len(rep.Warnings) != 0 {
		t.Fatalf("warnings = %+v", rep.Warnings)
	}
}

func TestRenderInvalidCustomFont(t *testing.T) {
	page := layout.DefaultPageConfiguration()
	page.Font = fonts.Custom
	page.CustomFontName = "Brand"
	page.CustomFont = []byte("this is not a truetype file, just some text")

	stdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	_, rep := render(t, New(), styledInput(page))
	w.Close()
	printed, _ := io.ReadAll(r)

	if len(printed) != 0 {
		t.Errorf("rendering wrote to stdout: %q", printed)
	}
	got := warningsOf(rep, FontUnavailable)
	if len(got) != 1 || got[0].Family != "brand" {
		t.Fatalf("warnings = %+v", rep.Warnings)
	}
}

func TestRenderSixteenBitLogo(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA64(x, y, color.RGBA64{R: 0xFFFF, G: 0x8000, A: 0xFFFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}

	page := layout.DefaultPageConfiguration()
	page.Header = layout.HeaderComposition{Logo: buf.Bytes(), Title: "Deep color"}
	render(t, New(), input("Body", nil, page))
}
