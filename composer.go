// Package pdfcompose builds PDF documents from text templates with {{...}}
// placeholders.
//
// A template is split into literal text and placeholder tokens, each token is
// looked up in a case-insensitive registry of values and styles, and the
// resulting fragments are drawn under a planned header, footer and watermark.
// Every build carries a fresh signature in its metadata keywords.
//
//	reg := placeholder.NewRegistry()
//	reg.Set("{{Name}}", "Ada", style.Style{Bold: true})
//
//	c := pdfcompose.New("Ada", "Greeting", "", time.Now())
//	pdf, err := c.Generate("Hello, {{Name}}!", reg, layout.DefaultPageConfiguration())
//
// Composers are safe for concurrent use.
package pdfcompose

import (
	"bytes"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/render"
	"github.com/lvillar/pdfcompose/schema"
	"github.com/lvillar/pdfcompose/sign"
	"github.com/lvillar/pdfcompose/style"
)

// Request describes one document. Fragments, when present, are drawn as
// given and Template is ignored.
type Request struct {
	Template  string
	Registry  *placeholder.Registry
	Fragments []placeholder.Fragment
	Page      layout.PageConfiguration
}

// Result is a built document.
type Result struct {
	PDF      []byte
	Metadata sign.Metadata
	Plan     layout.Plan
	Warnings []render.Warning
	Pages    int

	// Unresolved lists placeholder tokens that had no registry entry and
	// were drawn verbatim.
	Unresolved []string
}

// Composer builds documents for one author and title.
type Composer struct {
	author  string
	title   string
	subject string
	created time.Time

	log      *zap.Logger
	signer   sign.Signer
	renderer *render.Renderer
}

// New returns a Composer. A zero created time means the time of each build.
func New(author, title, subject string, created time.Time, opts ...Option) *Composer {
	cfg := &composerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.log
	if log == nil {
		log = zap.NewNop()
	}
	return &Composer{
		author:  author,
		title:   title,
		subject: subject,
		created: created,
		log:     log,
		signer:  cfg.signer,
		renderer: render.New(
			render.WithLogger(log),
			render.WithImageFilter(cfg.filter),
			render.WithFontLoader(cfg.fonts),
			render.WithPageSize(cfg.pageSize),
		),
	}
}

// Build resolves, plans, signs and renders req.
func (c *Composer) Build(req Request) (*Result, error) {
	frags := req.Fragments
	if len(frags) == 0 {
		if req.Template == "" {
			return nil, newComposeError("Build", ErrEmptyContent)
		}
		frags = placeholder.Resolve(placeholder.Tokenize(req.Template), req.Registry)
	}
	if err := validatePage(req.Page); err != nil {
		return nil, newComposeError("Build", err)
	}

	unresolved := placeholder.Unresolved(frags)
	if len(unresolved) > 0 {
		c.log.Debug("placeholders without values", zap.Strings("tokens", unresolved))
	}

	created := c.created
	if created.IsZero() {
		created = time.Now()
	}
	meta := c.signer.NewMetadata(c.author, c.title, c.subject, created)
	plan := layout.PlanPage(req.Page)

	var buf bytes.Buffer
	rep, err := c.renderer.Render(&buf, render.Input{
		Fragments: frags,
		Page:      req.Page,
		Plan:      plan,
		Metadata:  meta,
	})
	if err != nil {
		return nil, newComposeError("Render", err)
	}

	return &Result{
		PDF:        buf.Bytes(),
		Metadata:   meta,
		Plan:       plan,
		Warnings:   rep.Warnings,
		Pages:      rep.Pages,
		Unresolved: unresolved,
	}, nil
}

func validatePage(p layout.PageConfiguration) error {
	m := p.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return fmt.Errorf("%w: negative margin %+v", ErrInvalidPage, m)
	}
	return nil
}

// Generate renders template with values from reg and returns the PDF bytes.
func (c *Composer) Generate(template string, reg *placeholder.Registry, page layout.PageConfiguration) ([]byte, error) {
	res, err := c.Build(Request{Template: template, Registry: reg, Page: page})
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// GenerateRecord renders template with one {{Field}} placeholder per field of
// rec, all drawn in def.
func (c *Composer) GenerateRecord(template string, rec schema.Record, page layout.PageConfiguration, def style.Style) ([]byte, error) {
	return c.Generate(template, schema.FromRecord(rec, def), page)
}

// GenerateTable renders tbl as a text table with a header line, a dash line
// and one line per row.
func (c *Composer) GenerateTable(tbl schema.Table, page layout.PageConfiguration, def style.Style) ([]byte, error) {
	reg, tpl := schema.FromTable(tbl, def)
	return c.Generate(tpl, reg, page)
}
