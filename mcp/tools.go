package mcp

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/lvillar/pdfcompose"
	"github.com/lvillar/pdfcompose/job"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/schema"
	"github.com/lvillar/pdfcompose/style"
)

// Toolkit is what the document tools build with.
type Toolkit struct {
	// Page is the configuration job pages override.
	Page layout.PageConfiguration
	// Options configure every composer the tools create.
	Options []pdfcompose.Option
}

// DefaultToolkit builds with the default page configuration.
func DefaultToolkit() Toolkit {
	return Toolkit{Page: layout.DefaultPageConfiguration()}
}

// RegisterDefaultTools adds all built-in composition tools to the server.
func RegisterDefaultTools(s *Server, kit Toolkit) {
	s.AddTool(composePDFTool(kit))
	s.AddTool(composeTablePDFTool(kit))
	s.AddTool(tokenizeTemplateTool())
	s.AddTool(planPageTool(kit))
}

func composePDFTool(kit Toolkit) Tool {
	return Tool{
		Name:        "compose_pdf",
		Description: "Compose a PDF from a text template with {{Placeholder}} tokens. The job gives author, title, template, values with styles (bold, italic, underline, size, color name or hex, family) and page setup (margins, header title/logo, watermark, font, footer pagination, stamp). Returns the PDF as base64.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"job": map[string]interface{}{
					"type":        "object",
					"description": "Job with author, title, subject, template, values [{key, value, style}], record, table and page",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"job"},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return handleComposePDF(kit, args)
		},
	}
}

func handleComposePDF(kit Toolkit, args map[string]interface{}) (ToolResult, error) {
	jobData, ok := args["job"]
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'job' argument")
	}

	jsonBytes, err := json.Marshal(jobData)
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding job: %w", err)
	}
	f, err := job.Decode(jsonBytes, job.JSON)
	if err != nil {
		return ToolResult{}, err
	}

	res, err := f.Build(kit.Page, kit.Options...)
	if err != nil {
		return ToolResult{}, fmt.Errorf("composing PDF: %w", err)
	}
	return pdfResult(res, args)
}

func composeTablePDFTool(kit Toolkit) Tool {
	return Tool{
		Name:        "compose_table_pdf",
		Description: "Compose a PDF listing tabular data: a header line of column names, a dash line, then one line per row. Give columns and rows, or CSV text whose first line names the columns.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Document title, also used as the header title",
				},
				"author": map[string]interface{}{
					"type":        "string",
					"description": "Document author",
				},
				"columns": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Column names",
				},
				"rows": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "array"},
					"description": "Row values in column order",
				},
				"csv": map[string]interface{}{
					"type":        "string",
					"description": "CSV text used instead of columns and rows",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return handleComposeTablePDF(kit, args)
		},
	}
}

func handleComposeTablePDF(kit Toolkit, args map[string]interface{}) (ToolResult, error) {
	var tbl schema.Table
	if csvText, ok := args["csv"].(string); ok && csvText != "" {
		t, err := schema.TableFromCSV(strings.NewReader(csvText))
		if err != nil {
			return ToolResult{}, err
		}
		tbl = t
	} else {
		cols, _ := args["columns"].([]interface{})
		for _, c := range cols {
			tbl.Columns = append(tbl.Columns, schema.Stringify(c))
		}
		rows, _ := args["rows"].([]interface{})
		for i, r := range rows {
			row, ok := r.([]interface{})
			if !ok {
				return ToolResult{}, fmt.Errorf("rows[%d] is not an array", i)
			}
			tbl.Rows = append(tbl.Rows, row)
		}
	}
	if len(tbl.Columns) == 0 {
		return ToolResult{}, fmt.Errorf("missing 'columns' or 'csv' argument")
	}

	title, _ := args["title"].(string)
	author, _ := args["author"].(string)

	page := kit.Page
	if title != "" {
		page.Header.Title = title
	}
	reg, tpl := schema.FromTable(tbl, style.Style{})
	res, err := pdfcompose.New(author, title, "", time.Time{}, kit.Options...).Build(pdfcompose.Request{
		Template: tpl,
		Registry: reg,
		Page:     page,
	})
	if err != nil {
		return ToolResult{}, fmt.Errorf("composing PDF: %w", err)
	}
	return pdfResult(res, args)
}

// pdfResult saves the PDF to outputPath when given, or returns it as base64.
func pdfResult(res *pdfcompose.Result, args map[string]interface{}) (ToolResult, error) {
	summary := summarize(res)

	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, res.PDF, 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{
			Content: []ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf("PDF created successfully: %s (%d bytes)\n%s", outputPath, len(res.PDF), summary),
			}},
		}, nil
	}

	encoded := base64.StdEncoding.EncodeToString(res.PDF)
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("PDF created successfully (%d bytes)\n%s\nBase64 data:\n%s", len(res.PDF), summary, encoded),
		}},
	}, nil
}

func summarize(res *pdfcompose.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pages: %d\nSignature: %s", res.Pages, res.Metadata.Signature)
	if len(res.Unresolved) > 0 {
		fmt.Fprintf(&b, "\nUnresolved placeholders: %s", strings.Join(res.Unresolved, ", "))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "\nWarning (%s): %s: %s", w.Kind, w.Family, w.Message)
	}
	return b.String()
}

func tokenizeTemplateTool() Tool {
	return Tool{
		Name:        "tokenize_template",
		Description: "Split a template into literal text and {{Placeholder}} tokens. Returns the parts in order and the placeholder keys in template order, repeats included.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"template": map[string]interface{}{
					"type":        "string",
					"description": "Template text",
				},
			},
			"required": []string{"template"},
		},
		Handler: handleTokenizeTemplate,
	}
}

type partJSON struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

func handleTokenizeTemplate(args map[string]interface{}) (ToolResult, error) {
	tpl, ok := args["template"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'template' argument")
	}

	parts := placeholder.Tokenize(tpl)
	out := struct {
		Parts []partJSON `json:"parts"`
		Keys  []string   `json:"keys"`
	}{
		Parts: make([]partJSON, 0, len(parts)),
		Keys:  placeholder.Keys(parts),
	}
	for _, p := range parts {
		out.Parts = append(out.Parts, partJSON{Kind: p.Kind.String(), Text: p.Text})
	}
	return jsonResult(out)
}

func planPageTool(kit Toolkit) Tool {
	return Tool{
		Name:        "plan_page",
		Description: "Show how a page configuration will be composed: header variant and region order with weights and alignment, rule line, footer label, watermark opacity and stamp.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"page": map[string]interface{}{
					"type":        "object",
					"description": "Page setup as in compose_pdf jobs",
				},
			},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return handlePlanPage(kit, args)
		},
	}
}

type regionJSON struct {
	Kind   string `json:"kind"`
	Weight int    `json:"weight"`
	Align  string `json:"align"`
}

type planJSON struct {
	Margins layout.Margins `json:"margins"`
	Header  struct {
		Variant string       `json:"variant"`
		Regions []regionJSON `json:"regions"`
		Title   string       `json:"title,omitempty"`
		Rule    bool         `json:"rule"`
	} `json:"header"`
	Footer struct {
		Enabled bool   `json:"enabled"`
		Sample  string `json:"sample,omitempty"`
	} `json:"footer"`
	Watermark struct {
		Enabled bool `json:"enabled"`
		Opacity int  `json:"opacity"`
	} `json:"watermark"`
	Stamp string `json:"stamp"`
}

func handlePlanPage(kit Toolkit, args map[string]interface{}) (ToolResult, error) {
	f := &job.File{}
	if pageData, ok := args["page"]; ok {
		jsonBytes, err := json.Marshal(map[string]interface{}{"page": pageData})
		if err != nil {
			return ToolResult{}, fmt.Errorf("encoding page: %w", err)
		}
		if f, err = job.Decode(jsonBytes, job.JSON); err != nil {
			return ToolResult{}, err
		}
	}
	req, err := f.Request(kit.Page)
	if err != nil {
		return ToolResult{}, err
	}
	plan := layout.PlanPage(req.Page)

	var out planJSON
	out.Margins = plan.Margins
	out.Header.Variant = plan.Header.Variant.String()
	out.Header.Title = plan.Header.Title
	out.Header.Rule = plan.Header.Rule
	out.Header.Regions = make([]regionJSON, 0, len(plan.Header.Regions))
	for _, r := range plan.Header.Regions {
		out.Header.Regions = append(out.Header.Regions, regionJSON{Kind: r.Kind.String(), Weight: r.Weight, Align: r.Align})
	}
	out.Footer.Enabled = plan.Footer.Enabled
	if plan.Footer.Enabled {
		out.Footer.Sample = plan.Footer.Label(1, "3")
	}
	out.Watermark.Enabled = plan.Watermark.Enabled
	out.Watermark.Opacity = plan.Watermark.Opacity
	out.Stamp = plan.Stamp.String()
	return jsonResult(out)
}

func jsonResult(v interface{}) (ToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding result: %w", err)
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}
