// Package job reads document jobs from YAML or JSON files.
//
// A job names the document's author and title, a template (inline or in a
// file), the placeholder values with their styles, and the page setup. Record
// and table sections generate placeholders the same way the schema package
// does. Paths inside a job are relative to the job file.
//
//	author: Acme Corp
//	title: Invoice 1234
//	template: "Bill to: {{Customer}}"
//	values:
//	  - key: Customer
//	    value: John Doe
//	    style: {bold: true, color: dark-blue}
//	page:
//	  margin: 36
//	  header: {title: Invoice, logo: logo.png}
package job

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// Format is the encoding of a job file.
type Format int

const (
	YAML Format = iota
	JSON
)

// FormatOf picks the format from a file extension; anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// File is a decoded job.
type File struct {
	Author       string `yaml:"author" json:"author"`
	Title        string `yaml:"title" json:"title"`
	Subject      string `yaml:"subject" json:"subject"`
	Created      string `yaml:"created" json:"created"` // RFC 3339; empty means build time
	Template     string `yaml:"template" json:"template"`
	TemplateFile string `yaml:"template_file" json:"template_file"`

	Values      []Value        `yaml:"values" json:"values"`
	Record      map[string]any `yaml:"record" json:"record"`
	RecordStyle *Style         `yaml:"record_style" json:"record_style"`
	Table       *Table         `yaml:"table" json:"table"`

	Page Page `yaml:"page" json:"page"`

	// dir resolves relative paths.
	dir string
}

// Value is one placeholder. Key may be given with or without the {{ }}
// markers.
type Value struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
	Style *Style `yaml:"style" json:"style"`
}

// Table is tabular input, inline or from a CSV file whose first line names
// the columns.
type Table struct {
	Columns []string `yaml:"columns" json:"columns"`
	Rows    [][]any  `yaml:"rows" json:"rows"`
	CSV     string   `yaml:"csv" json:"csv"`
	Style   *Style   `yaml:"style" json:"style"`
}

// Style is a text style with colors and families given by name.
type Style struct {
	Bold      bool    `yaml:"bold" json:"bold"`
	Italic    bool    `yaml:"italic" json:"italic"`
	Underline bool    `yaml:"underline" json:"underline"`
	Size      float64 `yaml:"size" json:"size"`
	Color     string  `yaml:"color" json:"color"`
	Hex       string  `yaml:"hex" json:"hex"`
	Family    string  `yaml:"family" json:"family"`
}

// Margins override single sides; unset sides keep the base value.
type Margins struct {
	Top    *float64 `yaml:"top" json:"top"`
	Right  *float64 `yaml:"right" json:"right"`
	Bottom *float64 `yaml:"bottom" json:"bottom"`
	Left   *float64 `yaml:"left" json:"left"`
}

// Header describes the page header.
type Header struct {
	Logo       string `yaml:"logo" json:"logo"`
	LogoAlign  string `yaml:"logo_align" json:"logo_align"`
	Title      string `yaml:"title" json:"title"`
	TitleStyle *Style `yaml:"title_style" json:"title_style"`
}

// Page overrides the base page configuration. Unset fields keep the base.
type Page struct {
	Margin           *float64 `yaml:"margin" json:"margin"`
	Margins          *Margins `yaml:"margins" json:"margins"`
	Watermark        string   `yaml:"watermark" json:"watermark"`
	WatermarkOpacity *int     `yaml:"watermark_opacity" json:"watermark_opacity"`
	Font             string   `yaml:"font" json:"font"`
	CustomFont       string   `yaml:"custom_font" json:"custom_font"`
	CustomFontName   string   `yaml:"custom_font_name" json:"custom_font_name"`
	FooterPagination *bool    `yaml:"footer_pagination" json:"footer_pagination"`
	Letterhead       string   `yaml:"letterhead" json:"letterhead"`
	Stamp            string   `yaml:"stamp" json:"stamp"`
	Header           *Header  `yaml:"header" json:"header"`
}

// Load reads and decodes the job at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	f, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("job: %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Decode parses a job. Unknown fields are errors. Relative paths in the
// result resolve against the working directory unless SetDir is called.
func Decode(data []byte, format Format) (*File, error) {
	f := &File{}
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	default:
		if err := yaml.UnmarshalWithOptions(data, f, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	}
	return f, nil
}

// SetDir sets the directory relative paths resolve against.
func (f *File) SetDir(dir string) {
	f.dir = dir
}

// CreatedTime parses Created. Empty is the zero time.
func (f *File) CreatedTime() (time.Time, error) {
	if strings.TrimSpace(f.Created) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, f.Created)
	if err != nil {
		return time.Time{}, fmt.Errorf("job: created: %w", err)
	}
	return t, nil
}

func (f *File) readFile(name string) ([]byte, error) {
	if !filepath.IsAbs(name) && f.dir != "" {
		name = filepath.Join(f.dir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	return data, nil
}
