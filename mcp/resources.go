package mcp

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/style"
)

// RegisterDefaultResources adds the built-in reference resources to the
// server. Resources use the pdfcompose:// scheme.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "pdfcompose://colors",
		Name:        "Named Colors",
		Description: "Color names accepted in styles and the hex value each maps to.",
		MIMEType:    "application/json",
		Handler:     handleColorsResource,
	})

	s.AddResource(Resource{
		URI:         "pdfcompose://fonts",
		Name:        "Font Families",
		Description: "Page font families and the variants each provides.",
		MIMEType:    "application/json",
		Handler:     handleFontsResource,
	})

	s.AddResource(Resource{
		URI:         "pdfcompose://defaults",
		Name:        "Page Defaults",
		Description: "Default page configuration: margins, watermark opacity, font, pagination and header title style.",
		MIMEType:    "application/json",
		Handler:     handleDefaultsResource,
	})
}

func handleColorsResource(uri string) ([]ResourceContent, error) {
	colors := make([]map[string]interface{}, 0)
	for _, c := range style.Colors() {
		colors = append(colors, map[string]interface{}{
			"name": c.String(),
			"hex":  style.Named(c).Resolve(),
		})
	}
	return jsonContent(uri, map[string]interface{}{"colors": colors})
}

func handleFontsResource(uri string) ([]ResourceContent, error) {
	families := make([]map[string]interface{}, 0)
	for _, f := range fonts.Families() {
		variants := make([]string, 0)
		for _, v := range fonts.Variants(f) {
			variants = append(variants, v.String())
		}
		families = append(families, map[string]interface{}{
			"name":     f.String(),
			"variants": variants,
		})
	}
	return jsonContent(uri, map[string]interface{}{
		"families": families,
		"fallback": fonts.DefaultFamily,
		"custom":   layout.DefaultCustomFontName,
	})
}

func handleDefaultsResource(uri string) ([]ResourceContent, error) {
	c := layout.DefaultPageConfiguration()
	ts := c.Header.TitleStyle
	return jsonContent(uri, map[string]interface{}{
		"margins": map[string]float64{
			"top":    c.Margins.Top,
			"right":  c.Margins.Right,
			"bottom": c.Margins.Bottom,
			"left":   c.Margins.Left,
		},
		"watermarkOpacity": c.WatermarkOpacity,
		"font":             c.Font.String(),
		"footerPagination": c.FooterPagination,
		"logoAlign":        c.Header.LogoAlign.String(),
		"titleStyle": map[string]interface{}{
			"bold": ts.Bold,
			"size": ts.Size,
		},
		"bodySize":  style.BodySize,
		"titleSize": style.TitleSize,
	})
}

func jsonContent(uri string, v interface{}) ([]ResourceContent, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}
