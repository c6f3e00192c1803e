package pdfcompose_test

import (
	"fmt"
	"time"

	"github.com/lvillar/pdfcompose"
	"github.com/lvillar/pdfcompose/layout"
	"github.com/lvillar/pdfcompose/placeholder"
	"github.com/lvillar/pdfcompose/style"
)

func ExampleComposer_Build() {
	reg := placeholder.NewRegistry()
	reg.Set("{{Customer}}", "Acme Corp", style.Style{Bold: true, Color: style.Named(style.DarkBlue)})
	reg.Set("{{Total}}", "$160.00", style.Style{Size: 14})

	page := layout.DefaultPageConfiguration()
	page.Header.Title = "Invoice #1234"

	c := pdfcompose.New("Acme Corp", "Invoice #1234", "Billing", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	res, err := c.Build(pdfcompose.Request{
		Template: "Bill to: {{Customer}}\nTotal due: {{Total}}\nReference: {{PO}}",
		Registry: reg,
		Page:     page,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("pages:", res.Pages)
	fmt.Println("header:", res.Plan.Header.Variant)
	fmt.Println("unresolved:", res.Unresolved)
	fmt.Println("signature length:", len(res.Metadata.Signature))
	// Output:
	// pages: 1
	// header: title
	// unresolved: [{{PO}}]
	// signature length: 64
}
