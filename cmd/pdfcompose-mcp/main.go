// Command pdfcompose-mcp is an MCP (Model Context Protocol) server that
// exposes template composition to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/pdfcompose/cmd/pdfcompose-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "pdfcompose": {
//	      "command": "pdfcompose-mcp",
//	      "env": {"PDFCOMPOSE_FONT_DIR": "/usr/share/pdfcompose/fonts"}
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - compose_pdf: Compose a PDF from a template job
//   - compose_table_pdf: Compose a PDF listing tabular data
//   - tokenize_template: Split a template into literals and placeholders
//   - plan_page: Show the header, footer and watermark plan of a page setup
//
// # Available Resources
//
//   - pdfcompose://colors : Named colors and their hex values
//   - pdfcompose://fonts : Font families and variants
//   - pdfcompose://defaults : Default page configuration
//
// Settings come from PDFCOMPOSE_* environment variables; logs go to stderr.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lvillar/pdfcompose"
	"github.com/lvillar/pdfcompose/internal/config"
	"github.com/lvillar/pdfcompose/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfcompose-mcp: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfcompose-mcp: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting mcp server",
		zap.String("version", mcp.Version),
		zap.String("config", cfg.String()),
	)

	server := mcp.NewServer()
	server.SetLogger(logger)

	mcp.RegisterDefaultTools(server, mcp.Toolkit{
		Page: cfg.PageDefaults(),
		Options: []pdfcompose.Option{
			pdfcompose.WithLogger(logger),
			pdfcompose.WithFontLoader(cfg.FontLoader(logger)),
			pdfcompose.WithImageFilter(cfg.ImageFilter()),
			pdfcompose.WithPageSize(cfg.PageSize),
		},
	})
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
