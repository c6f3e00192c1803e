// Command pdfcompose renders a YAML or JSON job file to PDF.
//
//	pdfcompose -o invoice.pdf invoice.yaml
//
// Without -o the PDF is written to stdout. Page defaults, the font directory
// and logging come from PDFCOMPOSE_* environment variables; see
// internal/config. Logs go to stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/lvillar/pdfcompose"
	"github.com/lvillar/pdfcompose/internal/config"
	"github.com/lvillar/pdfcompose/job"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "pdfcompose: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pdfcompose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String(
		"o",
		"",
		"output file (default stdout)",
	)
	strict := fs.Bool(
		"strict",
		false,
		"fail when the template has placeholders without values",
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one job file")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	f, err := job.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	res, err := f.Build(cfg.PageDefaults(),
		pdfcompose.WithLogger(logger),
		pdfcompose.WithFontLoader(cfg.FontLoader(logger)),
		pdfcompose.WithImageFilter(cfg.ImageFilter()),
		pdfcompose.WithPageSize(cfg.PageSize),
	)
	if err != nil {
		return err
	}

	if len(res.Unresolved) > 0 {
		if *strict {
			return fmt.Errorf("placeholders without values: %s", strings.Join(res.Unresolved, ", "))
		}
		logger.Warn("placeholders without values", zap.Strings("tokens", res.Unresolved))
	}

	logger.Info("document composed",
		zap.String("job", fs.Arg(0)),
		zap.Int("pages", res.Pages),
		zap.Int("bytes", len(res.PDF)),
		zap.String("signature", res.Metadata.Signature),
	)

	if *output == "" || *output == "-" {
		_, err = stdout.Write(res.PDF)
		return err
	}
	return os.WriteFile(*output, res.PDF, 0o644)
}
