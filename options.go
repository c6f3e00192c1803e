package pdfcompose

import (
	"go.uber.org/zap"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/render"
	"github.com/lvillar/pdfcompose/sign"
)

// Option is a functional option for configuring a Composer via New.
type Option func(*composerConfig)

type composerConfig struct {
	log      *zap.Logger
	filter   render.ImageFilter
	fonts    *fonts.Loader
	pageSize string
	signer   sign.Signer
}

// WithLogger sets the logger used for warnings about degraded output.
func WithLogger(log *zap.Logger) Option {
	return func(c *composerConfig) {
		c.log = log
	}
}

// WithImageFilter replaces the filter that fades watermark images.
func WithImageFilter(f render.ImageFilter) Option {
	return func(c *composerConfig) {
		c.filter = f
	}
}

// WithFontLoader sets the source of font files. Loaders cache what they read,
// so share one between composers.
func WithFontLoader(l *fonts.Loader) Option {
	return func(c *composerConfig) {
		c.fonts = l
	}
}

// WithPageSize sets the page size by name.
// Use "A3", "A4", "A5", "Letter" or "Legal".
func WithPageSize(size string) Option {
	return func(c *composerConfig) {
		c.pageSize = size
	}
}

// WithSigner sets how document signatures are computed. Mostly useful to fix
// the nonce in tests.
func WithSigner(s sign.Signer) Option {
	return func(c *composerConfig) {
		c.signer = s
	}
}
