package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lvillar/pdfcompose/fonts"
	"github.com/lvillar/pdfcompose/imagefilter"
	"github.com/lvillar/pdfcompose/layout"
)

// Prefix is prepended to every environment variable name.
const Prefix = "PDFCOMPOSE_"

// Config holds all configuration for the pdfcompose commands
type Config struct {
	// Fonts
	FontDir string `env:"FONT_DIR" envDefault:""`

	// Page defaults
	PageSize         string  `env:"PAGE_SIZE" envDefault:"A4"`
	Margin           float64 `env:"MARGIN" envDefault:"30"`
	WatermarkOpacity int     `env:"WATERMARK_OPACITY" envDefault:"30"`
	FooterPagination bool    `env:"FOOTER_PAGINATION" envDefault:"true"`
	Stamp            string  `env:"STAMP" envDefault:"none"`

	// Watermark encoding
	ImageFormat string `env:"IMAGE_FORMAT" envDefault:"png"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(env.Options{Prefix: Prefix})
}

// LoadFrom loads configuration from environ instead of the process
// environment. Keys carry the prefix, as in the real environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return load(env.Options{Prefix: Prefix, Environment: environ})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !isValidPageSize(c.PageSize) {
		return fmt.Errorf("PAGE_SIZE must be one of: A3, A4, A5, Letter, Legal")
	}

	if c.Margin < 0 {
		return fmt.Errorf("MARGIN must be non-negative")
	}

	if c.WatermarkOpacity < 0 || c.WatermarkOpacity > 100 {
		return fmt.Errorf("WATERMARK_OPACITY must be between 0 and 100")
	}

	if _, err := layout.ParseStampKind(c.Stamp); err != nil {
		return fmt.Errorf("STAMP must be one of: none, qr, pdf417")
	}

	switch strings.ToLower(c.ImageFormat) {
	case "png", "jpeg", "jpg":
	default:
		return fmt.Errorf("IMAGE_FORMAT must be png or jpeg")
	}

	if c.FontDir != "" {
		if fi, err := os.Stat(c.FontDir); err != nil || !fi.IsDir() {
			return fmt.Errorf("FONT_DIR %q is not a directory", c.FontDir)
		}
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case "a3", "a4", "a5", "letter", "legal":
		return true
	}
	return false
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// PageDefaults returns the page configuration jobs start from.
func (c *Config) PageDefaults() layout.PageConfiguration {
	page := layout.DefaultPageConfiguration()
	page.Margins = layout.UniformMargins(c.Margin)
	page.WatermarkOpacity = c.WatermarkOpacity
	page.FooterPagination = c.FooterPagination
	page.Stamp, _ = layout.ParseStampKind(c.Stamp)
	return page
}

// ImageFilter returns the watermark filter for the configured format.
func (c *Config) ImageFilter() imagefilter.Filter {
	switch strings.ToLower(c.ImageFormat) {
	case "jpeg", "jpg":
		return imagefilter.Filter{Format: imagefilter.JPEG}
	default:
		return imagefilter.Filter{Format: imagefilter.PNG}
	}
}

// FontLoader returns a loader over FontDir. Without a FontDir documents fall
// back to the built-in Helvetica.
func (c *Config) FontLoader(log *zap.Logger) *fonts.Loader {
	if c.FontDir == "" {
		return fonts.NewLoader(nil, log)
	}
	return fonts.NewLoader(os.DirFS(c.FontDir), log)
}

// NewLogger builds a JSON logger at LogLevel writing to stderr, leaving
// stdout free for documents and protocol traffic.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch c.LogLevel {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{FontDir=%s, PageSize=%s, Margin=%g, WatermarkOpacity=%d, "+
			"FooterPagination=%v, Stamp=%s, ImageFormat=%s, LogLevel=%s}",
		c.FontDir,
		c.PageSize,
		c.Margin,
		c.WatermarkOpacity,
		c.FooterPagination,
		c.Stamp,
		c.ImageFormat,
		c.LogLevel,
	)
}
