// Package config provides configuration management for the pdfcompose
// commands.
//
// Configuration is loaded from PDFCOMPOSE_-prefixed environment variables and
// validated on startup. All options have defaults that produce an A4 document
// with 30pt margins and page numbers.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg)
package config
