// Package config loads galleryscraper settings.
//
// Values are resolved in this order, later sources winning:
//
//	defaults -> YAML file -> .env file -> GALLERYSCRAPER_* env vars -> CLI flags
//
// Usage:
//
//	cfg, err := config.Load("", map[string]interface{}{
//	    "pages":      5,
//	    "output":     "./photos",
//	    "batch-size": 10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
