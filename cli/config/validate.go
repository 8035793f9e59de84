package config

import "fmt"

var validFormats = map[string]bool{
	"":     true,
	"auto": true,
	"text": true,
	"json": true,
	"yaml": true,
	"yml":  true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q: must be one of auto, text, json, yaml", c.Format)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}
