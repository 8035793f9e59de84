// Package config provides configuration management for the replicalint CLI.
//
// Settings are merged from built-in defaults, an optional .replicalint.yaml
// file, REPLICALINT_ environment variables and command line flags, in rising
// precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	Path      string   `koanf:"path"`       // scan target, file or directory
	Include   []string `koanf:"include"`    // glob patterns of files to scan
	Exclude   []string `koanf:"exclude"`    // glob patterns of files to skip
	Format    string   `koanf:"format"`     // auto, text, json or yaml
	Output    string   `koanf:"output"`     // report file, empty writes to stdout
	Cache     bool     `koanf:"cache"`      // reuse results for unchanged files
	CachePath string   `koanf:"cache_path"` // cache file location
	MaxDepth  int      `koanf:"max_depth"`  // directory recursion bound, 0 is unbounded
	Verbose   bool     `koanf:"verbose"`    // debug logging on stderr
	NoColor   bool     `koanf:"no_color"`   // disable styled terminal output
}

// Default configuration values.
const (
	DefaultPath      = "."
	DefaultFormat    = "auto"
	DefaultCachePath = ".replicalint.cache.json"
)
