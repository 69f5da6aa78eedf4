// Package config loads colorname configuration.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, when one exists
//  3. COLORNAME_* environment variables
//
// Command-line flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/colorname/internal/finder"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/namesearch"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "colorname.toml"

// Config holds all settings.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Catalogs CatalogsConfig `toml:"catalogs"`
	Finder   FinderConfig   `toml:"finder"`
	Search   SearchConfig   `toml:"search"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// CatalogsConfig selects where catalogs come from.
type CatalogsConfig struct {
	// Dir holds extra JSON or YAML catalog files. Empty means none.
	Dir string `toml:"dir"`
	// Default is the catalog used when a request names none.
	Default string `toml:"default"`
	// Builtin enables the compiled-in catalogs.
	Builtin bool `toml:"builtin"`
}

// FinderConfig tunes nearest-color lookups.
type FinderConfig struct {
	CacheSize     int     `toml:"cacheSize"`
	Window        int     `toml:"window"`
	WideWindow    int     `toml:"wideWindow"`
	WideThreshold float64 `toml:"wideThreshold"`
}

// SearchConfig tunes name search.
type SearchConfig struct {
	MaxResults    int     `toml:"maxResults"`
	MinSimilarity float64 `toml:"minSimilarity"`
	CacheSize     int     `toml:"cacheSize"`
}

// Default returns the built-in configuration.
func Default() Config {
	w := finder.DefaultWindow()
	s := namesearch.DefaultOptions()
	return Config{
		Log: LogConfig{Level: "info"},
		Catalogs: CatalogsConfig{
			Default: "basic",
			Builtin: true,
		},
		Finder: FinderConfig{
			CacheSize:     finder.DefaultCacheSize,
			Window:        w.Normal,
			WideWindow:    w.Wide,
			WideThreshold: w.WideThreshold,
		},
		Search: SearchConfig{
			MaxResults:    s.MaxResults,
			MinSimilarity: s.MinSimilarity,
			CacheSize:     s.CacheSize,
		},
	}
}

// Load resolves the configuration from defaults, the TOML file at path and
// the environment, then validates it. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return cfg, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data over the defaults without consulting the
// environment. source names the data in errors.
func Parse(source string, data []byte) (Config, error) {
	cfg := Default()
	if err := decode(source, data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// decode unmarshals data into cfg. Keys not in Config are rejected.
func decode(source string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}

// Window returns the finder candidate window.
func (c Config) Window() finder.Window {
	return finder.Window{
		Normal:        c.Finder.Window,
		Wide:          c.Finder.WideWindow,
		WideThreshold: c.Finder.WideThreshold,
	}
}

// FinderOptions returns the finder options these settings describe.
func (c Config) FinderOptions() []finder.Option {
	return []finder.Option{
		finder.WithCacheSize(c.Finder.CacheSize),
		finder.WithWindow(c.Window()),
	}
}

// SearchOptions returns the name search options.
func (c Config) SearchOptions() namesearch.Options {
	return namesearch.Options{
		MinSimilarity: c.Search.MinSimilarity,
		MaxResults:    c.Search.MaxResults,
		CacheSize:     c.Search.CacheSize,
	}
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}

// Validate checks every setting and returns all failures joined.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if !logging.ValidLevel(c.Log.Level) {
		add("log.level", "must be one of debug, info, warn, error", c.Log.Level)
	}
	if c.Catalogs.Default == "" {
		add("catalogs.default", "must not be empty", c.Catalogs.Default)
	}
	if !c.Catalogs.Builtin && c.Catalogs.Dir == "" {
		add("catalogs.dir", "required when builtin catalogs are disabled", c.Catalogs.Dir)
	}
	if c.Finder.CacheSize <= 0 {
		add("finder.cacheSize", "must be positive", c.Finder.CacheSize)
	}
	if c.Finder.Window <= 0 {
		add("finder.window", "must be positive", c.Finder.Window)
	}
	if c.Finder.WideWindow < c.Finder.Window {
		add("finder.wideWindow", "must be at least finder.window", c.Finder.WideWindow)
	}
	if c.Finder.WideThreshold < 0 || c.Finder.WideThreshold > 1 {
		add("finder.wideThreshold", "must be between 0 and 1", c.Finder.WideThreshold)
	}
	if c.Search.MaxResults <= 0 {
		add("search.maxResults", "must be positive", c.Search.MaxResults)
	}
	if c.Search.MinSimilarity <= 0 || c.Search.MinSimilarity > 1 {
		add("search.minSimilarity", "must be in (0, 1]", c.Search.MinSimilarity)
	}
	if c.Search.CacheSize <= 0 {
		add("search.cacheSize", "must be positive", c.Search.CacheSize)
	}

	return errors.Join(errs...)
}
