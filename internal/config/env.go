package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COLORNAME_"

// envVar maps one environment variable onto a Config field.
type envVar struct {
	name  string
	field func(*Config) any
}

var envVars = []envVar{
	{"LOG_LEVEL", func(c *Config) any { return &c.Log.Level }},
	{"CATALOG_DIR", func(c *Config) any { return &c.Catalogs.Dir }},
	{"DEFAULT_CATALOG", func(c *Config) any { return &c.Catalogs.Default }},
	{"BUILTIN_CATALOGS", func(c *Config) any { return &c.Catalogs.Builtin }},
	{"CACHE_SIZE", func(c *Config) any { return &c.Finder.CacheSize }},
	{"WINDOW", func(c *Config) any { return &c.Finder.Window }},
	{"WIDE_WINDOW", func(c *Config) any { return &c.Finder.WideWindow }},
	{"WIDE_THRESHOLD", func(c *Config) any { return &c.Finder.WideThreshold }},
	{"SEARCH_MAX_RESULTS", func(c *Config) any { return &c.Search.MaxResults }},
	{"SEARCH_MIN_SIMILARITY", func(c *Config) any { return &c.Search.MinSimilarity }},
	{"SEARCH_CACHE_SIZE", func(c *Config) any { return &c.Search.CacheSize }},
}

// EnvVars returns the names of the recognized environment variables.
func EnvVars() []string {
	names := make([]string, len(envVars))
	for i, v := range envVars {
		names[i] = EnvPrefix + v.name
	}
	return names
}

// applyEnv overrides cfg with every mapped variable lookup finds.
// Empty values are treated as set.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for _, v := range envVars {
		name := EnvPrefix + v.name
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := assign(v.field(cfg), val); err != nil {
			errs = append(errs, &EnvError{Var: name, Value: val, Err: err})
		}
	}
	return errors.Join(errs...)
}

func assign(dst any, s string) error {
	s = strings.TrimSpace(s)
	switch p := dst.(type) {
	case *string:
		*p = s
	case *bool:
		b, err := parseBool(s)
		if err != nil {
			return err
		}
		*p = b
	case *int:
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("not an integer")
		}
		*p = n
	case *float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return errors.New("not a number")
		}
		*p = f
	default:
		return fmt.Errorf("unsupported field type %T", dst)
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, errors.New("not a boolean")
}
