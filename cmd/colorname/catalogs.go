package main

import (
	"fmt"

	"github.com/dshills/colorname/internal/catalog"
	"github.com/dshills/colorname/internal/config"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/source"
)

// loadCatalogs builds the built-in catalogs and every file in the configured
// directory. A file shadows a built-in of the same name.
func loadCatalogs(m *catalog.Manager, cfg config.Config, log *logging.Logger) error {
	if cfg.Catalogs.Dir != "" {
		files, err := source.LoadDir(cfg.Catalogs.Dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, err := m.Build(f.Name, f.Entries); err != nil {
				return fmt.Errorf("catalog %s: %w", f.Path, err)
			}
			log.Debug("loaded catalog %q from %s", f.Name, f.Path)
		}
	}

	if cfg.Catalogs.Builtin {
		for _, name := range source.BuiltinNames() {
			if _, err := m.Catalog(name); err == nil {
				log.Debug("builtin catalog %q shadowed by file", name)
				continue
			}
			entries, err := source.Builtin(name)
			if err != nil {
				return err
			}
			if _, err := m.Build(name, entries); err != nil {
				return err
			}
		}
	}

	if _, err := m.Catalog(cfg.Catalogs.Default); err != nil {
		return fmt.Errorf("default catalog: %w", err)
	}
	return nil
}
