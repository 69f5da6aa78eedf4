package source

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/dshills/colorname/internal/catalog"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// ErrUnknownBuiltin indicates a builtin catalog name that is not compiled in.
var ErrUnknownBuiltin = errors.New("unknown builtin catalog")

// BuiltinNames returns the names of the compiled-in catalogs, sorted.
func BuiltinNames() []string {
	des, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, strings.TrimSuffix(de.Name(), path.Ext(de.Name())))
	}
	slices.Sort(names)
	return names
}

// Builtin returns the entries of the compiled-in catalog called name.
func Builtin(name string) ([]catalog.Entry, error) {
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	return Parse("builtin:"+name, JSON, data)
}
