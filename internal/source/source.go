// Package source reads color catalogs from files and from the lists
// compiled into the binary.
//
// A catalog document is either a list of {name, hex} objects or an object
// whose "colors" key holds such a list. JSON and YAML are supported; the
// catalog takes its name from the file's base name. In YAML documents hex
// values must be quoted, since an unquoted # starts a comment.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/dshills/colorname/internal/catalog"
)

// ErrUnsupportedFormat indicates a file extension no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Format identifies a catalog document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	}
	return "", false
}

// ParseError describes a catalog document that could not be read.
type ParseError struct {
	// Source is the file path or builtin name.
	Source string
	// Position is the offending entry's offset, or -1 for document errors.
	Position int
	Message  string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("parse error in %s at entry %d: %s", e.Source, e.Position, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// File is a catalog read from disk.
type File struct {
	Name    string
	Path    string
	Entries []catalog.Entry
}

// Parse decodes a catalog document. src names the document in errors.
func Parse(src string, format Format, data []byte) ([]catalog.Entry, error) {
	switch format {
	case JSON:
		return parseJSON(src, data)
	case YAML:
		return parseYAML(src, data)
	default:
		return nil, fmt.Errorf("%s: %w %q", src, ErrUnsupportedFormat, format)
	}
}

// LoadFile reads the catalog at path.
func LoadFile(path string) (File, error) {
	format, ok := FormatOf(path)
	if !ok {
		return File{}, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	entries, err := Parse(path, format, data)
	if err != nil {
		return File{}, err
	}

	base := filepath.Base(path)
	return File{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Path:    path,
		Entries: entries,
	}, nil
}

// LoadDir reads every supported catalog file directly inside dir, in file
// name order. Other files and subdirectories are skipped. Two files that
// would produce the same catalog name are an error.
func LoadDir(dir string) ([]File, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir %s: %w", dir, err)
	}

	var files []File
	seen := make(map[string]string)
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		if _, ok := FormatOf(de.Name()); !ok {
			continue
		}

		f, err := LoadFile(filepath.Join(dir, de.Name()))
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("catalog %q defined by both %s and %s", f.Name, prev, f.Path)
		}
		seen[f.Name] = f.Path
		files = append(files, f)
	}
	return files, nil
}

func parseJSON(src string, data []byte) ([]catalog.Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Source: src, Position: -1, Message: "invalid JSON"}
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("colors")
	}
	if !list.IsArray() {
		return nil, &ParseError{Source: src, Position: -1, Message: "expected a list of colors or an object with a \"colors\" list"}
	}

	var (
		entries []catalog.Entry
		perr    *ParseError
	)
	list.ForEach(func(_, v gjson.Result) bool {
		pos := len(entries)
		name, hex := v.Get("name"), v.Get("hex")
		switch {
		case !v.IsObject():
			perr = &ParseError{Source: src, Position: pos, Message: "entry is not an object"}
		case name.Type != gjson.String || name.Str == "":
			perr = &ParseError{Source: src, Position: pos, Message: "missing name"}
		case hex.Type != gjson.String || hex.Str == "":
			perr = &ParseError{Source: src, Position: pos, Message: "missing hex"}
		default:
			entries = append(entries, catalog.Entry{Name: name.Str, Hex: hex.Str})
			return true
		}
		return false
	})
	if perr != nil {
		return nil, perr
	}
	return entries, nil
}

func parseYAML(src string, data []byte) ([]catalog.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: src, Position: -1, Message: err.Error(), Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Source: src, Position: -1, Message: "empty document"}
	}

	list := doc.Content[0]
	if list.Kind == yaml.MappingNode {
		list = mappingValue(list, "colors")
	}
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil, &ParseError{Source: src, Position: -1, Message: "expected a list of colors or a mapping with a \"colors\" list"}
	}

	entries := make([]catalog.Entry, 0, len(list.Content))
	for i, n := range list.Content {
		var e catalog.Entry
		if err := n.Decode(&e); err != nil {
			return nil, &ParseError{Source: src, Position: i, Message: err.Error(), Err: err}
		}
		if e.Name == "" {
			return nil, &ParseError{Source: src, Position: i, Message: "missing name"}
		}
		if e.Hex == "" {
			return nil, &ParseError{Source: src, Position: i, Message: "missing hex"}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}
