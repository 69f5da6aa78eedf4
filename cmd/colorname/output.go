package main

import (
	"io"
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/colorname/internal/catalog"
	"github.com/dshills/colorname/internal/color"
)

// printer writes JSON documents to the command's output.
type printer struct {
	w      io.Writer
	indent bool
	color  bool
}

func newPrinter(w io.Writer, indent, tty bool) *printer {
	return &printer{w: w, indent: indent || tty, color: tty}
}

// write prints doc and returns the exit code for the outcome.
func (p *printer) write(doc []byte, err error) int {
	if err != nil {
		doc, serr := sjson.SetBytes(nil, "error", err.Error())
		if serr != nil {
			return exitError
		}
		_, _ = p.w.Write(append(doc, '\n'))
		return exitError
	}
	if p.indent {
		doc = pretty.Pretty(doc)
	}
	if p.color {
		doc = pretty.Color(doc, nil)
	}
	if len(doc) == 0 || doc[len(doc)-1] != '\n' {
		doc = append(doc, '\n')
	}
	if _, err := p.w.Write(doc); err != nil {
		return exitError
	}
	return exitOK
}

// encodeMatches renders a batch in input order. Failed values carry the
// input and an error field in place of the color.
func encodeMatches(list string, values []string, matches []catalog.Match) ([]byte, error) {
	doc, err := sjson.SetBytes([]byte(`{"colors":[]}`), "list", list)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		path := "colors." + strconv.Itoa(i)
		if m.Err != nil {
			if doc, err = sjson.SetBytes(doc, path+".value", values[i]); err != nil {
				return nil, err
			}
			doc, err = sjson.SetBytes(doc, path+".error", m.Err.Error())
		} else {
			doc, err = sjson.SetBytes(doc, path, m.Color)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func encodeExhaustion(e *catalog.BatchExhaustionError) ([]byte, error) {
	doc, err := sjson.SetBytes(nil, "error", e.Error())
	if err != nil {
		return nil, err
	}
	fields := []struct {
		path  string
		value any
	}{
		{"list", e.Catalog},
		{"requested", e.Requested},
		{"availableCount", e.AvailableCount},
		{"totalCount", e.TotalCount},
	}
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func encodeSearch(list, query string, results []color.Hydrated) ([]byte, error) {
	doc, err := sjson.SetBytes([]byte(`{"colors":[]}`), "query", query)
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "list", list); err != nil {
		return nil, err
	}
	for _, h := range results {
		if doc, err = sjson.SetBytes(doc, "colors.-1", h); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func encodeLists(m *catalog.Manager) ([]byte, error) {
	doc := []byte(`{"lists":[]}`)
	for i, name := range m.Names() {
		cat, err := m.Catalog(name)
		if err != nil {
			return nil, err
		}
		path := "lists." + strconv.Itoa(i)
		if doc, err = sjson.SetBytes(doc, path+".name", name); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, path+".count", cat.Len()); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
