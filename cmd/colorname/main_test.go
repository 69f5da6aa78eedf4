package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"
)

// runCLI runs the command with an isolated config path.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", filepath.Join(t.TempDir(), "absent.toml")}, args...)
	code := run(full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunNamesColors(t *testing.T) {
	code, out, errOut := runCLI(t, "000000", "#FFF")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	doc := gjson.Parse(out)
	if doc.Get("list").String() != "basic" {
		t.Errorf("list = %q", doc.Get("list").String())
	}
	got := []string{doc.Get("colors.0.name").String(), doc.Get("colors.1.name").String()}
	if diff := cmp.Diff([]string{"Black", "White"}, got); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if doc.Get("colors.1.requestedHex").String() != "#ffffff" {
		t.Errorf("requestedHex = %q", doc.Get("colors.1.requestedHex").String())
	}
	if doc.Get("colors.0.bestContrast").String() != "white" {
		t.Errorf("bestContrast = %q", doc.Get("colors.0.bestContrast").String())
	}
}

func TestRunPerItemError(t *testing.T) {
	code, out, _ := runCLI(t, "ff0000,nothex")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}

	doc := gjson.Parse(out)
	if doc.Get("colors.#").Int() != 2 {
		t.Fatalf("expected 2 colors: %s", out)
	}
	if doc.Get("colors.0.name").String() != "Red" {
		t.Errorf("colors.0 = %s", doc.Get("colors.0").Raw)
	}
	if doc.Get("colors.1.value").String() != "nothex" || !doc.Get("colors.1.error").Exists() {
		t.Errorf("colors.1 = %s", doc.Get("colors.1").Raw)
	}
}

func TestRunUnique(t *testing.T) {
	code, out, _ := runCLI(t, "-unique", "f00", "f00", "f00")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}

	seen := make(map[string]bool)
	for _, c := range gjson.Get(out, "colors").Array() {
		name := c.Get("name").String()
		if seen[name] {
			t.Errorf("name %q repeated", name)
		}
		seen[name] = true
	}
	if len(seen) != 3 {
		t.Errorf("got %d names, want 3", len(seen))
	}
}

func TestRunUniqueExhaustion(t *testing.T) {
	values := make([]string, 22)
	for i := range values {
		values[i] = fmt.Sprintf("%02x%02x%02x", i*11, 255-i*11, i*5)
	}

	code, out, _ := runCLI(t, append([]string{"-unique"}, values...)...)
	if code != exitExhausted {
		t.Fatalf("exit %d, want %d", code, exitExhausted)
	}

	doc := gjson.Parse(out)
	if doc.Get("availableCount").Int() != 21 || doc.Get("totalCount").Int() != 21 || doc.Get("requested").Int() != 22 {
		t.Errorf("unexpected exhaustion document: %s", out)
	}
	if doc.Get("colors").Exists() {
		t.Error("exhaustion should not return a partial list")
	}
}

func TestRunSearch(t *testing.T) {
	code, out, errOut := runCLI(t, "-list", "html", "-search", "sea", "-max", "3")
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}

	doc := gjson.Parse(out)
	if doc.Get("query").String() != "sea" || doc.Get("colors.#").Int() != 3 {
		t.Fatalf("unexpected search document: %s", out)
	}
	if first := doc.Get("colors.0.name").String(); first != "seagreen" {
		t.Errorf("first result %q, want seagreen", first)
	}
	if doc.Get("colors.0.requestedHex").Exists() {
		t.Error("search results should not carry requestedHex")
	}
}

func TestRunLists(t *testing.T) {
	code, out, _ := runCLI(t, "-lists")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}

	var names []string
	for _, l := range gjson.Get(out, "lists").Array() {
		names = append(names, l.Get("name").String())
	}
	if diff := cmp.Diff([]string{"basic", "html"}, names); diff != "" {
		t.Errorf("lists mismatch (-want +got):\n%s", diff)
	}
	if n := gjson.Get(out, "lists.0.count").Int(); n != 21 {
		t.Errorf("basic count = %d", n)
	}
}

func TestRunCatalogDir(t *testing.T) {
	dir := t.TempDir()
	colors := filepath.Join(dir, "colors")
	if err := os.Mkdir(colors, 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "colors:\n  - {name: Ink, hex: \"#101010\"}\n  - {name: Paper, hex: \"#fafafa\"}\n"
	if err := os.WriteFile(filepath.Join(colors, "mono.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "colorname.toml")
	cfg := fmt.Sprintf("[catalogs]\ndir = %q\ndefault = \"mono\"\nbuiltin = false\n", colors)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "000"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if name := gjson.Get(stdout.String(), "colors.0.name").String(); name != "Ink" {
		t.Errorf("name = %q, want Ink", name)
	}

	stdout.Reset()
	run([]string{"-config", cfgPath, "-lists"}, &stdout, &stderr)
	if n := gjson.Get(stdout.String(), "lists.#").Int(); n != 1 {
		t.Errorf("builtins should be disabled, got %d lists", n)
	}
}

func TestRunPretty(t *testing.T) {
	code, out, _ := runCLI(t, "-pretty", "000")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(out, "\n  \"colors\"") {
		t.Errorf("expected indented output, got %q", out)
	}
	if !gjson.Valid(out) {
		t.Error("pretty output is not valid JSON")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no values", nil, exitError},
		{"unknown list", []string{"-list", "nope", "000"}, exitError},
		{"unknown list search", []string{"-list", "nope", "-search", "red"}, exitError},
		{"bad log level", []string{"-log-level", "loud", "000"}, exitError},
		{"negative max", []string{"-search", "red", "-max", "-1"}, exitError},
		{"unknown flag", []string{"-bogus"}, exitError},
		{"unique bad value", []string{"-unique", "zzz"}, exitError},
		{"help", []string{"-h"}, exitOK},
		{"version", []string{"-version"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit %d, want %d", code, tt.code)
			}
		})
	}
}

func TestRunDebugLogsStats(t *testing.T) {
	code, _, errOut := runCLI(t, "-log-level", "debug", "000", "000")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(errOut, "hit rate 50.0%") {
		t.Errorf("missing stats line in %q", errOut)
	}
}

func TestSplitValues(t *testing.T) {
	got := splitValues([]string{"a,b", " c ", ",", "d,,e"})
	if diff := cmp.Diff([]string{"a", "b", "c", "d", "e"}, got); diff != "" {
		t.Errorf("splitValues mismatch (-want +got):\n%s", diff)
	}
	if splitValues(nil) != nil {
		t.Error("expected nil for no args")
	}
}

func TestPrinterErrorIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, false, false)

	msg := "bad \x1b[31mvalue\x1b[0m \"quoted\" é"
	if code := p.write(nil, errors.New(msg)); code != exitError {
		t.Errorf("exit %d, want %d", code, exitError)
	}

	out := buf.String()
	if !gjson.Valid(out) {
		t.Fatalf("error document is not valid JSON: %q", out)
	}
	if got := gjson.Get(out, "error").String(); got != msg {
		t.Errorf("error = %q, want %q", got, msg)
	}
}

func TestRunBlackHasNoNegativeZero(t *testing.T) {
	code, out, _ := runCLI(t, "000000")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	for _, path := range []string{"colors.0.lab.l", "colors.0.lab.a", "colors.0.lab.b", "colors.0.luminance"} {
		if raw := gjson.Get(out, path).Raw; raw != "0" {
			t.Errorf("%s = %s, want 0", path, raw)
		}
	}
}
