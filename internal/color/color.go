// Package color converts hex color strings into perceptual coordinates and
// measures the difference between them.
//
// Parsing accepts three or six hex digits with an optional leading '#'.
// Distances use CIEDE2000, which approximates perceived difference well but
// is not a true metric: it can be slightly asymmetric and does not always
// satisfy the triangle inequality. Callers must only rely on it being small
// for close colors.
package color

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColorFormat indicates a string that is not a 3 or 6 digit hex color.
var ErrInvalidColorFormat = errors.New("invalid color format")

// FormatError describes a hex string that failed to parse.
type FormatError struct {
	// Input is the offending string as given.
	Input string
	// Reason explains what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid color format %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrInvalidColorFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidColorFormat
}

// Parsed is a color in CIE L*a*b* (D65) together with the sRGB value it
// was derived from. L is in [0, 100]; A and B are roughly in [-128, 128].
type Parsed struct {
	L, A, B float64

	hex string
	rgb colorful.Color
}

// Parse converts a hex string into a Parsed color.
func Parse(hex string) (Parsed, error) {
	norm, err := Normalize(hex)
	if err != nil {
		return Parsed{}, err
	}

	c, err := colorful.Hex(norm)
	if err != nil {
		return Parsed{}, &FormatError{Input: hex, Reason: err.Error()}
	}

	l, a, b := c.Lab()
	return Parsed{
		L:   l * 100,
		A:   a * 100,
		B:   b * 100,
		hex: norm,
		rgb: c,
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(hex string) Parsed {
	p, err := Parse(hex)
	if err != nil {
		panic(err)
	}
	return p
}

// Normalize returns the canonical "#rrggbb" lower-case form of hex.
func Normalize(hex string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")

	if len(s) != 3 && len(s) != 6 {
		return "", &FormatError{Input: hex, Reason: "expected 3 or 6 hex digits"}
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return "", &FormatError{Input: hex, Reason: fmt.Sprintf("non-hex character %q", s[i])}
		}
	}

	s = strings.ToLower(s)
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + s, nil
}

// Valid reports whether hex parses.
func Valid(hex string) bool {
	_, err := Normalize(hex)
	return err == nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Hex returns the canonical "#rrggbb" form.
func (p Parsed) Hex() string {
	return p.hex
}

// Key returns the canonical cache key for p.
func (p Parsed) Key() string {
	return p.hex
}

// RGB returns the 8-bit sRGB channels.
func (p Parsed) RGB() (r, g, b uint8) {
	return p.rgb.RGB255()
}

// Distance returns the CIEDE2000 difference between a and b.
func Distance(a, b Parsed) float64 {
	return a.rgb.DistanceCIEDE2000(b.rgb)
}
