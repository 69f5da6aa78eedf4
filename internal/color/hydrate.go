package color

import "math"

// RGB holds 8-bit sRGB channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL holds hue in degrees and saturation/lightness in [0, 1].
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// Lab holds CIE L*a*b* coordinates.
type Lab struct {
	L float64 `json:"l"`
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// Hydrated is the display form of a catalog entry returned to a caller.
type Hydrated struct {
	Name         string  `json:"name"`
	Hex          string  `json:"hex"`
	RGB          RGB     `json:"rgb"`
	HSL          HSL     `json:"hsl"`
	Lab          Lab     `json:"lab"`
	Luminance    float64 `json:"luminance"`
	BestContrast string  `json:"bestContrast"`

	// RequestedHex and Distance are set only for nearest-match results.
	RequestedHex string  `json:"requestedHex,omitempty"`
	Distance     float64 `json:"distance,omitempty"`
}

// Hydrate derives the display fields for the entry named name with color p.
func Hydrate(name string, p Parsed) Hydrated {
	r, g, b := p.RGB()
	h, s, l := p.rgb.Hsl()
	lum := p.Luminance()

	contrast := "black"
	if ratio(1, lum) > ratio(lum, 0) {
		contrast = "white"
	}

	return Hydrated{
		Name:         name,
		Hex:          p.hex,
		RGB:          RGB{R: r, G: g, B: b},
		HSL:          HSL{H: round(h, 2), S: round(s, 4), L: round(l, 4)},
		Lab:          Lab{L: round(p.L, 4), A: round(p.A, 4), B: round(p.B, 4)},
		Luminance:    round(lum, 6),
		BestContrast: contrast,
	}
}

// Luminance returns the WCAG 2.x relative luminance of p.
func (p Parsed) Luminance() float64 {
	r, g, b := p.rgb.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio returns the WCAG contrast ratio between a and b, in [1, 21].
func ContrastRatio(a, b Parsed) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return ratio(la, lb)
}

// ratio expects lighter >= darker.
func ratio(lighter, darker float64) float64 {
	return (lighter + 0.05) / (darker + 0.05)
}

// round rounds v to places decimals. Results that round to zero are +0.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
