// Package colormath provides the stateless color conversions and
// perceptual-distance math shared by the scoring engines: sRGB linearization,
// WCAG contrast, APCA, and CIE Lab distance.
package colormath

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	apperrors "go-visual-auditor/internal/errors"
)

// NeutralChromaThreshold is the Lab chroma below which a color is treated
// as neutral (white/gray/black-ish).
const NeutralChromaThreshold = 8.0

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R, G, B uint8
}

// Lab is a CIE Lab triple with L in [0,100] and a/b roughly in [-128,127].
type Lab struct {
	L, A, B float64
}

const hexDigits = "0123456789abcdefABCDEF"

// ParseHex parses a hex color string. It strips an optional leading "#",
// expands 3-digit shorthand, and requires exactly 6 hex digits.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	}
	if len(h) != 6 {
		return RGB{}, apperrors.NewInvalidColorFormatError(fmt.Sprintf("invalid hex color: %s", s), nil)
	}
	for i := 0; i < len(h); i++ {
		if !strings.ContainsRune(hexDigits, rune(h[i])) {
			return RGB{}, apperrors.NewInvalidColorFormatError(fmt.Sprintf("invalid hex color: %s", s), nil)
		}
	}
	return RGB{
		R: parseHexByte(h[0:2]),
		G: parseHexByte(h[2:4]),
		B: parseHexByte(h[4:6]),
	}, nil
}

// parseHexByte converts two validated hex digits to a byte
func parseHexByte(s string) uint8 {
	var v uint8
	for i := 0; i < 2; i++ {
		v <<= 4
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v |= c - '0'
		case c >= 'a' && c <= 'f':
			v |= c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v |= c - 'A' + 10
		}
	}
	return v
}

// Hex returns the canonical lowercase "#rrggbb" form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// srgbToLinear gamma-decodes one channel given in 0-255.
func srgbToLinear(c float64) float64 {
	c = c / 255.0
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// LuminanceComponents computes WCAG relative luminance from channel values
// in 0-255. Float inputs are accepted so region color means do not lose
// precision to requantization.
func LuminanceComponents(r, g, b float64) float64 {
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

// RelativeLuminance computes the WCAG relative luminance of a color.
func RelativeLuminance(c RGB) float64 {
	return LuminanceComponents(float64(c.R), float64(c.G), float64(c.B))
}

// ContrastFromLuminance computes the WCAG contrast ratio from two relative
// luminances. The result is always in [1,21].
func ContrastFromLuminance(l1, l2 float64) float64 {
	light := math.Max(l1, l2)
	dark := math.Min(l1, l2)
	return (light + 0.05) / (dark + 0.05)
}

// ContrastRatio computes the WCAG contrast ratio between two colors.
func ContrastRatio(c1, c2 RGB) float64 {
	return ContrastFromLuminance(RelativeLuminance(c1), RelativeLuminance(c2))
}

// APCAScore computes a simplified APCA contrast score from two relative
// luminances. The lighter value is treated as text. Result is truncated to
// an integer; sign reflects polarity.
func APCAScore(l1, l2 float64) int {
	yTxt := math.Max(l1, l2)
	yBg := math.Min(l1, l2)

	// Soft black clamp
	if yBg < 0.022 {
		yBg = 0.022
	}
	if yTxt < 0.022 {
		yTxt = 0.022
	}

	apca := (math.Pow(yTxt, 0.56) - math.Pow(yBg, 0.57)) * 1.14
	return int(apca * 100)
}

// APCARating buckets an APCA score into a qualitative rating.
func APCARating(score int) string {
	abs := score
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 90:
		return "excellent"
	case abs >= 75:
		return "very good"
	case abs >= 60:
		return "good"
	case abs >= 45:
		return "fair"
	default:
		return "poor"
	}
}

// ToLab converts an sRGB color to CIE Lab (D65).
func (c RGB) ToLab() Lab {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	l, a, b := col.Lab()
	// go-colorful scales Lab so white is L=1; the engine works in the
	// conventional L 0-100 scale.
	return Lab{L: l * 100, A: a * 100, B: b * 100}
}

// ToRGB converts a Lab color back to sRGB, clamping out-of-gamut values.
func (l Lab) ToRGB() RGB {
	col := colorful.Lab(l.L/100, l.A/100, l.B/100).Clamped()
	r, g, b := col.RGB255()
	return RGB{R: r, G: g, B: b}
}

// Chroma is the colorfulness magnitude sqrt(a^2+b^2).
func (l Lab) Chroma() float64 {
	return math.Hypot(l.A, l.B)
}

// IsNeutral reports whether the color is below the neutral chroma threshold.
func (l Lab) IsNeutral() bool {
	return l.Chroma() < NeutralChromaThreshold
}

// Distance is the Euclidean distance between two Lab colors, which
// approximates perceived color difference.
func Distance(a, b Lab) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}
