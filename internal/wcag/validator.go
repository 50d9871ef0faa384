// Package wcag validates contrast between color pairs against the WCAG
// conformance levels and a simplified APCA model, with auto-fix
// suggestions and a color blindness risk estimate per pair.
package wcag

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go-visual-auditor/internal/colormath"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/pkg/models"
)

const (
	// MinColors and MaxColors bound the comparison set size.
	MinColors = 2
	MaxColors = 5

	aaaRatio = 7.0
	aaRatio  = 4.5
	aRatio   = 3.0
)

var strictHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator compares color sets pairwise. It is stateless and safe for
// concurrent use.
type Validator struct{}

// NewValidator creates a pairwise contrast validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Compare validates 2 to 5 colors pairwise. Keys in the result are
// "<COLOR_A>_<COLOR_B>" with both colors in canonical uppercase #RRGGBB
// form, ordered as given.
func (v *Validator) Compare(colors []string) (models.ComparisonResult, error) {
	if len(colors) < MinColors || len(colors) > MaxColors {
		return nil, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("color list must contain between %d and %d colors (got %d)", MinColors, MaxColors, len(colors)), nil)
	}

	validated := make([]string, len(colors))
	for i, c := range colors {
		canonical, err := canonicalize(strings.TrimSpace(c))
		if err != nil {
			return nil, err
		}
		validated[i] = canonical
	}

	// The canonical forms must match the normalized input exactly
	for i, c := range colors {
		if validated[i] != strings.ToUpper(strings.TrimSpace(c)) {
			return nil, apperrors.NewColorCodeMismatchError(
				fmt.Sprintf("color code %q changed during validation", c), nil)
		}
	}

	result := make(models.ComparisonResult, len(validated)*(len(validated)-1)/2)
	for i := 0; i < len(validated); i++ {
		for j := i + 1; j < len(validated); j++ {
			pair, err := comparePair(validated[i], validated[j])
			if err != nil {
				return nil, err
			}
			result[validated[i]+"_"+validated[j]] = pair
		}
	}
	return result, nil
}

// canonicalize enforces the strict #RRGGBB form and uppercases the hex
// digits. Shorthand and bare hex strings are rejected here even though
// other analyses accept them.
func canonicalize(color string) (string, error) {
	if !strings.HasPrefix(color, "#") {
		return "", apperrors.NewInvalidColorFormatError(
			fmt.Sprintf("invalid color format %q: must start with #", color), nil)
	}
	if len(color) != 7 {
		return "", apperrors.NewInvalidColorFormatError(
			fmt.Sprintf("invalid color format %q: must be 7 characters (#RRGGBB)", color), nil)
	}
	if !strictHexPattern.MatchString(color) {
		return "", apperrors.NewInvalidColorFormatError(
			fmt.Sprintf("invalid color format %q: must contain valid hex characters", color), nil)
	}
	return strings.ToUpper(color), nil
}

func comparePair(colorA, colorB string) (models.PairComparison, error) {
	rgbA, err := colormath.ParseHex(colorA)
	if err != nil {
		return models.PairComparison{}, err
	}
	rgbB, err := colormath.ParseHex(colorB)
	if err != nil {
		return models.PairComparison{}, err
	}

	lumA := colormath.RelativeLuminance(rgbA)
	lumB := colormath.RelativeLuminance(rgbB)
	ratio := colormath.ContrastFromLuminance(lumA, lumB)
	apcaScore := colormath.APCAScore(lumA, lumB)

	return models.PairComparison{
		Luminance: models.LuminancePair{
			Foreground: round3(lumA),
			Background: round3(lumB),
		},
		ContrastRatio: fmt.Sprintf("%.1f:1", ratio),
		WCAG: models.WCAGMatrix{
			A: models.WCAGChecks{
				Text:      verdict(ratio, aRatio),
				LargeText: verdict(ratio, aRatio),
				UIIcons:   verdict(ratio, aRatio),
			},
			AA: models.WCAGChecks{
				Text:      verdict(ratio, aaRatio),
				LargeText: verdict(ratio, aRatio),
				UIIcons:   verdict(ratio, aRatio),
			},
			AAA: models.WCAGChecks{
				Text:      verdict(ratio, aaaRatio),
				LargeText: verdict(ratio, aaRatio),
				UIIcons:   verdict(ratio, aRatio),
			},
		},
		APCA: models.APCAResult{
			Score:  apcaScore,
			Rating: colormath.APCARating(apcaScore),
		},
		AutoFixes:      autoFixes(rgbA, rgbB, ratio),
		ColorBlindRisk: colorBlindRisk(rgbA, rgbB),
	}, nil
}

func verdict(ratio, threshold float64) string {
	if ratio >= threshold {
		return "pass"
	}
	return "fail"
}

// autoFixes suggests a darker foreground and a lighter background variant
// whenever the pair misses AAA text contrast.
func autoFixes(fg, bg colormath.RGB, ratio float64) map[string]string {
	fixes := map[string]string{}
	if ratio >= aaaRatio {
		return fixes
	}
	fixes["foreground_to_meet_AAA"] = fmt.Sprintf("#%02X%02X%02X",
		scaleChannel(fg.R, 0.7), scaleChannel(fg.G, 0.7), scaleChannel(fg.B, 0.7))
	fixes["background_variant_for_better_accessibility"] = fmt.Sprintf("#%02X%02X%02X",
		scaleChannel(bg.R, 1.2), scaleChannel(bg.G, 1.2), scaleChannel(bg.B, 1.2))
	return fixes
}

func scaleChannel(c uint8, factor float64) uint8 {
	v := int(float64(c) * factor)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// colorBlindRisk estimates risk from the summed per-channel difference.
// Large channel separation keeps the pair distinguishable under most
// color vision deficiencies.
func colorBlindRisk(a, b colormath.RGB) string {
	total := absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
	switch {
	case total > 400:
		return "low"
	case total > 200:
		return "medium"
	default:
		return "high"
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
