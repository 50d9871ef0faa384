// Package palette scores how closely an image's dominant colors follow a
// brand palette, by clustering pixels in Lab space and matching the
// cluster centers to the nearest brand colors.
package palette

import (
	"go-visual-auditor/internal/colormath"
	apperrors "go-visual-auditor/internal/errors"
)

// BrandColor is one palette entry with its precomputed Lab form.
type BrandColor struct {
	Hex       string
	Lab       colormath.Lab
	IsNeutral bool
}

// BuildPalette parses and classifies brand hex strings. The order of entries
// is preserved; ties in nearest-color matching go to the first-listed entry.
func BuildPalette(hexes []string, neutralChromaThreshold float64) ([]BrandColor, error) {
	if len(hexes) == 0 {
		return nil, apperrors.NewInvalidArgumentError("at least one brand color is required", nil)
	}

	out := make([]BrandColor, 0, len(hexes))
	for _, h := range hexes {
		rgb, err := colormath.ParseHex(h)
		if err != nil {
			return nil, err
		}
		lab := rgb.ToLab()
		out = append(out, BrandColor{
			Hex:       rgb.Hex(),
			Lab:       lab,
			IsNeutral: lab.Chroma() < neutralChromaThreshold,
		})
	}
	return out, nil
}

func hasNeutral(palette []BrandColor) bool {
	for _, c := range palette {
		if c.IsNeutral {
			return true
		}
	}
	return false
}
