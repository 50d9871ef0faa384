// Package accessibility scores how readable an image's text is: WCAG-like
// contrast per detected region, large-text usage, clutter and contrast
// survival under simulated color vision deficiencies.
package accessibility

import (
	"context"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"go-visual-auditor/internal/colormath"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/imaging"
	"go-visual-auditor/internal/textregion"
	"go-visual-auditor/pkg/models"
)

const (
	normalTextRatio = 4.5
	largeTextRatio  = 3.0
)

// Config tunes the accessibility evaluation.
type Config struct {
	// MaxImageSide bounds OCR and edge-detection cost.
	MaxImageSide int

	// ConfidenceThreshold filters OCR detections.
	ConfidenceThreshold float64

	// LargeTextMinHeight marks a region as large text, in pixels.
	// 24px approximates 18pt at 96 dpi.
	LargeTextMinHeight int

	// LargeTextTarget is the large-text fraction granting a full
	// large-text sub-score.
	LargeTextTarget float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxImageSide:        1024,
		ConfidenceThreshold: textregion.DefaultConfidenceThreshold,
		LargeTextMinHeight:  24,
		LargeTextTarget:     0.6,
	}
}

var evaluationNotes = []string{
	"This score only reflects image-level accessibility (contrast, text size, clutter, color-blind safety).",
	"It does NOT validate full WCAG compliance (no alt text, semantics, keyboard, or structure checks).",
}

// Scorer evaluates image accessibility. Safe for concurrent use as long
// as the OCR provider is.
type Scorer struct {
	cfg       Config
	extractor *textregion.Extractor
}

// NewScorer wires a scorer to an OCR provider. Zero-valued config fields
// fall back to defaults.
func NewScorer(provider textregion.OcrProvider, cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.MaxImageSide <= 0 {
		cfg.MaxImageSide = def.MaxImageSide
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if cfg.LargeTextMinHeight <= 0 {
		cfg.LargeTextMinHeight = def.LargeTextMinHeight
	}
	if cfg.LargeTextTarget <= 0 {
		cfg.LargeTextTarget = def.LargeTextTarget
	}
	return &Scorer{
		cfg:       cfg,
		extractor: textregion.NewExtractor(provider, cfg.ConfidenceThreshold),
	}
}

// Evaluate scores the image. When expectedText is non-empty, the OCR
// transcript is additionally verified against it.
func (s *Scorer) Evaluate(ctx context.Context, buf *imaging.PixelBuffer, expectedText string) (*models.AccessibilityResult, error) {
	if buf.Empty() {
		return nil, apperrors.NewInvalidArgumentError("pixel buffer is empty", nil)
	}

	resized := buf.ResizeMaxSide(s.cfg.MaxImageSide)

	regions, err := s.extractor.Extract(ctx, resized)
	if err != nil {
		return nil, err
	}

	result := &models.AccessibilityResult{Notes: evaluationNotes}

	if expectedText != "" {
		words := make([]string, 0, len(regions))
		for _, r := range regions {
			words = append(words, r.Text)
		}
		verification := VerifyText(expectedText, strings.Join(words, " "))
		result.TextVerification = &verification
	}

	if len(regions) == 0 {
		// Nothing to fail, but nothing was checked either
		result.OverallScore = 100.0
		result.Metrics = models.AccessibilityMetrics{
			TextContrastScore:     100.0,
			LargeTextScore:        100.0,
			LegibilityScore:       100.0,
			ColorblindSafetyScore: 100.0,
		}
		result.Regions = []models.RegionReport{}
		result.Inconclusive = true
		return result, nil
	}

	prot := SimulateProtanopia(resized)
	deut := SimulateDeuteranopia(resized)

	reports := make([]models.RegionReport, len(regions))
	contrastPasses := 0
	largeCount := 0
	clutters := make([]float64, len(regions))
	cbScores := make([]float64, len(regions))

	for i, r := range regions {
		fg, bg := textregion.SampleColors(resized, r.X, r.Y, r.W, r.H)
		contrast := colormath.ContrastRatio(fg, bg)

		fgP, bgP := textregion.SampleColors(prot, r.X, r.Y, r.W, r.H)
		fgD, bgD := textregion.SampleColors(deut, r.X, r.Y, r.W, r.H)
		cbMin := math.Min(colormath.ContrastRatio(fgP, bgP), colormath.ContrastRatio(fgD, bgD))

		isLarge := r.H >= s.cfg.LargeTextMinHeight
		clutter := ClutterScore(resized, r.X, r.Y, r.W, r.H)

		threshold := normalTextRatio
		if isLarge {
			threshold = largeTextRatio
		}
		if contrast >= threshold {
			contrastPasses++
		}
		if isLarge {
			largeCount++
		}
		clutters[i] = clutter
		if cbMin >= threshold {
			cbScores[i] = 1.0
		} else {
			cbScores[i] = math.Max(0, math.Min(cbMin/threshold, 1.0))
		}

		reports[i] = models.RegionReport{
			Text:                  r.Text,
			BBox:                  models.BBox{X: r.X, Y: r.Y, W: r.W, H: r.H},
			Confidence:            r.Confidence,
			Contrast:              round2(contrast),
			IsLarge:               isLarge,
			Clutter:               round3(clutter),
			ColorblindMinContrast: round2(cbMin),
		}
	}

	n := float64(len(regions))
	textContrast := float64(contrastPasses) / n
	largeText := math.Min(float64(largeCount)/n/s.cfg.LargeTextTarget, 1.0)
	legibility := math.Max(0, 1.0-stat.Mean(clutters, nil))
	colorblind := stat.Mean(cbScores, nil)

	overall := 0.5*textContrast + 0.15*largeText + 0.2*legibility + 0.15*colorblind

	result.OverallScore = round2(overall * 100)
	result.Metrics = models.AccessibilityMetrics{
		TextContrastScore:     round2(textContrast * 100),
		LargeTextScore:        round2(largeText * 100),
		LegibilityScore:       round2(legibility * 100),
		ColorblindSafetyScore: round2(colorblind * 100),
	}
	result.Regions = reports
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
