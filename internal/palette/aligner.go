package palette

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"go-visual-auditor/internal/colormath"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/imaging"
	"go-visual-auditor/pkg/models"
)

const (
	// DefaultKClusters is the cluster count when the caller passes 0.
	DefaultKClusters = 8

	minKClusters = 3
	maxKClusters = 16
)

// Config carries the tuned alignment heuristics. The defaults mirror
// long-standing production values; they are configuration, not semantics.
type Config struct {
	// MaxLabDistance is the Lab distance at which closeness reaches zero.
	MaxLabDistance float64

	// MaxImageSide bounds clustering cost; longer sides are downscaled.
	MaxImageSide int

	// NeutralChromaThreshold classifies clusters and brand colors as
	// neutral.
	NeutralChromaThreshold float64

	// NeutralPenalty down-weights neutral clusters when the brand palette
	// has no neutral entry, so large white/gray backgrounds do not inflate
	// the score.
	NeutralPenalty float64

	MaxIterations int
	Epsilon       float64
	Attempts      int

	// Seed fixes the clustering RNG; 0 keeps the default source.
	Seed int64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MaxLabDistance:         35.0,
		MaxImageSide:           512,
		NeutralChromaThreshold: colormath.NeutralChromaThreshold,
		NeutralPenalty:         0.4,
		MaxIterations:          20,
		Epsilon:                0.5,
		Attempts:               3,
	}
}

// Aligner computes brand palette alignment scores. It is stateless apart
// from configuration and safe for concurrent use.
type Aligner struct {
	cfg Config
}

// NewAligner creates an aligner with the given configuration. Zero-valued
// fields fall back to defaults.
func NewAligner(cfg Config) *Aligner {
	def := DefaultConfig()
	if cfg.MaxLabDistance <= 0 {
		cfg.MaxLabDistance = def.MaxLabDistance
	}
	if cfg.MaxImageSide <= 0 {
		cfg.MaxImageSide = def.MaxImageSide
	}
	if cfg.NeutralChromaThreshold <= 0 {
		cfg.NeutralChromaThreshold = def.NeutralChromaThreshold
	}
	if cfg.NeutralPenalty <= 0 {
		cfg.NeutralPenalty = def.NeutralPenalty
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	return &Aligner{cfg: cfg}
}

// Analyze scores the image against the brand palette. The input buffer is
// only read; heatmap generation allocates a new buffer.
func (a *Aligner) Analyze(buf *imaging.PixelBuffer, brandHexes []string, kClusters int, generateHeatmap bool) (*models.AlignmentResult, error) {
	if buf.Empty() {
		return nil, apperrors.NewInvalidArgumentError("pixel buffer is empty", nil)
	}
	if kClusters == 0 {
		kClusters = DefaultKClusters
	}
	if kClusters < minKClusters || kClusters > maxKClusters {
		return nil, apperrors.NewInvalidArgumentError(
			fmt.Sprintf("k_clusters must be between %d and %d (got %d)", minKClusters, maxKClusters, kClusters), nil)
	}

	brand, err := BuildPalette(brandHexes, a.cfg.NeutralChromaThreshold)
	if err != nil {
		return nil, err
	}
	hasNeutralBrand := hasNeutral(brand)

	resized := buf.ResizeMaxSide(a.cfg.MaxImageSide)
	width, height := resized.Width, resized.Height
	totalPixels := width * height

	// Convert every pixel to Lab for clustering
	points := make([]colormath.Lab, totalPixels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			points[y*width+x] = resized.At(x, y).ToLab()
		}
	}

	rng := rand.New(rand.NewSource(a.seed()))
	clusters := runKMeans(points, kClusters, a.cfg.MaxIterations, a.cfg.Epsilon, a.cfg.Attempts, rng)

	// Nearest brand color per cluster; ties go to the first-listed entry
	nearestBrand := make([]int, kClusters)
	minDists := make([]float64, kClusters)
	for c := 0; c < kClusters; c++ {
		bestIdx := 0
		bestDist := colormath.Distance(clusters.centers[c], brand[0].Lab)
		for b := 1; b < len(brand); b++ {
			if d := colormath.Distance(clusters.centers[c], brand[b].Lab); d < bestDist {
				bestDist = d
				bestIdx = b
			}
		}
		nearestBrand[c] = bestIdx
		minDists[c] = bestDist
	}

	maxD := math.Max(a.cfg.MaxLabDistance, 1e-6)

	rawCoverage := make([]float64, len(brand))
	adjustedCoverage := make([]float64, len(brand))
	distanceSums := make([]float64, len(brand))
	distanceCounts := make([]int, len(brand))

	var overall float64
	detected := make([]models.DetectedColor, 0, kClusters)

	for c := 0; c < kClusters; c++ {
		cov := clusters.coverage[c]
		if cov <= 0 {
			continue
		}

		brandIdx := nearestBrand[c]
		dist := minDists[c]
		closeness := math.Max(0, 1.0-dist/maxD)

		multiplier := 1.0
		clusterIsNeutral := clusters.centers[c].Chroma() < a.cfg.NeutralChromaThreshold
		if clusterIsNeutral && !hasNeutralBrand {
			multiplier = a.cfg.NeutralPenalty
		}

		overall += cov * closeness * multiplier

		rawCoverage[brandIdx] += cov
		adjustedCoverage[brandIdx] += cov * closeness * multiplier
		distanceSums[brandIdx] += dist
		distanceCounts[brandIdx]++

		detected = append(detected, models.DetectedColor{
			DetectedColor:      clusters.centers[c].ToRGB().Hex(),
			NearestBrandColor:  brand[brandIdx].Hex,
			MatchPercentage:    round1(closeness * 100),
			CoveragePercentage: round1(cov * 100),
			Distance:           dist,
		})
	}

	coverage := make([]models.BrandCoverage, len(brand))
	for i, b := range brand {
		entry := models.BrandCoverage{
			Hex:                     b.Hex,
			RawCoveragePercent:      round2(rawCoverage[i] * 100),
			AdjustedCoveragePercent: round2(adjustedCoverage[i] * 100),
		}
		if distanceCounts[i] > 0 {
			avg := distanceSums[i] / float64(distanceCounts[i])
			entry.AvgDistance = &avg
		}
		coverage[i] = entry
	}

	sort.Slice(detected, func(i, j int) bool {
		return detected[i].CoveragePercentage > detected[j].CoveragePercentage
	})
	if len(detected) > 3 {
		detected = detected[:3]
	}

	result := &models.AlignmentResult{
		AlignmentScore:      round2(overall * 100),
		TotalPixelsAnalyzed: totalPixels,
		BrandColorCoverage:  coverage,
		TopDetectedColors:   detected,
		Debug: models.AlignmentDebug{
			ImageSize:       models.ImageSize{Width: width, Height: height},
			KClusters:       kClusters,
			MaxLabDistance:  a.cfg.MaxLabDistance,
			HasNeutralBrand: hasNeutralBrand,
		},
	}

	if generateHeatmap {
		heatmap, err := renderHeatmap(resized, clusters.labels, minDists, maxD)
		if err != nil {
			return nil, err
		}
		result.HeatmapBase64 = heatmap
	}

	return result, nil
}

func (a *Aligner) seed() int64 {
	if a.cfg.Seed != 0 {
		return a.cfg.Seed
	}
	return rand.Int63()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
