package models

// AlignmentResult is the outcome of scoring an image against a brand palette.
// Field names are stable; they are consumed verbatim by API clients.
type AlignmentResult struct {
	AlignmentScore      float64         `json:"alignment_score"`
	TotalPixelsAnalyzed int             `json:"total_pixels_analyzed"`
	BrandColorCoverage  []BrandCoverage `json:"brand_color_coverage"`
	TopDetectedColors   []DetectedColor `json:"top_detected_colors"`
	Debug               AlignmentDebug  `json:"debug"`

	// HeatmapBase64 is a PNG data URI, present only when heatmap
	// generation was requested.
	HeatmapBase64 string `json:"heatmap_base64,omitempty"`

	// HeatmapURL is set when an artifact store is configured and the
	// heatmap was uploaded.
	HeatmapURL string `json:"heatmap_url,omitempty"`
}

// BrandCoverage is the per-brand-color breakdown of cluster assignments.
type BrandCoverage struct {
	Hex                     string `json:"hex"`
	RawCoveragePercent      float64 `json:"raw_coverage_percent"`
	AdjustedCoveragePercent float64 `json:"adjusted_coverage_percent"`

	// AvgDistance is nil when no cluster was assigned to this brand color.
	AvgDistance *float64 `json:"avg_distance"`
}

// DetectedColor describes one of the dominant clusters found in the image.
type DetectedColor struct {
	DetectedColor      string  `json:"detected_color"`
	NearestBrandColor  string  `json:"nearest_brand_color"`
	MatchPercentage    float64 `json:"match_percentage"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	Distance           float64 `json:"distance"`
}

// AlignmentDebug carries the analysis parameters actually applied.
type AlignmentDebug struct {
	ImageSize       ImageSize `json:"image_size"`
	KClusters       int       `json:"k_clusters"`
	MaxLabDistance  float64   `json:"max_lab_distance"`
	HasNeutralBrand bool      `json:"has_neutral_brand"`
}

// ImageSize is the size of the (possibly downscaled) analyzed image.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
