package models

// AccessibilityResult aggregates image-level accessibility metrics into an
// overall 0-100 score with per-region diagnostics.
type AccessibilityResult struct {
	OverallScore float64              `json:"overall_score"`
	Metrics      AccessibilityMetrics `json:"metrics"`
	Regions      []RegionReport       `json:"regions"`

	// Inconclusive marks results where no text regions were detected.
	// The overall score is still 100.0 in that case ("nothing to fail"),
	// but callers should not read it as "everything was checked".
	Inconclusive bool `json:"inconclusive"`

	TextVerification *TextVerification `json:"text_verification,omitempty"`

	Notes []string `json:"notes"`
}

// AccessibilityMetrics holds the four sub-scores, each 0-100.
type AccessibilityMetrics struct {
	TextContrastScore     float64 `json:"text_contrast_score"`
	LargeTextScore        float64 `json:"large_text_score"`
	LegibilityScore       float64 `json:"legibility_score"`
	ColorblindSafetyScore float64 `json:"colorblind_safety_score"`
}

// RegionReport is the per-text-region diagnostic record.
type RegionReport struct {
	Text                  string  `json:"text"`
	BBox                  BBox    `json:"bbox"`
	Confidence            float64 `json:"confidence"`
	Contrast              float64 `json:"contrast"`
	IsLarge               bool    `json:"is_large"`
	Clutter               float64 `json:"clutter"`
	ColorblindMinContrast float64 `json:"colorblind_min_contrast"`
}

// BBox is a pixel-space bounding box.
type BBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// TextVerification compares the OCR-extracted text against an expected
// string supplied by the caller.
type TextVerification struct {
	ExpectedText  string  `json:"expected_text"`
	ExtractedText string  `json:"extracted_text"`
	WER           float64 `json:"wer"`
	CER           float64 `json:"cer"`
	MatchScore    float64 `json:"match_score"`
}
