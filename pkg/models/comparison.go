package models

// ComparisonResult maps "<COLOR_A>_<COLOR_B>" keys to pairwise contrast
// validation results for every unordered color pair.
type ComparisonResult map[string]PairComparison

// PairComparison is the full WCAG/APCA assessment of one color pair.
type PairComparison struct {
	Luminance      LuminancePair     `json:"luminance"`
	ContrastRatio  string            `json:"contrast_ratio"`
	WCAG           WCAGMatrix        `json:"wcag"`
	APCA           APCAResult        `json:"apca"`
	AutoFixes      map[string]string `json:"auto_fixes"`
	ColorBlindRisk string            `json:"color_blind_risk"`
}

// LuminancePair holds the relative luminance of both colors, rounded to 3dp.
type LuminancePair struct {
	Foreground float64 `json:"foreground"`
	Background float64 `json:"background"`
}

// WCAGMatrix is the pass/fail grid across conformance levels and content
// categories.
type WCAGMatrix struct {
	A   WCAGChecks `json:"A"`
	AA  WCAGChecks `json:"AA"`
	AAA WCAGChecks `json:"AAA"`
}

// WCAGChecks holds "pass"/"fail" verdicts for one conformance level.
type WCAGChecks struct {
	Text      string `json:"text"`
	LargeText string `json:"large_text"`
	UIIcons   string `json:"ui_icons"`
}

// APCAResult is the APCA contrast score with its qualitative rating.
type APCAResult struct {
	Score  int    `json:"score"`
	Rating string `json:"rating"`
}
