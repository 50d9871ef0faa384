package models

// AlignRequest is the JSON body for palette alignment by image URL.
// Multipart uploads carry the same fields as form values plus an "image"
// file part.
type AlignRequest struct {
	URL             string   `json:"url,omitempty"`
	BrandColors     []string `json:"brand_colors" binding:"required,min=1"`
	KClusters       int      `json:"k_clusters,omitempty"`
	GenerateHeatmap bool     `json:"generate_heatmap,omitempty"`
}

// CompareRequest is the JSON body for multi-color contrast comparison.
type CompareRequest struct {
	Colors []string `json:"colors" binding:"required"`
}

// EvaluateRequest is the JSON body for accessibility evaluation by URL.
type EvaluateRequest struct {
	URL                 string  `json:"url,omitempty"`
	ExpectedText        string  `json:"expected_text,omitempty"`
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty"`
}

// AuditRequest runs palette alignment and accessibility evaluation over a
// single decoded image.
type AuditRequest struct {
	URL             string   `json:"url,omitempty"`
	BrandColors     []string `json:"brand_colors" binding:"required,min=1"`
	KClusters       int      `json:"k_clusters,omitempty"`
	GenerateHeatmap bool     `json:"generate_heatmap,omitempty"`
	ExpectedText    string   `json:"expected_text,omitempty"`
}

// AuditResult bundles both analyses of one image.
type AuditResult struct {
	Alignment     *AlignmentResult     `json:"alignment"`
	Accessibility *AccessibilityResult `json:"accessibility"`
}

// ErrorResponse is the wire shape of request failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
