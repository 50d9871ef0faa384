package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"go-visual-auditor/internal/config"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuditService struct {
	alignResult  *models.AlignmentResult
	alignErr     error
	compareErr   error
	evalResult   *models.AccessibilityResult
	evalErr      error
	auditResult  *models.AuditResult
	auditErr     error
	gotAlignReq  models.AlignRequest
	gotImageData []byte
}

func (f *fakeAuditService) AlignBrand(ctx context.Context, req models.AlignRequest, imageData []byte) (*models.AlignmentResult, error) {
	f.gotAlignReq = req
	f.gotImageData = imageData
	return f.alignResult, f.alignErr
}

func (f *fakeAuditService) CompareColors(colors []string) (models.ComparisonResult, error) {
	if f.compareErr != nil {
		return nil, f.compareErr
	}
	return models.ComparisonResult{}, nil
}

func (f *fakeAuditService) EvaluateAccessibility(ctx context.Context, req models.EvaluateRequest, imageData []byte) (*models.AccessibilityResult, error) {
	return f.evalResult, f.evalErr
}

func (f *fakeAuditService) FullAudit(ctx context.Context, req models.AuditRequest, imageData []byte) (*models.AuditResult, error) {
	return f.auditResult, f.auditErr
}

func testConfig() *config.Config {
	return &config.Config{
		Host:               "127.0.0.1",
		Port:               "8080",
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	}
}

func TestHealthCheck(t *testing.T) {
	handler := NewHandler(&fakeAuditService{}, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestAlignBrand_JSONRequest(t *testing.T) {
	svc := &fakeAuditService{
		alignResult: &models.AlignmentResult{AlignmentScore: 87.5},
	}
	handler := NewHandler(svc, testConfig())

	payload := `{"url":"https://cdn.example.com/a.png","brand_colors":["#336699"],"k_clusters":8}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/brand/align", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result models.AlignmentResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.AlignmentScore != 87.5 {
		t.Errorf("alignment score = %f", result.AlignmentScore)
	}
	if svc.gotAlignReq.URL != "https://cdn.example.com/a.png" || svc.gotAlignReq.KClusters != 8 {
		t.Errorf("request not bound: %+v", svc.gotAlignReq)
	}
	if svc.gotImageData != nil {
		t.Error("JSON request should carry no upload bytes")
	}
}

func TestAlignBrand_MultipartUpload(t *testing.T) {
	svc := &fakeAuditService{
		alignResult: &models.AlignmentResult{AlignmentScore: 42.0},
	}
	handler := NewHandler(svc, testConfig())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "banner.png")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("fake png bytes"))
	mw.WriteField("brand_colors", "#336699")
	mw.WriteField("brand_colors", "#FFFFFF")
	mw.WriteField("k_clusters", "5")
	mw.WriteField("generate_heatmap", "true")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/brand/align", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if string(svc.gotImageData) != "fake png bytes" {
		t.Errorf("upload bytes = %q", svc.gotImageData)
	}
	if len(svc.gotAlignReq.BrandColors) != 2 || svc.gotAlignReq.KClusters != 5 || !svc.gotAlignReq.GenerateHeatmap {
		t.Errorf("form fields not bound: %+v", svc.gotAlignReq)
	}
}

func TestAlignBrand_MultipartWithoutImage(t *testing.T) {
	handler := NewHandler(&fakeAuditService{}, testConfig())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("brand_colors", "#336699")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/brand/align", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAlignBrand_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid color", apperrors.NewInvalidColorFormatError("bad hex", nil), http.StatusBadRequest},
		{"decode failure", apperrors.NewDecodeFailureError("bad image", nil), http.StatusUnprocessableEntity},
		{"network", apperrors.NewNetworkError("fetch failed", nil), http.StatusBadGateway},
		{"internal", apperrors.NewInternalError("boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(&fakeAuditService{alignErr: tt.err}, testConfig())

			payload := `{"url":"https://x.example.com/a.png","brand_colors":["#336699"]}`
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/brand/align", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error JSON: %v", err)
			}
			if resp.Error == "" {
				t.Error("error field empty")
			}
		})
	}
}

func TestAlignBrand_MalformedJSON(t *testing.T) {
	handler := NewHandler(&fakeAuditService{}, testConfig())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/brand/align", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCompareColors(t *testing.T) {
	handler := NewHandler(&fakeAuditService{}, testConfig())

	payload := `{"colors":["#FFFFFF","#000000"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/colors/compare", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCompareColors_ValidationError(t *testing.T) {
	svc := &fakeAuditService{
		compareErr: apperrors.NewInvalidArgumentError("too few colors", nil),
	}
	handler := NewHandler(svc, testConfig())

	payload := `{"colors":["#FFFFFF"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/colors/compare", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestEvaluateAccessibility(t *testing.T) {
	svc := &fakeAuditService{
		evalResult: &models.AccessibilityResult{OverallScore: 91.0},
	}
	handler := NewHandler(svc, testConfig())

	payload := `{"url":"https://cdn.example.com/a.png","expected_text":"SALE"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/wcag/evaluate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result models.AccessibilityResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.OverallScore != 91.0 {
		t.Errorf("overall score = %f", result.OverallScore)
	}
}

func TestFullAudit(t *testing.T) {
	svc := &fakeAuditService{
		auditResult: &models.AuditResult{
			Alignment:     &models.AlignmentResult{AlignmentScore: 80.0},
			Accessibility: &models.AccessibilityResult{OverallScore: 70.0},
		},
	}
	handler := NewHandler(svc, testConfig())

	payload := `{"url":"https://cdn.example.com/a.png","brand_colors":["#336699"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/audit", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result models.AuditResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Alignment.AlignmentScore != 80.0 || result.Accessibility.OverallScore != 70.0 {
		t.Errorf("result = %+v", result)
	}
}
