// Package service orchestrates the analysis engines behind the HTTP API:
// image acquisition, score caching, heatmap persistence and the combined
// audit flow.
package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-visual-auditor/internal/accessibility"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/imaging"
	"go-visual-auditor/internal/logger"
	"go-visual-auditor/internal/palette"
	"go-visual-auditor/internal/store"
	"go-visual-auditor/internal/storage"
	"go-visual-auditor/internal/textregion"
	"go-visual-auditor/internal/wcag"
	"go-visual-auditor/pkg/models"
	"go-visual-auditor/pkg/validation"
)

const heatmapDataPrefix = "data:image/png;base64,"

// AuditService exposes every analysis the API serves. Image inputs are
// either raw bytes (multipart upload) or a URL to fetch; exactly one must
// be provided.
type AuditService interface {
	AlignBrand(ctx context.Context, req models.AlignRequest, imageData []byte) (*models.AlignmentResult, error)
	CompareColors(colors []string) (models.ComparisonResult, error)
	EvaluateAccessibility(ctx context.Context, req models.EvaluateRequest, imageData []byte) (*models.AccessibilityResult, error)
	FullAudit(ctx context.Context, req models.AuditRequest, imageData []byte) (*models.AuditResult, error)
}

type auditService struct {
	fetcher      storage.ImageFetcher
	codec        imaging.ImageCodec
	urlValidator *validation.URLValidator

	aligner   *palette.Aligner
	validator *wcag.Validator
	ocr       textregion.OcrProvider
	a11yCfg   accessibility.Config

	scores    store.ScoreStore
	cacheTTL  time.Duration
	artifacts storage.ArtifactStore
}

// NewAuditService wires the service. artifacts may be nil, in which case
// heatmaps are only returned inline.
func NewAuditService(
	fetcher storage.ImageFetcher,
	codec imaging.ImageCodec,
	aligner *palette.Aligner,
	validator *wcag.Validator,
	ocrProvider textregion.OcrProvider,
	a11yCfg accessibility.Config,
	scores store.ScoreStore,
	cacheTTL time.Duration,
	artifacts storage.ArtifactStore,
) AuditService {
	return &auditService{
		fetcher:      fetcher,
		codec:        codec,
		urlValidator: validation.NewURLValidator(),
		aligner:      aligner,
		validator:    validator,
		ocr:          ocrProvider,
		a11yCfg:      a11yCfg,
		scores:       scores,
		cacheTTL:     cacheTTL,
		artifacts:    artifacts,
	}
}

func (s *auditService) AlignBrand(ctx context.Context, req models.AlignRequest, imageData []byte) (*models.AlignmentResult, error) {
	imageData, err := s.resolveImage(ctx, req.URL, imageData)
	if err != nil {
		return nil, err
	}
	return s.alignResolved(ctx, req, imageData, nil)
}

// alignResolved runs alignment over already-resolved bytes. buf may carry
// a pre-decoded pixel buffer for the same bytes; when nil the bytes are
// decoded on a cache miss.
func (s *auditService) alignResolved(ctx context.Context, req models.AlignRequest, imageData []byte, buf *imaging.PixelBuffer) (*models.AlignmentResult, error) {
	params := append([]string{strconv.Itoa(req.KClusters), strconv.FormatBool(req.GenerateHeatmap)}, req.BrandColors...)
	key := store.CacheKey("align", imageData, params...)

	var cached models.AlignmentResult
	if s.lookupScore(ctx, key, &cached) {
		return &cached, nil
	}

	if buf == nil {
		var err error
		buf, err = s.codec.Decode(imageData)
		if err != nil {
			return nil, err
		}
	}

	result, err := s.aligner.Analyze(buf, req.BrandColors, req.KClusters, req.GenerateHeatmap)
	if err != nil {
		return nil, err
	}

	s.persistHeatmap(ctx, key, result)
	s.storeScore(ctx, key, result)
	return result, nil
}

func (s *auditService) CompareColors(colors []string) (models.ComparisonResult, error) {
	return s.validator.Compare(colors)
}

func (s *auditService) EvaluateAccessibility(ctx context.Context, req models.EvaluateRequest, imageData []byte) (*models.AccessibilityResult, error) {
	imageData, err := s.resolveImage(ctx, req.URL, imageData)
	if err != nil {
		return nil, err
	}
	return s.evaluateResolved(ctx, req, imageData, nil)
}

func (s *auditService) evaluateResolved(ctx context.Context, req models.EvaluateRequest, imageData []byte, buf *imaging.PixelBuffer) (*models.AccessibilityResult, error) {
	key := store.CacheKey("a11y", imageData,
		req.ExpectedText, strconv.FormatFloat(req.ConfidenceThreshold, 'f', -1, 64))

	var cached models.AccessibilityResult
	if s.lookupScore(ctx, key, &cached) {
		return &cached, nil
	}

	if buf == nil {
		var err error
		buf, err = s.codec.Decode(imageData)
		if err != nil {
			return nil, err
		}
	}

	result, err := s.newScorer(req.ConfidenceThreshold).Evaluate(ctx, buf, req.ExpectedText)
	if err != nil {
		return nil, err
	}

	s.storeScore(ctx, key, result)
	return result, nil
}

// FullAudit runs palette alignment and accessibility evaluation over one
// decoded image, in parallel. The image is fetched and decoded once and
// the pixel buffer shared by both engines.
func (s *auditService) FullAudit(ctx context.Context, req models.AuditRequest, imageData []byte) (*models.AuditResult, error) {
	imageData, err := s.resolveImage(ctx, req.URL, imageData)
	if err != nil {
		return nil, err
	}

	buf, err := s.codec.Decode(imageData)
	if err != nil {
		return nil, err
	}

	var (
		wg        sync.WaitGroup
		alignment *models.AlignmentResult
		a11y      *models.AccessibilityResult
		alignErr  error
		a11yErr   error
	)

	alignReq := models.AlignRequest{
		BrandColors:     req.BrandColors,
		KClusters:       req.KClusters,
		GenerateHeatmap: req.GenerateHeatmap,
	}
	evalReq := models.EvaluateRequest{ExpectedText: req.ExpectedText}

	wg.Add(2)
	go func() {
		defer wg.Done()
		alignment, alignErr = s.alignResolved(ctx, alignReq, imageData, buf)
	}()
	go func() {
		defer wg.Done()
		a11y, a11yErr = s.evaluateResolved(ctx, evalReq, imageData, buf)
	}()
	wg.Wait()

	if alignErr != nil {
		return nil, alignErr
	}
	if a11yErr != nil {
		return nil, a11yErr
	}
	return &models.AuditResult{Alignment: alignment, Accessibility: a11y}, nil
}

// resolveImage returns the provided bytes or fetches the URL. Exactly one
// source must be present.
func (s *auditService) resolveImage(ctx context.Context, imageURL string, imageData []byte) ([]byte, error) {
	hasURL := strings.TrimSpace(imageURL) != ""
	hasData := len(imageData) > 0

	switch {
	case hasURL && hasData:
		return nil, apperrors.NewInvalidArgumentError("provide either an image upload or a url, not both", nil)
	case !hasURL && !hasData:
		return nil, apperrors.NewInvalidArgumentError("an image upload or a url is required", nil)
	case hasData:
		return imageData, nil
	}

	if err := s.urlValidator.ValidateImageURL(imageURL); err != nil {
		return nil, err
	}
	data, err := s.fetcher.FetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *auditService) newScorer(confidenceThreshold float64) *accessibility.Scorer {
	cfg := s.a11yCfg
	if confidenceThreshold > 0 {
		cfg.ConfidenceThreshold = confidenceThreshold
	}
	return accessibility.NewScorer(s.ocr, cfg)
}

func (s *auditService) lookupScore(ctx context.Context, key string, out interface{}) bool {
	data, err := s.scores.GetScore(ctx, key)
	if err != nil {
		if err != store.ErrScoreNotFound {
			logger.WithError(err).Warn("score cache lookup failed")
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logger.WithError(err).Warn("discarding corrupt cached score")
		return false
	}
	logger.WithField("key", key).Debug("score cache hit")
	return true
}

func (s *auditService) storeScore(ctx context.Context, key string, result interface{}) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.WithError(err).Warn("failed to serialize score for caching")
		return
	}
	if err := s.scores.PutScore(ctx, key, data, s.cacheTTL); err != nil {
		logger.WithError(err).Warn("failed to cache score")
	}
}

// persistHeatmap uploads an inline heatmap to the artifact store and
// attaches the blob URL. Upload failures are logged and the inline data
// URI kept.
func (s *auditService) persistHeatmap(ctx context.Context, key string, result *models.AlignmentResult) {
	if s.artifacts == nil || result.HeatmapBase64 == "" {
		return
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(result.HeatmapBase64, heatmapDataPrefix))
	if err != nil {
		logger.WithError(err).Error("generated heatmap is not valid base64")
		return
	}

	name := strings.TrimPrefix(key, "align:")
	url, err := s.artifacts.SaveHeatmap(ctx, name, raw)
	if err != nil {
		logger.WithFields(logrus.Fields{"name": name}).WithError(err).Warn("heatmap upload failed, keeping inline data")
		return
	}
	result.HeatmapURL = url
	logger.WithField("url", url).Debug(fmt.Sprintf("heatmap persisted (%d bytes)", len(raw)))
}
