package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-visual-auditor/internal/config"
	apperrors "go-visual-auditor/internal/errors"
	"go-visual-auditor/internal/logger"
	"go-visual-auditor/internal/service"
	"go-visual-auditor/pkg/models"
)

// NewHandler builds the HTTP router over the audit service.
func NewHandler(audits service.AuditService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/brand/align", alignBrand(audits, cfg))
	r.POST("/colors/compare", compareColors(audits))
	r.POST("/wcag/evaluate", evaluateAccessibility(audits, cfg))
	r.POST("/audit", fullAudit(audits, cfg))

	return r
}

func alignBrand(audits service.AuditService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequestStart(c, "brand alignment")

		var req models.AlignRequest
		imageData, ok := bindImageRequest(c, &req)
		if !ok {
			return
		}

		result, err := audits.AlignBrand(ctx, req, imageData)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "brand alignment failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"alignment_score":    result.AlignmentScore,
			"pixels":             result.TotalPixelsAnalyzed,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Brand alignment completed")

		c.JSON(http.StatusOK, result)
	}
}

func compareColors(audits service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		logRequestStart(c, "color comparison")

		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result, err := audits.CompareColors(req.Colors)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "color comparison failed", err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func evaluateAccessibility(audits service.AuditService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequestStart(c, "accessibility evaluation")

		var req models.EvaluateRequest
		imageData, ok := bindImageRequest(c, &req)
		if !ok {
			return
		}

		result, err := audits.EvaluateAccessibility(ctx, req, imageData)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "accessibility evaluation failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"overall_score":      result.OverallScore,
			"regions":            len(result.Regions),
			"inconclusive":       result.Inconclusive,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Accessibility evaluation completed")

		c.JSON(http.StatusOK, result)
	}
}

func fullAudit(audits service.AuditService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logRequestStart(c, "full audit")

		var req models.AuditRequest
		imageData, ok := bindImageRequest(c, &req)
		if !ok {
			return
		}

		result, err := audits.FullAudit(ctx, req, imageData)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "audit failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"alignment_score":    result.Alignment.AlignmentScore,
			"overall_score":      result.Accessibility.OverallScore,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Full audit completed")

		c.JSON(http.StatusOK, result)
	}
}

// bindImageRequest populates req from either a JSON body or a multipart
// form with an "image" file part. Returns the uploaded bytes (nil for
// JSON requests) and whether binding succeeded; on failure the error
// response has already been written.
func bindImageRequest(c *gin.Context, req interface{}) ([]byte, bool) {
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return nil, false
		}
		return nil, true
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "multipart request requires an \"image\" file part", err)
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded image", err)
		return nil, false
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded image", err)
		return nil, false
	}

	if err := bindMultipartFields(c, req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid form fields", err)
		return nil, false
	}
	return imageData, true
}

// bindMultipartFields maps form values onto the request structs used by
// the image endpoints.
func bindMultipartFields(c *gin.Context, req interface{}) error {
	switch r := req.(type) {
	case *models.AlignRequest:
		r.BrandColors = c.PostFormArray("brand_colors")
		if v := c.PostForm("k_clusters"); v != "" {
			k, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid k_clusters %q", v)
			}
			r.KClusters = k
		}
		r.GenerateHeatmap = c.PostForm("generate_heatmap") == "true"
	case *models.EvaluateRequest:
		r.ExpectedText = c.PostForm("expected_text")
		if v := c.PostForm("confidence_threshold"); v != "" {
			threshold, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid confidence_threshold %q", v)
			}
			r.ConfidenceThreshold = threshold
		}
	case *models.AuditRequest:
		r.BrandColors = c.PostFormArray("brand_colors")
		if v := c.PostForm("k_clusters"); v != "" {
			k, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid k_clusters %q", v)
			}
			r.KClusters = k
		}
		r.GenerateHeatmap = c.PostForm("generate_heatmap") == "true"
		r.ExpectedText = c.PostForm("expected_text")
	default:
		return fmt.Errorf("unsupported request type %T", req)
	}
	return nil
}

func isMultipart(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "multipart/form-data"
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func logRequestStart(c *gin.Context, operation string) {
	logger.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"user_agent": c.Request.UserAgent(),
		"ip":         c.ClientIP(),
	}).Info("Processing " + operation + " request")
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
