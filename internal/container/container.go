package container

import (
	"context"
	"fmt"
	"net/http"

	"go-visual-auditor/internal/accessibility"
	"go-visual-auditor/internal/config"
	"go-visual-auditor/internal/imaging"
	"go-visual-auditor/internal/logger"
	"go-visual-auditor/internal/ocr"
	"go-visual-auditor/internal/palette"
	"go-visual-auditor/internal/service"
	"go-visual-auditor/internal/storage"
	"go-visual-auditor/internal/store"
	"go-visual-auditor/internal/transport"
	"go-visual-auditor/internal/wcag"
)

// Container holds all application dependencies
type Container struct {
	config       *config.Config
	imageFetcher storage.ImageFetcher
	scoreStore   store.ScoreStore
	auditService service.AuditService
	handler      http.Handler
}

// NewContainer builds the dependency graph from configuration
func NewContainer(cfg *config.Config) (*Container, error) {
	codec := imaging.NewStdCodec()
	imageFetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout, cfg.MaxRequestBodySize)

	aligner := palette.NewAligner(palette.DefaultConfig())
	validator := wcag.NewValidator()
	ocrProvider := ocr.NewTesseractProvider(cfg.OCRLanguage, codec)

	scoreStore, err := buildScoreStore(cfg)
	if err != nil {
		return nil, err
	}

	var artifacts storage.ArtifactStore
	if cfg.ArtifactsEnabled() {
		artifacts, err = storage.NewAzureArtifactStore(cfg.AzureAccountName, cfg.AzureAccountKey, cfg.AzureContainer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact store: %w", err)
		}
	}

	auditService := service.NewAuditService(
		imageFetcher,
		codec,
		aligner,
		validator,
		ocrProvider,
		accessibility.DefaultConfig(),
		scoreStore,
		cfg.CacheTTL,
		artifacts,
	)
	handler := transport.NewHandler(auditService, cfg)

	return &Container{
		config:       cfg,
		imageFetcher: imageFetcher,
		scoreStore:   scoreStore,
		auditService: auditService,
		handler:      handler,
	}, nil
}

func buildScoreStore(cfg *config.Config) (store.ScoreStore, error) {
	if !cfg.CacheEnabled() {
		logger.Info("Score caching disabled (no REDIS_ADDR configured)")
		return store.NoopScoreStore{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ImageFetchTimeout)
	defer cancel()

	scoreStore, err := store.NewRedisScoreStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.ImageFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return scoreStore, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases held connections
func (c *Container) Close() error {
	return c.scoreStore.Close()
}
