package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	"github.com/anime-shed/image-metrics-go/internal/config"
	"github.com/anime-shed/image-metrics-go/internal/factory"
	"github.com/anime-shed/image-metrics-go/internal/logger"
	"github.com/anime-shed/image-metrics-go/internal/observer"
	"github.com/anime-shed/image-metrics-go/internal/repository"
	"github.com/anime-shed/image-metrics-go/internal/service"
	"github.com/anime-shed/image-metrics-go/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config               *config.Config
	imageAnalyzer        analyzer.ImageAnalyzer
	imageRepository      repository.ImageRepository
	imageAnalysisService service.ImageAnalysisService
	events               *observer.EventPublisher
	metrics              *observer.MetricsObserver
	handler              http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	sources, err := factory.RemoteSources(factory.NewStorageFactory(cfg), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create image sources: %w", err)
	}
	imageRepository := repository.NewImageRepository(sources)

	imageAnalyzer, err := analyzer.NewImageAnalyzer(analyzer.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	imageAnalysisService := service.NewImageAnalysisService(imageRepository, imageAnalyzer, events, service.Timeouts{
		Fetch:    cfg.ImageFetchTimeout,
		Analysis: cfg.AnalysisTimeout,
	})
	handler := transport.NewHandler(imageAnalysisService, metrics, cfg)

	return &Container{
		config:               cfg,
		imageAnalyzer:        imageAnalyzer,
		imageRepository:      imageRepository,
		imageAnalysisService: imageAnalysisService,
		events:               events,
		metrics:              metrics,
		handler:              handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Metrics returns the collected analysis counters
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases the analyzer's workers
func (c *Container) Close() error {
	return c.imageAnalyzer.Close()
}
