package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anime-shed/image-metrics-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/observer"
	"github.com/anime-shed/image-metrics-go/internal/repository"
	"github.com/anime-shed/image-metrics-go/internal/strategy"
	"github.com/anime-shed/image-metrics-go/pkg/models"
)

// ImageAnalysisService fetches remote images and runs the metrics pipeline on them
type ImageAnalysisService interface {
	AnalyzeImage(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisReport, error)

	// Common validation
	ValidateImageURL(imageURL string) error
}

// Timeouts bounds the two phases of a request
type Timeouts struct {
	Fetch    time.Duration
	Analysis time.Duration
}

// imageAnalysisService implements ImageAnalysisService with a single analyzer
type imageAnalysisService struct {
	imageRepo repository.ImageRepository
	analyzer  analyzer.ImageAnalyzer
	events    observer.Subject
	timeouts  Timeouts
}

// NewImageAnalysisService creates a new image analysis service
func NewImageAnalysisService(
	imageRepository repository.ImageRepository,
	imageAnalyzer analyzer.ImageAnalyzer,
	events observer.Subject,
	timeouts Timeouts,
) ImageAnalysisService {
	return &imageAnalysisService{
		imageRepo: imageRepository,
		analyzer:  imageAnalyzer,
		events:    events,
		timeouts:  timeouts,
	}
}

// AnalyzeImage fetches request.URL and returns its analysis report
func (s *imageAnalysisService) AnalyzeImage(ctx context.Context, request models.AnalysisRequest) (*models.AnalysisReport, error) {
	if err := s.ValidateImageURL(request.URL); err != nil {
		return nil, apperrors.NewValidationError("invalid image URL", err)
	}
	options, err := optionsFor(request)
	if err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	fetchCtx, cancelFetch := withOptionalTimeout(ctx, s.timeouts.Fetch)
	img, format, err := s.imageRepo.FetchImage(fetchCtx, request.URL)
	cancelFetch()
	if err != nil {
		s.publish(ctx, observer.AnalysisEvent{
			EventType:      observer.ImageFetchFailed,
			Source:         request.URL,
			ProcessingTime: time.Since(fetchStart),
			ErrorMessage:   err.Error(),
		})
		return nil, fetchError(err)
	}
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.ImageFetched,
		Source:         request.URL,
		ProcessingTime: time.Since(fetchStart),
		Success:        true,
		Metadata:       map[string]interface{}{"format": format},
	})

	s.publish(ctx, observer.AnalysisEvent{EventType: observer.AnalysisStarted, Source: request.URL})
	analysisStart := time.Now()
	analysisCtx, cancelAnalysis := withOptionalTimeout(ctx, s.timeouts.Analysis)
	defer cancelAnalysis()

	result, err := s.analyzer.AnalyzeWithOptions(analysisCtx, img, options)
	if err != nil {
		s.publish(ctx, observer.AnalysisEvent{
			EventType:      observer.AnalysisFailed,
			Source:         request.URL,
			ProcessingTime: time.Since(analysisStart),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	report := result.Report
	report.Source = request.URL
	report.Image.Format = format

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		Source:         request.URL,
		ProcessingTime: time.Since(analysisStart),
		Success:        true,
		Metadata: map[string]interface{}{
			observer.MetadataBlurLevel: report.Quality.BlurLevel,
			"report_id":                report.ID,
		},
	})
	return report, nil
}

// ValidateImageURL validates the image URL
func (s *imageAnalysisService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

func (s *imageAnalysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// optionsFor applies the request's mode and overrides on top of the defaults
func optionsFor(request models.AnalysisRequest) (analyzer.AnalysisOptions, error) {
	options := analyzer.DefaultOptions()
	mode, err := strategy.ForName(request.Mode)
	if err != nil {
		return options, apperrors.NewValidationError("invalid analysis mode", err)
	}
	options = mode.Apply(options)

	if request.K < 0 {
		return options, apperrors.NewValidationError(fmt.Sprintf("k must be positive (got %d)", request.K), nil)
	}
	if request.K > 0 {
		options = options.WithClusters(request.K)
	}
	if request.Seed != nil {
		options = options.WithSeed(*request.Seed)
	}
	if err := options.Validate(); err != nil {
		return options, apperrors.NewValidationError("invalid analysis options", err)
	}
	return options, nil
}

// fetchError keeps typed storage errors and classifies the rest
func fetchError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("image fetch timed out", err)
	}
	return apperrors.NewNetworkError("failed to fetch image", err)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
