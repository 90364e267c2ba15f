package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/image-metrics-go/internal/config"
	apperrors "github.com/anime-shed/image-metrics-go/internal/errors"
	"github.com/anime-shed/image-metrics-go/internal/observer"
	"github.com/anime-shed/image-metrics-go/pkg/models"
)

type stubService struct {
	report *models.AnalysisReport
	err    error
	got    models.AnalysisRequest
}

func (s *stubService) AnalyzeImage(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisReport, error) {
	s.got = req
	return s.report, s.err
}

func (s *stubService) ValidateImageURL(string) error { return nil }

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHandler(svc *stubService, metrics *observer.MetricsObserver) http.Handler {
	cfg := config.Default()
	cfg.RequestTimeout = time.Second
	return NewHandler(svc, metrics, cfg)
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(&stubService{}, nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, version, body["version"])
}

func TestAnalyze_Success(t *testing.T) {
	svc := &stubService{report: &models.AnalysisReport{
		ID:              "abc",
		Quality:         models.QualityReport{BlurLevel: "Sharp"},
		Recommendations: []string{"image appears well-balanced."},
	}}
	h := newTestHandler(svc, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze",
		strings.NewReader(`{"url":"https://example.com/a.png","seed":42,"k":3}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var report models.AnalysisReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "abc", report.ID)
	assert.Equal(t, "Sharp", report.Quality.BlurLevel)

	assert.Equal(t, "https://example.com/a.png", svc.got.URL)
	require.NotNil(t, svc.got.Seed)
	assert.Equal(t, int64(42), *svc.got.Seed)
	assert.Equal(t, 3, svc.got.K)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"missing url", `{}`, nil, http.StatusBadRequest},
		{"malformed json", `{"url":`, nil, http.StatusBadRequest},
		{"validation", `{"url":"ftp://x"}`, apperrors.NewValidationError("invalid image URL", nil), http.StatusBadRequest},
		{"not found", `{"url":"https://x/a.png"}`, apperrors.NewNotFoundError("image not found", nil), http.StatusNotFound},
		{"fetch failure", `{"url":"https://x/a.png"}`, apperrors.NewNetworkError("failed", nil), http.StatusBadGateway},
		{"timeout", `{"url":"https://x/a.png"}`, apperrors.NewTimeoutError("timed out", nil), http.StatusGatewayTimeout},
		{"untyped", `{"url":"https://x/a.png"}`, assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&stubService{err: tt.err}, nil)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusText(tt.wantStatus), resp.Error)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observer.NewMetricsObserver()
	metrics.OnEvent(context.Background(), observer.AnalysisEvent{EventType: observer.AnalysisStarted})
	metrics.OnEvent(context.Background(), observer.AnalysisEvent{
		EventType: observer.AnalysisCompleted,
		Metadata:  map[string]interface{}{observer.MetadataBlurLevel: "Sharp"},
	})
	h := newTestHandler(&stubService{}, metrics)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var snapshot observer.MetricsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, int64(1), snapshot.TotalAnalyses)
	assert.Equal(t, int64(1), snapshot.SuccessfulAnalyses)
	assert.Equal(t, int64(1), snapshot.BlurLevels["Sharp"])
}
