package analyzer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/eventdeck/pkg/analyzer"
	"github.com/aretw0/eventdeck/pkg/domain"
)

type fakeBackend struct {
	t         *testing.T
	status    int
	body      any
	health    any
	delay     time.Duration
	lastImage map[string]string
}

func (f *fakeBackend) server() *httptest.Server {
	r := chi.NewRouter()
	r.Post("/api/events/analyze-image", f.analyze)
	r.Post("/api/events/analyze-url", f.analyze)
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.health)
	})
	srv := httptest.NewServer(r)
	f.t.Cleanup(srv.Close)
	return srv
}

func (f *fakeBackend) analyze(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "bad json"})
		return
	}
	f.lastImage = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, f.status, f.body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func okBody() map[string]any {
	return map[string]any{
		"success": true,
		"analysis": map[string]any{
			"event_name":  "Procesión del Silencio",
			"date":        "2026-03-27",
			"time":        "21:00",
			"description": "Recorrido por el centro histórico",
			"location":    "Catedral",
			"confidence":  "high",
		},
		"metadata": map[string]any{
			"analyzed_at": "2026-03-01T10:00:00Z",
			"model":       "gpt-4o",
			"tokens_used": 812,
		},
	}
}

func TestAnalyzeImage_Success(t *testing.T) {
	be := &fakeBackend{t: t, status: http.StatusOK, body: okBody()}
	srv := be.server()

	var events []domain.AnalysisEvent
	c := analyzer.New(srv.URL+"/", analyzer.WithLifecycleHooks(domain.LifecycleHooks{
		OnAnalysis: func(_ context.Context, e *domain.AnalysisEvent) { events = append(events, *e) },
	}))

	res, err := c.AnalyzeImage(context.Background(), "data:image/png;base64,AAAA", "")
	require.NoError(t, err)
	assert.Equal(t, "Procesión del Silencio", res.Analysis.EventName)
	assert.Equal(t, analyzer.ConfidenceHigh, res.Analysis.Confidence)
	assert.Equal(t, 812, res.Metadata.TokensUsed)

	assert.Equal(t, analyzer.DefaultTitle, be.lastImage["title"])
	assert.Equal(t, "data:image/png;base64,AAAA", be.lastImage["image"])

	require.Len(t, events, 1)
	assert.Equal(t, analyzer.PathAnalyzeImage, events[0].Endpoint)
	assert.NoError(t, events[0].Err)
}

func TestAnalyzeURL_Success(t *testing.T) {
	body := okBody()
	body["source_url"] = "https://instagram.com/p/abc"
	body["platform"] = "instagram"
	body["post_metadata"] = map[string]any{"author": "hermandad", "description": "Salida 21h"}
	be := &fakeBackend{t: t, status: http.StatusOK, body: body}
	c := analyzer.New(be.server().URL)

	res, err := c.AnalyzeURL(context.Background(), "https://instagram.com/p/abc")
	require.NoError(t, err)
	assert.Equal(t, "instagram", res.Platform)
	require.NotNil(t, res.Post)
	assert.Equal(t, "hermandad", res.Post.Author)
	assert.Equal(t, "https://instagram.com/p/abc", be.lastImage["url"])
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		message string
	}{
		{"service reports failure with message", http.StatusOK, map[string]any{"success": false, "message": "No event found"}, "No event found"},
		{"service reports failure without message", http.StatusOK, map[string]any{"success": false}, "Analysis failed"},
		{"server error prefers message", http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to analyze image", "message": "quota exceeded"}, "quota exceeded"},
		{"bad request falls back to error", http.StatusBadRequest, map[string]any{"success": false, "error": "Image data is required"}, "Image data is required"},
		{"empty error body", http.StatusBadGateway, map[string]any{}, "Failed to analyze image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := &fakeBackend{t: t, status: tt.status, body: tt.body}
			c := analyzer.New(be.server().URL)

			_, err := c.AnalyzeImage(context.Background(), "https://example.com/flyer.jpg", "Flyer")
			var aerr *analyzer.Error
			require.True(t, errors.As(err, &aerr))
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.status, aerr.Status)
		})
	}
}

func TestAnalyze_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := analyzer.New(url).AnalyzeImage(context.Background(), "x", "")
	var aerr *analyzer.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, "Failed to analyze image", aerr.Error())
	assert.Zero(t, aerr.Status)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestAnalyze_Timeout(t *testing.T) {
	be := &fakeBackend{t: t, status: http.StatusOK, body: okBody(), delay: 2 * time.Second}
	c := analyzer.New(be.server().URL, analyzer.WithAnalyzeTimeout(50*time.Millisecond))

	_, err := c.AnalyzeImage(context.Background(), "x", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "Failed to analyze image", err.Error())
}

func TestAnalyze_Contract(t *testing.T) {
	contract, err := analyzer.LoadContract(context.Background())
	require.NoError(t, err)

	t.Run("valid response passes", func(t *testing.T) {
		be := &fakeBackend{t: t, status: http.StatusOK, body: okBody()}
		c := analyzer.New(be.server().URL, analyzer.WithContract(contract))
		_, err := c.AnalyzeImage(context.Background(), "x", "")
		assert.NoError(t, err)
	})

	t.Run("unknown confidence is rejected", func(t *testing.T) {
		body := okBody()
		body["analysis"].(map[string]any)["confidence"] = "certain"
		be := &fakeBackend{t: t, status: http.StatusOK, body: body}
		c := analyzer.New(be.server().URL, analyzer.WithContract(contract))

		_, err := c.AnalyzeImage(context.Background(), "x", "")
		require.Error(t, err)
		assert.Equal(t, "Unexpected response from analysis service", err.Error())
	})

	t.Run("empty image is rejected before sending", func(t *testing.T) {
		be := &fakeBackend{t: t, status: http.StatusOK, body: okBody()}
		c := analyzer.New(be.server().URL, analyzer.WithContract(contract))

		_, err := c.AnalyzeImage(context.Background(), "", "")
		require.Error(t, err)
		assert.Nil(t, be.lastImage, "request never reached the service")
	})

	assert.Contains(t, string(analyzer.Spec()), "/api/events/analyze-image")
}

func TestHealthy(t *testing.T) {
	tests := []struct {
		name   string
		health any
		want   bool
	}{
		{"all ready", map[string]string{"status": "healthy", "mongodb": "connected", "openai": "configured"}, true},
		{"db down", map[string]string{"status": "healthy", "mongodb": "disconnected", "openai": "configured"}, false},
		{"no key", map[string]string{"status": "healthy", "mongodb": "connected", "openai": "missing"}, false},
		{"degraded", map[string]string{"status": "degraded", "mongodb": "connected", "openai": "configured"}, false},
		{"garbage", "not an object", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := &fakeBackend{t: t, health: tt.health}
			c := analyzer.New(be.server().URL)
			assert.Equal(t, tt.want, c.Healthy(context.Background()))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		assert.False(t, analyzer.New(url, analyzer.WithHealthTimeout(time.Second)).Healthy(context.Background()))
	})
}

func TestEncodeImageFile(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "flyer.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\nrest"), 0o600))

	uri, err := analyzer.EncodeImageFile(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)

	blob := filepath.Join(dir, "flyer.bin")
	require.NoError(t, os.WriteFile(blob, []byte("\xff\xd8\xff\xe0jpeg"), 0o600))
	uri, err = analyzer.EncodeImageFile(blob)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"), uri)

	_, err = analyzer.EncodeImageFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
