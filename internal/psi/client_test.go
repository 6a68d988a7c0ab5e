package psi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeBody = `{
  "lighthouseResult": {
    "categories": {"performance": {"score": 0.43}},
    "audits": {
      "largest-contentful-paint": {"numericValue": 4200.5},
      "cumulative-layout-shift": {"numericValue": 0.12}
    }
  },
  "loadingExperience": {
    "metrics": {"INTERACTION_TO_NEXT_PAINT": {"percentile": 310}},
    "overall_category": "AVERAGE"
  }
}`

func TestFetchMetrics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://example.com", r.URL.Query().Get("url"))
		assert.Equal(t, "mobile", r.URL.Query().Get("strategy"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fakeBody))
	}))
	defer ts.Close()

	client := NewClientWithBase("", 5*time.Second, ts.URL)
	m, err := client.FetchMetrics(context.Background(), "https://example.com", "")
	require.NoError(t, err)
	assert.InDelta(t, 43.0, m.PerformanceScore, 0.001)
	assert.InDelta(t, 4200.5, m.LCPMs, 0.001)
	assert.InDelta(t, 0.12, m.CLS, 0.001)
	assert.InDelta(t, 310.0, m.INPMs, 0.001)
	assert.Equal(t, "crux", m.FieldDataSource)
}

func TestFetchMetricsErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClientWithBase("", 5*time.Second, ts.URL)
	_, err := client.FetchMetrics(context.Background(), "https://example.com", "mobile")
	assert.Error(t, err)
}
