package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout-go-pipeline/internal/crawler"
	"leadscout-go-pipeline/internal/models"
	"leadscout-go-pipeline/internal/signals"
	"leadscout-go-pipeline/internal/snapshot"
)

const homepageHTML = `<html><head><title>Acme Plumbing</title>
<meta name="description" content="Plumbers in Atlanta">
<script src="https://client.crisp.chat/l.js"></script>
</head><body>
<h1>Acme Plumbing</h1>
<a href="/contact">Contact us</a>
<a href="mailto:info@acmeplumbing.com">Email</a>
<footer>Call us: (404) 762-9615</footer>
</body></html>`

const contactHTML = `<html><head><title>Contact</title></head><body>
<h1>Contact</h1>
<a href="tel:+14047629615">Call</a>
<form action="/submit"><input name="email"></form>
</body></html>`

func fakeSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(body))
		}
	}
	mux.HandleFunc("/", serve(homepageHTML))
	mux.HandleFunc("/contact", serve(contactHTML))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type stubProvider struct {
	score models.LeadScore
	err   error
	calls int
}

func (s *stubProvider) ScoreLead(ctx context.Context, tokens string) (models.LeadScore, error) {
	s.calls++
	return s.score, s.err
}

func newTestRunner(t *testing.T, provider *stubProvider) *Runner {
	t.Helper()
	client := crawler.NewClient(2*time.Second, time.Second, 1<<20)
	opts := Options{
		Collector:    signals.NewCollector(client, 3, false, nil),
		Snapshots:    snapshot.NewBuilder(client, 3, 6000, nil),
		LeadInterval: time.Millisecond,
		Attempts:     2,
	}
	if provider != nil {
		opts.Provider = provider
	}
	return NewRunner(opts)
}

func TestRunScoresReachableLead(t *testing.T) {
	srv := fakeSite(t)
	provider := &stubProvider{score: models.LeadScore{Score: 82, Tier: "hot", Reasons: []string{"no booking tool"}}}
	runner := newTestRunner(t, provider)

	results := runner.Run(context.Background(), []models.LeadRow{{ID: "1", Company: "Acme", URL: srv.URL}})
	require.Len(t, results, 1)
	res := results[0]

	assert.Empty(t, res.Error)
	require.NotNil(t, res.Record)
	assert.True(t, res.Record.Chatbot.HasChatbot)
	assert.Equal(t, "crisp", res.Record.Chatbot.Vendor)
	assert.Contains(t, res.Record.Contact.Emails, "info@acmeplumbing.com")
	assert.Contains(t, res.Record.Contact.Phones, "+14047629615")

	require.NotNil(t, res.Score)
	assert.Equal(t, 82, res.Score.Score)
	assert.Equal(t, 1, provider.calls)
	assert.NotEmpty(t, res.At)
}

func TestRunFatalLeadKeepsBatchGoing(t *testing.T) {
	srv := fakeSite(t)
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	runner := newTestRunner(t, nil)
	results := runner.Run(context.Background(), []models.LeadRow{
		{ID: "1", URL: deadURL},
		{ID: "2", URL: srv.URL},
	})
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].Error)
	assert.Nil(t, results[0].Record)

	assert.Empty(t, results[1].Error)
	assert.NotNil(t, results[1].Record)
}

func TestRunAssignsLeadID(t *testing.T) {
	srv := fakeSite(t)
	runner := newTestRunner(t, nil)
	results := runner.Run(context.Background(), []models.LeadRow{{URL: srv.URL}})
	require.Len(t, results, 1)
	assert.NotEmpty(t, results[0].Lead.ID)
}

func TestScoringFailureIsDegradedNotFatal(t *testing.T) {
	srv := fakeSite(t)
	provider := &stubProvider{err: errors.New("model overloaded")}
	runner := newTestRunner(t, provider)

	results := runner.Run(context.Background(), []models.LeadRow{{ID: "1", URL: srv.URL}})
	require.Len(t, results, 1)
	res := results[0]

	assert.Empty(t, res.Error)
	assert.NotNil(t, res.Record)
	assert.Nil(t, res.Score)
	// retried once before giving up
	assert.Equal(t, 2, provider.calls)
}

func TestRetryStopsOnSuccess(t *testing.T) {
	r := NewRunner(Options{Attempts: 3})
	calls := 0
	err := r.retry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := NewRunner(Options{Attempts: 3})
	calls := 0
	err := r.retry(context.Background(), func() error {
		calls++
		return errors.New("down")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunHonorsCancellation(t *testing.T) {
	srv := fakeSite(t)
	runner := NewRunner(Options{
		Collector:    signals.NewCollector(crawler.NewClient(2*time.Second, time.Second, 1<<20), 0, false, nil),
		LeadInterval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []models.LeadResult, 1)
	go func() {
		done <- runner.Run(ctx, []models.LeadRow{{URL: srv.URL}, {URL: srv.URL}})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		// first lead processed, second blocked on the limiter and dropped
		assert.LessOrEqual(t, len(results), 1)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}
