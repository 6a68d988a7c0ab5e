// Package pipeline runs leads one at a time: rate-limited, retried where an
// external call is flaky, and never letting a single bad lead take the
// batch down. A fatal lead produces an error artifact; a degraded lead
// keeps whatever fields it managed to fill.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"leadscout-go-pipeline/internal/ai"
	"leadscout-go-pipeline/internal/models"
	"leadscout-go-pipeline/internal/psi"
	"leadscout-go-pipeline/internal/signals"
	"leadscout-go-pipeline/internal/snapshot"
	"leadscout-go-pipeline/pkg/logger"
)

type Runner struct {
	collector  *signals.Collector
	snapshots  *snapshot.Builder
	perf       *psi.Client
	provider   ai.Provider
	limiter    *rate.Limiter
	attempts   int
	retryDelay time.Duration
	strategy   string
	log        *logger.Logger
}

// Options for optional collaborators: a nil perf client skips PageSpeed, a
// nil provider skips scoring.
type Options struct {
	Collector    *signals.Collector
	Snapshots    *snapshot.Builder
	Perf         *psi.Client
	Provider     ai.Provider
	LeadInterval time.Duration
	Attempts     int
	RetryDelay   time.Duration
	PSIStrategy  string
	Log          *logger.Logger
}

func NewRunner(opts Options) *Runner {
	if opts.Log == nil {
		opts.Log = logger.New()
	}
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	interval := opts.LeadInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		collector:  opts.Collector,
		snapshots:  opts.Snapshots,
		perf:       opts.Perf,
		provider:   opts.Provider,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		strategy:   opts.PSIStrategy,
		log:        opts.Log,
	}
}

// Run processes leads sequentially. Third-party rate limits are the binding
// constraint, so pacing comes from a token bucket rather than concurrency.
func (r *Runner) Run(ctx context.Context, leads []models.LeadRow) []models.LeadResult {
	runID := uuid.NewString()
	r.log.Infof("run %s: %d leads", runID, len(leads))

	results := make([]models.LeadResult, 0, len(leads))
	for i, lead := range leads {
		if err := r.limiter.Wait(ctx); err != nil {
			r.log.Errorf("run %s cancelled at lead %d: %v", runID, i, err)
			break
		}
		results = append(results, r.processLead(ctx, lead))
	}
	return results
}

func (r *Runner) processLead(ctx context.Context, lead models.LeadRow) models.LeadResult {
	start := time.Now()
	res := models.LeadResult{Lead: lead, At: time.Now().UTC().Format(time.RFC3339)}
	if res.Lead.ID == "" {
		res.Lead.ID = uuid.NewString()
	}

	var rec *models.SiteSignalRecord
	err := r.retry(ctx, func() error {
		var err error
		rec, err = r.collector.Collect(ctx, lead.URL)
		return err
	})
	if err != nil {
		// fatal-to-lead: the batch continues, the artifact records why
		res.Error = err.Error()
		res.ElapsedMs = time.Since(start).Milliseconds()
		r.log.Errorf("lead %s (%s): %v", res.Lead.ID, lead.URL, err)
		return res
	}
	res.Record = rec

	if r.perf != nil {
		var metrics models.PerfMetrics
		err := r.retry(ctx, func() error {
			var err error
			metrics, err = r.perf.FetchMetrics(ctx, lead.URL, r.strategy)
			return err
		})
		if err != nil {
			res.Error = "pagespeed: " + err.Error()
			res.ElapsedMs = time.Since(start).Milliseconds()
			r.log.Errorf("lead %s pagespeed: %v", res.Lead.ID, err)
			return res
		}
		res.Perf = &metrics
	}

	if r.snapshots != nil {
		snap := r.snapshots.Scrape(ctx, lead.URL)
		if snap.OK {
			res.Tokens = snap.Tokens
		}
	}

	if r.provider != nil && res.Tokens != "" {
		var score models.LeadScore
		err := r.retry(ctx, func() error {
			var err error
			score, err = r.provider.ScoreLead(ctx, res.Tokens)
			return err
		})
		if err != nil {
			// scoring is degraded, not fatal
			r.log.Warnf("lead %s scoring: %v", res.Lead.ID, err)
		} else {
			res.Score = &score
		}
	}

	res.ElapsedMs = time.Since(start).Milliseconds()
	return res
}

// retry wraps an external call with a bounded fixed-delay policy. The core
// components never retry internally.
func (r *Runner) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 && r.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.retryDelay):
			}
		}
		if err = fn(); err == nil {
			return nil
		}
	}
	return err
}
