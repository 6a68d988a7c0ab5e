// Package psi is a typed client for the PageSpeed Insights v5 API, which
// also carries CrUX field data when Google has it for the origin.
package psi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"leadscout-go-pipeline/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBase is used by tests to point at a fake API.
func NewClientWithBase(apiKey string, timeout time.Duration, baseURL string) *Client {
	c := NewClient(apiKey, timeout)
	c.baseURL = baseURL
	return c
}

// psiResponse mirrors only the fields we consume.
type psiResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			NumericValue float64 `json:"numericValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
	LoadingExperience struct {
		Metrics map[string]struct {
			Percentile float64 `json:"percentile"`
		} `json:"metrics"`
		OverallCategory string `json:"overall_category"`
	} `json:"loadingExperience"`
}

// FetchMetrics runs one PageSpeed analysis. Errors here are fatal-to-lead
// by the pipeline's taxonomy; the caller decides what that means.
func (c *Client) FetchMetrics(ctx context.Context, siteURL, strategy string) (models.PerfMetrics, error) {
	if strategy == "" {
		strategy = "mobile"
	}
	q := url.Values{}
	q.Set("url", siteURL)
	q.Set("strategy", strategy)
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.PerfMetrics{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return models.PerfMetrics{}, fmt.Errorf("pagespeed request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.PerfMetrics{}, fmt.Errorf("pagespeed status %d", resp.StatusCode)
	}

	var body psiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.PerfMetrics{}, fmt.Errorf("pagespeed decode: %w", err)
	}

	m := models.PerfMetrics{
		PerformanceScore: body.LighthouseResult.Categories.Performance.Score * 100,
	}
	if a, ok := body.LighthouseResult.Audits["largest-contentful-paint"]; ok {
		m.LCPMs = a.NumericValue
	}
	if a, ok := body.LighthouseResult.Audits["cumulative-layout-shift"]; ok {
		m.CLS = a.NumericValue
	}
	if fm, ok := body.LoadingExperience.Metrics["INTERACTION_TO_NEXT_PAINT"]; ok {
		m.INPMs = fm.Percentile
		m.FieldDataSource = "crux"
	}
	return m, nil
}
