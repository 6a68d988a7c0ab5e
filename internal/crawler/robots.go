package crawler

import (
	"context"
	"net/http"

	"github.com/benjaminestes/robots/v2"
)

// RobotsTester fetches and parses the robots.txt governing siteURL and
// returns an agent-scoped allow function. Any failure along the way yields
// an allow-all tester: robots problems degrade politeness, they never block
// a lead's analysis.
func (c *Client) RobotsTester(ctx context.Context, siteURL string) func(string) bool {
	allowAll := func(string) bool { return true }

	rtxtURL, err := robots.Locate(siteURL)
	if err != nil {
		return allowAll
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rtxtURL, nil)
	if err != nil {
		return allowAll
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return allowAll
	}
	defer resp.Body.Close()

	rtxt, err := robots.From(resp.StatusCode, resp.Body)
	if err != nil {
		return allowAll
	}
	return rtxt.Tester(c.userAgent)
}
