// Package ranker scores same-domain hyperlinks by keyword relevance so the
// signal collector can spend its small page budget where contact and
// booking signals concentrate. Rank is a pure function of the link set:
// same markup, same base, same output.
package ranker

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkKeywords weights: contact/booking highest, about/team mid, services
// low, blog and legal noise negative.
var linkKeywords = []struct {
	Keyword string
	Weight  int
}{
	{"contact", 10},
	{"book", 9},
	{"booking", 9},
	{"appointment", 9},
	{"schedule", 8},
	{"quote", 8},
	{"pricing", 8},
	{"estimate", 7},
	{"price", 7},
	{"about", 5},
	{"team", 4},
	{"staff", 4},
	{"location", 4},
	{"service", 3},
	{"blog", -6},
	{"news", -6},
	{"article", -6},
	{"career", -8},
	{"job", -8},
	{"privacy", -8},
	{"terms", -8},
	{"legal", -8},
	{"cookie", -8},
}

var skipExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
	".pdf", ".zip", ".doc", ".docx", ".xls", ".xlsx", ".mp4", ".css", ".js", ".xml",
}

// Rank collects every hyperlink in pageHTML, resolves it against baseURL,
// drops cross-host and asset links, deduplicates, scores, and returns up to
// maxLinks absolute URLs with strictly positive score in descending order.
// Ties keep first-seen order.
func Rank(pageHTML, baseURL string, maxLinks int) []string {
	if maxLinks <= 0 {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	type scored struct {
		url   string
		score int
	}
	seen := map[string]struct{}{}
	var candidates []scored

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
			strings.HasPrefix(href, "javascript:") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		if abs.Host != base.Host {
			return
		}
		full := abs.String()
		if full == base.String() || hasSkippedExtension(abs.Path) {
			return
		}
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		candidates = append(candidates, scored{url: full, score: Score(full)})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var out []string
	for _, c := range candidates {
		if c.score <= 0 {
			break
		}
		out = append(out, c.url)
		if len(out) == maxLinks {
			break
		}
	}
	return out
}

// Score sums keyword weights over the lowercased URL. Scores can go
// negative; only positive scores make a URL a crawl candidate.
func Score(rawURL string) int {
	low := strings.ToLower(rawURL)
	score := 0
	for _, kw := range linkKeywords {
		if strings.Contains(low, kw.Keyword) {
			score += kw.Weight
		}
	}
	return score
}

func hasSkippedExtension(path string) bool {
	low := strings.ToLower(path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(low, ext) {
			return true
		}
	}
	return false
}
