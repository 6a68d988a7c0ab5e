// Package signals orchestrates one site's analysis: homepage fetch, ranked
// secondary fetches, per-page extraction, and deterministic merging into a
// single SiteSignalRecord.
package signals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leadscout-go-pipeline/internal/contacts"
	"leadscout-go-pipeline/internal/crawler"
	"leadscout-go-pipeline/internal/models"
	"leadscout-go-pipeline/internal/ranker"
	"leadscout-go-pipeline/internal/seo"
	"leadscout-go-pipeline/internal/vendors"
	"leadscout-go-pipeline/pkg/logger"
)

// ErrHomepageFetch marks the fatal-to-lead case: without a homepage there
// is no record at all.
var ErrHomepageFetch = errors.New("homepage fetch failed")

type Collector struct {
	client        *crawler.Client
	maxExtraPages int
	checkRobots   bool
	log           *logger.Logger
}

func NewCollector(client *crawler.Client, maxExtraPages int, checkRobots bool, log *logger.Logger) *Collector {
	if log == nil {
		log = logger.New()
	}
	return &Collector{
		client:        client,
		maxExtraPages: maxExtraPages,
		checkRobots:   checkRobots,
		log:           log,
	}
}

// Collect fetches the homepage plus up to the configured number of ranked
// internal pages and merges every successful page into one record. The
// homepage fetch is the only fatal step; a failed secondary page is simply
// excluded. A successful homepage fetch always yields a record with at
// least one crawled page.
func (c *Collector) Collect(ctx context.Context, websiteURL string) (*models.SiteSignalRecord, error) {
	home, err := c.client.Fetch(ctx, websiteURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrHomepageFetch, websiteURL, err)
	}

	rec := models.NewSiteSignalRecord()
	mergePage(rec, c.extractPage(home, true))

	candidates := ranker.Rank(home.HTML, home.FinalURL, c.maxExtraPages)
	allowed := func(string) bool { return true }
	if c.checkRobots && len(candidates) > 0 {
		allowed = c.client.RobotsTester(ctx, home.FinalURL)
	}

	for _, link := range candidates {
		if !allowed(link) {
			c.log.Infof("robots disallows %s, skipping", link)
			continue
		}
		page, err := c.client.Fetch(ctx, link)
		if err != nil {
			c.log.Warnf("secondary page %s: %v", link, err)
			continue
		}
		mergePage(rec, c.extractPage(page, false))
	}

	return rec, nil
}

// extractPage runs detector and extractor over one fetched page and shapes
// the result for merging.
func (c *Collector) extractPage(page models.PageFetchResult, homepage bool) pageInput {
	detection := vendors.Detect(page.HTML, page.FinalURL, page.Headers)

	in := pageInput{
		url:       page.FinalURL,
		detection: detection,
		tracking:  vendors.DetectTracking(page.HTML),
		contact:   contacts.Extract(page.HTML, page.FinalURL),
		homepage:  homepage,
	}

	if hit, ok := vendors.DetectChat(page.HTML); ok {
		in.chat = models.ChatbotSignal{
			HasChatbot:  true,
			Vendor:      hit.Name,
			Confidence:  hit.Confidence,
			EvidenceURL: page.FinalURL,
		}
	}
	if hit, ok := vendors.DetectBooking(page.HTML); ok {
		in.booking = models.BookingSignal{
			Type:        hit.Name,
			Evidence:    hit.Evidence,
			Confidence:  hit.Confidence,
			EvidenceURL: page.FinalURL,
		}
	} else if fallback, ok := bookingFallback(page); ok {
		in.booking = fallback
	}

	if homepage {
		in.seo = seo.Extract(page.HTML)
	}
	return in
}

// bookingFallback covers sites without a known booking vendor: an
// appointment-flavored form or CTA still signals bookability, at lower
// confidence than any vendor match.
func bookingFallback(page models.PageFetchResult) (models.BookingSignal, bool) {
	low := strings.ToLower(page.HTML)
	wantsBooking := containsAny(low,
		"appointment", "book now", "book online", "book an", "book your",
		"schedule now", "request appointment")
	if !wantsBooking {
		return models.BookingSignal{}, false
	}
	if strings.Contains(low, "<form") {
		return models.BookingSignal{
			Type:        "form",
			Evidence:    "appointment form",
			Confidence:  0.6,
			EvidenceURL: page.FinalURL,
		}, true
	}
	return models.BookingSignal{
		Type:        "cta",
		Evidence:    "booking call-to-action",
		Confidence:  0.5,
		EvidenceURL: page.FinalURL,
	}, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
