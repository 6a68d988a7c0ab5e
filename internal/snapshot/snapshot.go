// Package snapshot builds a richer per-page view of a site (headings,
// forms, CTA text, social links) and serializes it into a bounded
// plain-text token block for LLM consumption.
package snapshot

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout-go-pipeline/internal/crawler"
	"leadscout-go-pipeline/internal/models"
	"leadscout-go-pipeline/internal/ranker"
	"leadscout-go-pipeline/internal/vendors"
	"leadscout-go-pipeline/pkg/logger"
)

const (
	maxHeadingsPerLevel = 6
	maxListedLinks      = 8
	maxButtons          = 12
	maxFormActions      = 6
)

var socialHosts = []string{
	"facebook.com", "instagram.com", "linkedin.com", "twitter.com", "x.com",
	"youtube.com", "tiktok.com", "yelp.com", "pinterest.com",
}

type Builder struct {
	client        *crawler.Client
	maxExtraPages int
	maxTokenChars int
	log           *logger.Logger
}

func NewBuilder(client *crawler.Client, maxExtraPages, maxTokenChars int, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.New()
	}
	return &Builder{
		client:        client,
		maxExtraPages: maxExtraPages,
		maxTokenChars: maxTokenChars,
		log:           log,
	}
}

// Scrape visits the base page plus ranked extras and returns the snapshot.
// An unreachable or invalid URL yields ok=false with empty tokens rather
// than an error; failed extra pages are skipped.
func (b *Builder) Scrape(ctx context.Context, rawURL string) models.SiteSnapshot {
	base, err := b.client.Fetch(ctx, rawURL)
	if err != nil {
		return models.SiteSnapshot{OK: false, Error: err.Error(), Tokens: ""}
	}

	snap := models.SiteSnapshot{
		OK:   true,
		Base: b.extractPage(base),
	}

	for _, link := range ranker.Rank(base.HTML, base.FinalURL, b.maxExtraPages) {
		page, err := b.client.Fetch(ctx, link)
		if err != nil {
			b.log.Warnf("snapshot extra page %s: %v", link, err)
			continue
		}
		snap.ExtraPages = append(snap.ExtraPages, b.extractPage(page))
	}

	snap.Tokens = b.serialize(base.HTML, snap)
	return snap
}

func (b *Builder) extractPage(page models.PageFetchResult) models.PageSignals {
	ps := models.PageSignals{URL: page.FinalURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return ps
	}

	ps.Title = strings.TrimSpace(doc.Find("title").First().Text())
	ps.MetaDescription = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))

	ps.H1 = headingTexts(doc, "h1")
	ps.H2 = headingTexts(doc, "h2")
	ps.H3 = headingTexts(doc, "h3")

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		if len(ps.MailtoLinks) >= maxListedLinks {
			return
		}
		addr := strings.TrimPrefix(s.AttrOr("href", ""), "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		ps.MailtoLinks = appendUnique(ps.MailtoLinks, strings.ToLower(addr))
	})
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		if len(ps.TelLinks) >= maxListedLinks {
			return
		}
		ps.TelLinks = appendUnique(ps.TelLinks, strings.TrimPrefix(s.AttrOr("href", ""), "tel:"))
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if len(ps.SocialLinks) >= maxListedLinks {
			return
		}
		href := strings.ToLower(s.AttrOr("href", ""))
		for _, host := range socialHosts {
			if strings.Contains(href, host) {
				ps.SocialLinks = appendUnique(ps.SocialLinks, href)
				break
			}
		}
	})

	doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		ps.FormCount++
		if action := strings.TrimSpace(s.AttrOr("action", "")); action != "" && len(ps.FormActions) < maxFormActions {
			ps.FormActions = appendUnique(ps.FormActions, action)
		}
	})

	doc.Find(`button, input[type="submit"], a[class*="btn"], a[class*="button"]`).Each(func(_ int, s *goquery.Selection) {
		if len(ps.Buttons) >= maxButtons {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			text = strings.TrimSpace(s.AttrOr("value", ""))
		}
		if text != "" && len(text) <= 60 {
			ps.Buttons = appendUnique(ps.Buttons, text)
		}
	})

	det := vendors.Detect(page.HTML, page.FinalURL, page.Headers)
	ps.ChatVendors = namesByCategory(det.Technologies, vendors.CategoryChat)
	ps.BookingVendors = namesByCategory(det.Technologies, vendors.CategoryBooking)
	for tool := range vendors.DetectTracking(page.HTML) {
		ps.Tracking = append(ps.Tracking, tool)
	}
	sort.Strings(ps.Tracking)

	return ps
}

func namesByCategory(hits []models.VendorHit, category string) []string {
	var names []string
	for _, h := range hits {
		if h.Category == category {
			names = append(names, h.Name)
		}
	}
	return names
}

func headingTexts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if len(out) >= maxHeadingsPerLevel {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func appendUnique(list []string, v string) []string {
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
