package seo

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout-go-pipeline/internal/models"
)

// Extract pulls site-level SEO metadata from markup. Only the homepage's
// values end up in the site record; secondary pages are never consulted.
func Extract(html string) models.SEOMeta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.SEOMeta{}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	desc := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if desc == "" {
		desc = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}

	og := map[string]string{}
	doc.Find(`meta[property^="og:"]`).Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if prop != "" && content != "" {
			og[prop] = content
		}
	})
	if len(og) == 0 {
		og = nil
	}

	return models.SEOMeta{
		Title:       title,
		Description: desc,
		Canonical:   strings.TrimSpace(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		H1:          strings.TrimSpace(doc.Find("h1").First().Text()),
		OG:          og,
	}
}
