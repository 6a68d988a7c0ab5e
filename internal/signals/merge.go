package signals

import (
	"sort"

	"leadscout-go-pipeline/internal/contacts"
	"leadscout-go-pipeline/internal/models"
	"leadscout-go-pipeline/internal/vendors"
)

// pageInput is everything one fetched page contributes to the site record.
type pageInput struct {
	url       string
	detection vendors.Detection
	tracking  map[string]bool
	chat      models.ChatbotSignal
	booking   models.BookingSignal
	contact   models.ContactBundle
	seo       models.SEOMeta
	homepage  bool
}

// mergePage applies the precedence rules:
//   - tracking: boolean OR per tool, flags never transition true→false
//   - chatbot: first page with hasChatbot wins, later pages never overwrite
//   - booking: highest confidence wins, ties keep the earlier signal
//   - contact: union with re-dedupe, monotonic growth
//   - seo: homepage values only
func mergePage(rec *models.SiteSignalRecord, in pageInput) {
	for tool, present := range in.tracking {
		if present {
			rec.Tracking[tool] = true
		}
	}

	if in.chat.HasChatbot && !rec.Chatbot.HasChatbot {
		rec.Chatbot = in.chat
	}

	if in.booking.Confidence > rec.Booking.Confidence {
		rec.Booking = in.booking
	}

	rec.Contact = contacts.Merge(rec.Contact, in.contact)

	if in.homepage {
		rec.SEO = in.seo
	}

	rec.Technologies = vendors.Dedupe(append(rec.Technologies, in.detection.Technologies...))
	rec.TrackingIDs = unionStrings(rec.TrackingIDs, in.detection.TrackingIDs)
	rec.LegalPages = unionSorted(rec.LegalPages, in.detection.LegalPages)
	rec.CrawledPages = append(rec.CrawledPages, in.url)
}

func unionStrings(a, b []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func unionSorted(a, b []string) []string {
	out := unionStrings(a, b)
	sort.Strings(out)
	return out
}
