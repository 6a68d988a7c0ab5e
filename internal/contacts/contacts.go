// Package contacts pulls phone numbers and emails out of raw markup. Five
// independent strategies contribute candidates (anchor schemes, JSON-LD
// business listings, element attributes, likely contact regions, full-body
// sweep); order only widens coverage, never priority. All candidates pass
// through one normalization and dedupe stage.
package contacts

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kaptinlin/jsonrepair"

	"leadscout-go-pipeline/internal/models"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9](?:[a-zA-Z0-9.\-]*[a-zA-Z0-9])?\.[a-zA-Z]{2,}`)
	// NA format with optional country digit, then a generic international shape
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`),
		regexp.MustCompile(`\+\d{1,3}(?:[\s.\-]?\d{2,4}){2,4}`),
	}
	// labeled contexts like "Phone: (404) 762-9615" or "Call us: 404.762.9615"
	labeledPhoneRe = regexp.MustCompile(`(?i)(?:phone|tel|telephone|call us|call|fax|mobile|cell)\s*[:.]?\s*(\+?[\d\s.\-()]{7,20}\d)`)
)

func scanPhones(text string, add func(string)) {
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			add(m)
		}
	}
}

// Extract runs every strategy against the markup and returns the
// deduplicated bundle. Malformed fragments (bad JSON-LD, junk numbers)
// contribute nothing; extraction itself never fails.
func Extract(html, pageURL string) models.ContactBundle {
	var phones []string
	var emails []string

	addPhone := func(raw string) {
		if norm, ok := normalizePhone(raw); ok {
			phones = append(phones, norm)
		}
	}
	addEmail := func(raw string) {
		e := strings.ToLower(strings.TrimSpace(raw))
		if emailRe.MatchString(e) && emailRe.FindString(e) == e {
			emails = append(emails, e)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ContactBundle{Phones: []string{}, Emails: []string{}}
	}

	fromAnchorSchemes(doc, addPhone, addEmail)
	fromStructuredData(doc, addPhone, addEmail)
	fromAttributes(doc, addPhone, addEmail)
	fromContactRegions(doc, addPhone, addEmail)
	fromFullBody(doc, addPhone, addEmail)

	bundle := models.ContactBundle{
		Phones: dedupePhones(phones),
		Emails: dedupeEmails(emails),
	}
	if bundle.Phones == nil {
		bundle.Phones = []string{}
	}
	if bundle.Emails == nil {
		bundle.Emails = []string{}
	}
	return bundle
}

// Merge unions two bundles and re-deduplicates, so site-level contact info
// grows monotonically as pages merge in.
func Merge(a, b models.ContactBundle) models.ContactBundle {
	return models.ContactBundle{
		Phones: dedupePhones(append(append([]string{}, a.Phones...), b.Phones...)),
		Emails: dedupeEmails(append(append([]string{}, a.Emails...), b.Emails...)),
	}
}

// strategy 1: tel:/mailto: anchors are ground truth
func fromAnchorSchemes(doc *goquery.Document, addPhone, addEmail func(string)) {
	doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addPhone(strings.TrimPrefix(href, "tel:"))
	})
	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		addEmail(addr)
	})
}

// strategy 2: schema.org JSON-LD business listings
func fromStructuredData(doc *goquery.Document, addPhone, addEmail func(string)) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			// blocks in the wild are often truncated or carry trailing
			// commas; repair once, then give up silently
			repaired, repairErr := jsonrepair.JSONRepair(raw)
			if repairErr != nil || json.Unmarshal([]byte(repaired), &v) != nil {
				return
			}
		}
		walkStructured(v, addPhone, addEmail)
	})
}

func walkStructured(v any, addPhone, addEmail func(string)) {
	switch t := v.(type) {
	case map[string]any:
		for key, val := range t {
			lk := strings.ToLower(key)
			if s, ok := val.(string); ok {
				switch lk {
				case "telephone", "phone", "faxnumber":
					addPhone(s)
				case "email":
					addEmail(s)
				}
				continue
			}
			walkStructured(val, addPhone, addEmail)
		}
	case []any:
		for _, item := range t {
			walkStructured(item, addPhone, addEmail)
		}
	}
}

// strategy 3: data attributes, aria labels, tel-link titles
func fromAttributes(doc *goquery.Document, addPhone, addEmail func(string)) {
	doc.Find("[data-phone]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-phone"); ok {
			addPhone(v)
		}
	})
	doc.Find("[data-email]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-email"); ok {
			addEmail(v)
		}
	})
	doc.Find("[aria-label]").Each(func(_ int, s *goquery.Selection) {
		label, _ := s.Attr("aria-label")
		scanPhones(label, addPhone)
		for _, m := range emailRe.FindAllString(label, -1) {
			addEmail(m)
		}
	})
	doc.Find(`a[href^="tel:"][title]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("title"); ok {
			addPhone(v)
		}
	})
}

// strategy 4: text of structurally-likely contact regions plus labeled
// patterns anywhere
func fromContactRegions(doc *goquery.Document, addPhone, addEmail func(string)) {
	regions := `footer, header, address, [class*="contact"], [id*="contact"], [class*="phone"], [id*="phone"], [class*="address"]`
	doc.Find(regions).Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		scanPhones(text, addPhone)
		for _, m := range emailRe.FindAllString(text, -1) {
			addEmail(m)
		}
	})
	for _, m := range labeledPhoneRe.FindAllStringSubmatch(doc.Text(), -1) {
		addPhone(m[1])
	}
}

// strategy 5: fallback sweep over all visible text; runs last, so dropping
// script/style nodes here cannot starve the earlier strategies
func fromFullBody(doc *goquery.Document, addPhone, addEmail func(string)) {
	doc.Find("script,noscript,style").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})
	text := doc.Text()
	scanPhones(text, addPhone)
	for _, m := range emailRe.FindAllString(text, -1) {
		addEmail(m)
	}
}

func dedupeEmails(emails []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range emails {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
