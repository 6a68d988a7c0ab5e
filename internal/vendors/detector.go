// Package vendors is a closed-world technology matcher. Curated pattern
// tables are tested against script sources plus inline bodies, and
// separately against the full markup; response headers contribute
// server/CDN entries. Output is deduplicated by (name, category) keeping
// max confidence, which makes detection idempotent and order-independent.
package vendors

import (
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadscout-go-pipeline/internal/models"
)

// Detection is the broad detector output consumed by scoring and reports.
type Detection struct {
	Technologies   []models.VendorHit `json:"technologies"`
	ChatVendors    []models.VendorHit `json:"chatVendors,omitempty"`
	BookingVendors []models.VendorHit `json:"bookingVendors,omitempty"`
	TrackingIDs    []string           `json:"trackingIds,omitempty"`
	LegalPages     []string           `json:"legalPages,omitempty"`
}

// tracking identifier patterns run against the original (case-preserved)
// markup so IDs keep their canonical casing
var (
	gtmIDRe   = regexp.MustCompile(`(?i)\b(GTM-[A-Z0-9]{4,})\b`)
	ga4IDRe   = regexp.MustCompile(`(?i)\b(G-[A-Z0-9]{6,})\b`)
	uaIDRe    = regexp.MustCompile(`(?i)\b(UA-\d{4,10}-\d{1,4})\b`)
	awIDRe    = regexp.MustCompile(`(?i)\b(AW-\d{6,})\b`)
	fbPixelRe = regexp.MustCompile(`fbq\(\s*['"]init['"]\s*,\s*['"](\d{6,18})['"]`)
)

// Detect runs every table against the page. Empty input yields an empty
// Detection, never a panic or error.
func Detect(html, baseURL string, headers http.Header) Detection {
	scriptBlob, lowHTML := surfaces(html)

	var hits []models.VendorHit
	for _, table := range allTables {
		hits = append(hits, matchTable(table, scriptBlob, lowHTML)...)
	}
	hits = append(hits, generatorHits(html)...)
	hits = append(hits, HeaderHits(headers)...)

	return Detection{
		Technologies:   Dedupe(hits),
		ChatVendors:    Dedupe(matchTable(chatPatterns, scriptBlob, lowHTML)),
		BookingVendors: Dedupe(matchTable(bookingPatterns, scriptBlob, lowHTML)),
		TrackingIDs:    TrackingIDs(html),
		LegalPages:     LegalPages(html, baseURL),
	}
}

// surfaces builds the two lowercased match surfaces: concatenated script
// src attributes + inline script bodies, and the whole markup.
func surfaces(html string) (scriptBlob, lowHTML string) {
	lowHTML = strings.ToLower(html)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return lowHTML, lowHTML
	}
	var sb strings.Builder
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			sb.WriteString(src)
			sb.WriteByte('\n')
		}
		if body := s.Text(); body != "" {
			sb.WriteString(body)
			sb.WriteByte('\n')
		}
	})
	return strings.ToLower(sb.String()), lowHTML
}

// matchTable is the shared primitive: a pattern hits when it matches either
// surface.
func matchTable(table []Pattern, scriptBlob, lowHTML string) []models.VendorHit {
	var hits []models.VendorHit
	for _, p := range table {
		evidence := p.Re.FindString(scriptBlob)
		if evidence == "" {
			evidence = p.Re.FindString(lowHTML)
		}
		if evidence == "" {
			continue
		}
		hits = append(hits, models.VendorHit{
			Name:       p.Name,
			Category:   p.Category,
			Confidence: p.Confidence,
			Evidence:   evidence,
		})
	}
	return hits
}

// DetectChat returns the best chat-widget hit for one page.
func DetectChat(html string) (models.VendorHit, bool) {
	sb, lh := surfaces(html)
	return best(Dedupe(matchTable(chatPatterns, sb, lh)))
}

// DetectBooking returns the best booking-platform hit for one page.
func DetectBooking(html string) (models.VendorHit, bool) {
	sb, lh := surfaces(html)
	return best(Dedupe(matchTable(bookingPatterns, sb, lh)))
}

// DetectTracking reports per-tool presence booleans for one page.
func DetectTracking(html string) map[string]bool {
	sb, lh := surfaces(html)
	out := map[string]bool{}
	for _, h := range matchTable(trackingPatterns, sb, lh) {
		out[h.Name] = true
	}
	return out
}

func best(hits []models.VendorHit) (models.VendorHit, bool) {
	if len(hits) == 0 {
		return models.VendorHit{}, false
	}
	return hits[0], true
}

// TrackingIDs captures literal container/measurement/pixel identifiers and
// folds them into "KIND:id1,id2" strings.
func TrackingIDs(html string) []string {
	kinds := []struct {
		Label string
		Re    *regexp.Regexp
	}{
		{"GTM", gtmIDRe},
		{"GA4", ga4IDRe},
		{"UA", uaIDRe},
		{"AW", awIDRe},
		{"FB_PIXEL", fbPixelRe},
	}
	var out []string
	for _, k := range kinds {
		seen := map[string]struct{}{}
		var ids []string
		for _, m := range k.Re.FindAllStringSubmatch(html, -1) {
			id := strings.ToUpper(m[1])
			if k.Label == "FB_PIXEL" {
				id = m[1]
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) > 0 {
			out = append(out, k.Label+":"+strings.Join(ids, ","))
		}
	}
	return out
}

// generatorHits turns a generator meta tag into a synthetic technology
// entry, and into a CMS hit when the value names a known CMS.
func generatorHits(html string) []models.VendorHit {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	gen := strings.TrimSpace(doc.Find(`meta[name="generator"]`).AttrOr("content", ""))
	if gen == "" {
		return nil
	}
	hits := []models.VendorHit{{
		Name:       strings.ToLower(gen),
		Category:   CategoryGenerator,
		Confidence: 0.9,
		Evidence:   "meta generator",
	}}
	lowGen := strings.ToLower(gen)
	for _, cms := range knownCMSNames {
		if strings.Contains(lowGen, cms) {
			hits = append(hits, models.VendorHit{
				Name:       cms,
				Category:   CategoryCMS,
				Confidence: 0.95,
				Evidence:   "generator: " + lowGen,
			})
			break
		}
	}
	return hits
}

// HeaderHits reads server banners and provider-specific headers. Markup
// never participates here.
func HeaderHits(headers http.Header) []models.VendorHit {
	if headers == nil {
		return nil
	}
	var hits []models.VendorHit
	add := func(name, category, evidence string) {
		hits = append(hits, models.VendorHit{Name: name, Category: category, Confidence: 0.9, Evidence: evidence})
	}

	server := strings.ToLower(headers.Get("Server"))
	for _, sig := range serverSignatures {
		if strings.Contains(server, sig.Substr) {
			add(sig.Name, sig.Category, "server: "+server)
		}
	}
	powered := strings.ToLower(headers.Get("X-Powered-By"))
	for _, sig := range poweredBySignatures {
		if strings.Contains(powered, sig.Substr) {
			add(sig.Name, sig.Category, "x-powered-by: "+powered)
		}
	}
	if headers.Get("CF-Ray") != "" || headers.Get("CF-Cache-Status") != "" {
		add("cloudflare", CategoryCDN, "cf-ray header")
	}
	if headers.Get("X-Vercel-Id") != "" {
		add("vercel", CategoryCDN, "x-vercel-id header")
	}
	if headers.Get("X-Amz-Cf-Id") != "" {
		add("cloudfront", CategoryCDN, "x-amz-cf-id header")
	}
	if strings.Contains(strings.ToLower(headers.Get("X-Served-By")), "fastly") ||
		strings.Contains(strings.ToLower(headers.Get("Via")), "varnish") {
		add("fastly", CategoryCDN, "x-served-by header")
	}
	if headers.Get("X-Shopify-Stage") != "" || headers.Get("X-ShopId") != "" {
		add("shopify", CategoryEcommerce, "x-shopify header")
	}
	return hits
}

// Dedupe collapses hits by (name, category), keeps the max confidence, and
// sorts descending by confidence with a stable name/category tie-break so
// repeated runs produce byte-identical output.
func Dedupe(hits []models.VendorHit) []models.VendorHit {
	type key struct{ name, category string }
	bestByKey := map[key]models.VendorHit{}
	for _, h := range hits {
		k := key{h.Name, h.Category}
		if cur, ok := bestByKey[k]; !ok || h.Confidence > cur.Confidence {
			bestByKey[k] = h
		}
	}
	out := make([]models.VendorHit, 0, len(bestByKey))
	for _, h := range bestByKey {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// LegalPages resolves every same-page link against baseURL and returns the
// distinct legal-page labels found, sorted. Unparseable links are skipped.
func LegalPages(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	labels := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := ref
		if base != nil {
			abs = base.ResolveReference(ref)
		}
		target := strings.ToLower(abs.String() + " " + s.Text())
		for _, lk := range legalKeywords {
			if strings.Contains(target, lk.Keyword) {
				labels[lk.Label] = struct{}{}
			}
		}
	})
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	for l := range labels {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
