package models

import "net/http"

// PageFetchResult is the outcome of one bounded HTTP fetch. It is immutable
// once produced by the crawler and consumed read-only by the extractors.
type PageFetchResult struct {
	URL         string      `json:"url"`
	FinalURL    string      `json:"finalUrl"`
	StatusCode  int         `json:"statusCode"`
	ContentType string      `json:"contentType"`
	HTML        string      `json:"-"`
	Headers     http.Header `json:"-"`
	OK          bool        `json:"ok"`
	Error       string      `json:"error,omitempty"`
	FetchMs     int64       `json:"fetchMs"`
}

// VendorHit is one pattern match against a page.
type VendorHit struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Evidence   string  `json:"evidence,omitempty"`
}

// ContactBundle holds deduplicated contact info for one page or one site.
type ContactBundle struct {
	Phones []string `json:"phones"`
	Emails []string `json:"emails"`
}

// BookingSignal describes how a site takes appointments. Type is a vendor
// name or one of "form", "cta", "embed", "phone", "email"; empty Type with
// zero confidence is the absence state.
type BookingSignal struct {
	Type        string  `json:"type,omitempty"`
	Evidence    string  `json:"evidence,omitempty"`
	Confidence  float64 `json:"confidence"`
	EvidenceURL string  `json:"evidenceUrl,omitempty"`
}

// ChatbotSignal records chat-widget presence. Once HasChatbot is set it is
// never cleared by later pages.
type ChatbotSignal struct {
	HasChatbot  bool    `json:"hasChatbot"`
	Vendor      string  `json:"vendor,omitempty"`
	Confidence  float64 `json:"confidence"`
	EvidenceURL string  `json:"evidenceUrl,omitempty"`
}

// SEOMeta is homepage-level SEO metadata.
type SEOMeta struct {
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Canonical   string            `json:"canonical,omitempty"`
	H1          string            `json:"h1,omitempty"`
	OG          map[string]string `json:"og,omitempty"`
}

// SiteSignalRecord is the site-level aggregate built by the signal
// collector. It is owned by a single collection loop and mutated once per
// fetched page; callers receive it only after the page budget is exhausted.
type SiteSignalRecord struct {
	Chatbot      ChatbotSignal   `json:"chatbot"`
	Tracking     map[string]bool `json:"tracking"`
	TrackingIDs  []string        `json:"trackingIds,omitempty"`
	Booking      BookingSignal   `json:"booking"`
	Contact      ContactBundle   `json:"contact"`
	SEO          SEOMeta         `json:"seo"`
	Technologies []VendorHit     `json:"technologies,omitempty"`
	LegalPages   []string        `json:"legalPages,omitempty"`
	CrawledPages []string        `json:"crawledPages"`
}

// NewSiteSignalRecord returns the empty aggregate all merges start from.
func NewSiteSignalRecord() *SiteSignalRecord {
	return &SiteSignalRecord{
		Tracking: map[string]bool{},
		Contact:  ContactBundle{Phones: []string{}, Emails: []string{}},
	}
}

// PageSignals is the per-page bundle produced by the snapshot builder.
type PageSignals struct {
	URL             string   `json:"url"`
	Title           string   `json:"title,omitempty"`
	MetaDescription string   `json:"metaDescription,omitempty"`
	H1              []string `json:"h1,omitempty"`
	H2              []string `json:"h2,omitempty"`
	H3              []string `json:"h3,omitempty"`
	MailtoLinks     []string `json:"mailtoLinks,omitempty"`
	TelLinks        []string `json:"telLinks,omitempty"`
	SocialLinks     []string `json:"socialLinks,omitempty"`
	FormCount       int      `json:"formCount"`
	FormActions     []string `json:"formActions,omitempty"`
	Buttons         []string `json:"buttons,omitempty"`
	ChatVendors     []string `json:"chatVendors,omitempty"`
	BookingVendors  []string `json:"bookingVendors,omitempty"`
	Tracking        []string `json:"tracking,omitempty"`
}

// SiteSnapshot is the snapshot builder's output. Tokens is a one-way
// plain-text serialization for LLM consumption, never parsed back.
type SiteSnapshot struct {
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	Base       PageSignals   `json:"base"`
	ExtraPages []PageSignals `json:"extraPages,omitempty"`
	Tokens     string        `json:"tokens"`
}

// PerfMetrics is the typed result of a PageSpeed/CrUX lookup.
type PerfMetrics struct {
	PerformanceScore float64 `json:"performanceScore"`
	LCPMs            float64 `json:"lcpMs"`
	CLS              float64 `json:"cls"`
	INPMs            float64 `json:"inpMs,omitempty"`
	FieldDataSource  string  `json:"fieldDataSource,omitempty"`
}

// LeadScore is the LLM scoring verdict for one lead.
type LeadScore struct {
	Score   int      `json:"score"`
	Tier    string   `json:"tier"`
	Reasons []string `json:"reasons,omitempty"`
}

// LeadRow is one input lead from the CSV/NDJSON stage handoff.
type LeadRow struct {
	ID      string `json:"id,omitempty"`
	Company string `json:"company,omitempty"`
	URL     string `json:"url"`
}

// LeadResult is the per-lead pipeline artifact. A fatal lead has Error set
// and Record nil; a degraded lead has some optional fields nil.
type LeadResult struct {
	Lead      LeadRow           `json:"lead"`
	Record    *SiteSignalRecord `json:"record,omitempty"`
	Perf      *PerfMetrics      `json:"perf,omitempty"`
	Score     *LeadScore        `json:"score,omitempty"`
	Tokens    string            `json:"-"`
	Error     string            `json:"error,omitempty"`
	At        string            `json:"at"`
	ElapsedMs int64             `json:"elapsedMs"`
}
