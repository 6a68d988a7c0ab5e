package snapshot

import (
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"leadscout-go-pipeline/internal/models"
)

const textDigestChars = 1200

var blankRunsRe = regexp.MustCompile(`\n{2,}|\s{2,}`)

// serialize renders the snapshot as fixed-order labeled lines, capped at
// maxTokenChars. This block is one-way prompt input; nothing parses it
// back.
func (b *Builder) serialize(baseHTML string, snap models.SiteSnapshot) string {
	var sb strings.Builder

	writePage := func(prefix string, ps models.PageSignals) {
		line := func(label, value string) {
			if value == "" {
				return
			}
			sb.WriteString(prefix)
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(value)
			sb.WriteByte('\n')
		}
		line("URL", ps.URL)
		line("TITLE", ps.Title)
		line("META_DESC", ps.MetaDescription)
		line("H1", strings.Join(ps.H1, " | "))
		line("H2", strings.Join(ps.H2, " | "))
		line("H3", strings.Join(ps.H3, " | "))
		line("MAILTO", strings.Join(ps.MailtoLinks, ", "))
		line("TEL", strings.Join(ps.TelLinks, ", "))
		line("SOCIAL", strings.Join(ps.SocialLinks, ", "))
		if ps.FormCount > 0 {
			v := strconv.Itoa(ps.FormCount)
			if len(ps.FormActions) > 0 {
				v += " | " + strings.Join(ps.FormActions, ", ")
			}
			line("FORMS", v)
		}
		line("BUTTONS", strings.Join(ps.Buttons, " | "))
		line("CHAT_VENDORS", strings.Join(ps.ChatVendors, ", "))
		line("BOOKING_VENDORS", strings.Join(ps.BookingVendors, ", "))
		line("TRACKING", strings.Join(ps.Tracking, ", "))
	}

	writePage("", snap.Base)
	if digest := textDigest(baseHTML); digest != "" {
		sb.WriteString("TEXT: ")
		sb.WriteString(digest)
		sb.WriteByte('\n')
	}
	for _, ps := range snap.ExtraPages {
		sb.WriteString("---\n")
		writePage("PAGE_", ps)
	}

	out := sb.String()
	if b.maxTokenChars > 0 && len(out) > b.maxTokenChars {
		out = out[:b.maxTokenChars]
	}
	return out
}

// textDigest converts the page body to markdown and collapses whitespace
// for a compact content sample.
func textDigest(html string) string {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return ""
	}
	md = blankRunsRe.ReplaceAllString(md, " ")
	md = strings.TrimSpace(md)
	if len(md) > textDigestChars {
		md = md[:textDigestChars]
	}
	return md
}
