package ranker

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const navHTML = `<html><body>
<a href="/contact">Contact Us</a>
<a href="/about">About</a>
<a href="/services">Services</a>
<a href="/blog">Blog</a>
<a href="/privacy">Privacy Policy</a>
<a href="https://external.example.net/contact">Partner Contact</a>
<a href="/book-appointment">Book an Appointment</a>
<a href="/contact">Contact (footer)</a>
<a href="/logo.png">Logo</a>
<a href="mailto:x@y.co">Mail</a>
<a href="#top">Top</a>
</body></html>`

func TestRankSameHostOnly(t *testing.T) {
	links := Rank(navHTML, "https://example.com", 10)
	require.NotEmpty(t, links)
	for _, link := range links {
		u, err := url.Parse(link)
		require.NoError(t, err)
		assert.Equal(t, "example.com", u.Host)
	}
}

func TestRankOrderingAndCap(t *testing.T) {
	links := Rank(navHTML, "https://example.com", 2)
	require.Len(t, links, 2)
	// book-appointment outscores contact (book + booking-adjacent keywords stack)
	assert.Equal(t, "https://example.com/book-appointment", links[0])
	assert.Equal(t, "https://example.com/contact", links[1])
}

func TestRankPositiveScoresOnly(t *testing.T) {
	links := Rank(navHTML, "https://example.com", 10)
	for _, link := range links {
		assert.Positive(t, Score(link), "link %s", link)
	}
	joined := strings.Join(links, " ")
	assert.NotContains(t, joined, "/blog")
	assert.NotContains(t, joined, "/privacy")
	assert.NotContains(t, joined, "logo.png")
}

func TestRankDeduplicates(t *testing.T) {
	links := Rank(navHTML, "https://example.com", 10)
	seen := map[string]struct{}{}
	for _, link := range links {
		_, dup := seen[link]
		require.False(t, dup, "duplicate %s", link)
		seen[link] = struct{}{}
	}
}

func TestRankDeterministic(t *testing.T) {
	first := Rank(navHTML, "https://example.com", 5)
	second := Rank(navHTML, "https://example.com", 5)
	assert.Equal(t, first, second)
}

func TestRankTieKeepsFirstSeen(t *testing.T) {
	html := `<a href="/team">Team</a><a href="/staff">Staff</a>`
	links := Rank(html, "https://example.com", 5)
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/team", links[0])
	assert.Equal(t, "https://example.com/staff", links[1])
}

func TestRankNoMatchesReturnsNothing(t *testing.T) {
	html := `<a href="/blog">Blog</a><a href="/careers">Careers</a>`
	assert.Empty(t, Rank(html, "https://example.com", 5))
}

func TestRankInvalidBase(t *testing.T) {
	assert.Empty(t, Rank(navHTML, "://broken", 5))
}

func TestScoreNegative(t *testing.T) {
	assert.Negative(t, Score("https://example.com/blog/post"))
}
