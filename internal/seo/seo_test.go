package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	html := `<html><head>
<title> Acme Plumbing | Atlanta </title>
<meta name="description" content="Licensed plumbers serving Atlanta.">
<meta property="og:title" content="Acme Plumbing">
<meta property="og:image" content="https://acme.com/hero.jpg">
<link rel="canonical" href="https://acme.com/">
</head><body><h1>Atlanta Plumbers</h1><h1>Second heading</h1></body></html>`

	meta := Extract(html)
	assert.Equal(t, "Acme Plumbing | Atlanta", meta.Title)
	assert.Equal(t, "Licensed plumbers serving Atlanta.", meta.Description)
	assert.Equal(t, "https://acme.com/", meta.Canonical)
	assert.Equal(t, "Atlanta Plumbers", meta.H1)
	assert.Equal(t, "Acme Plumbing", meta.OG["og:title"])
	assert.Equal(t, "https://acme.com/hero.jpg", meta.OG["og:image"])
}

func TestExtractDescriptionFallsBackToOG(t *testing.T) {
	html := `<html><head><meta property="og:description" content="From OG."></head><body></body></html>`
	meta := Extract(html)
	assert.Equal(t, "From OG.", meta.Description)
}

func TestExtractEmptyDocument(t *testing.T) {
	meta := Extract("")
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
	assert.Nil(t, meta.OG)
}
