package ioformats

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadscout-go-pipeline/internal/models"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLeadsCSV(t *testing.T) {
	path := writeTemp(t, "leads.csv", "id,company,url\n1,Acme,acme.com\n2,,https://bravo.io\n,,\n")
	leads, err := ReadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, models.LeadRow{ID: "1", Company: "Acme", URL: "acme.com"}, leads[0])
	assert.Equal(t, "https://bravo.io", leads[1].URL)
}

func TestReadLeadsCSVWebsiteColumn(t *testing.T) {
	path := writeTemp(t, "leads.csv", "company,website\nAcme,acme.com\n")
	leads, err := ReadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "acme.com", leads[0].URL)
}

func TestReadLeadsCSVMissingURLColumn(t *testing.T) {
	path := writeTemp(t, "leads.csv", "name,phone\nAcme,555\n")
	_, err := ReadLeads(path)
	assert.Error(t, err)
}

func TestReadLeadsNDJSON(t *testing.T) {
	path := writeTemp(t, "leads.ndjson",
		`{"id":"1","company":"Acme","url":"acme.com"}`+"\n"+
			"bravo.io\n\n")
	leads, err := ReadLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Acme", leads[0].Company)
	assert.Equal(t, "bravo.io", leads[1].URL)
}

func TestWriteResultsNDJSON(t *testing.T) {
	results := []models.LeadResult{
		{Lead: models.LeadRow{ID: "1", URL: "acme.com"}, At: "2026-01-01T00:00:00Z"},
		{Lead: models.LeadRow{ID: "2", URL: "bad.example"}, Error: "homepage fetch failed", At: "2026-01-01T00:00:05Z"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResultsNDJSON(&buf, results))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "homepage fetch failed")
}

func TestWriteCRMCSV(t *testing.T) {
	rec := models.NewSiteSignalRecord()
	rec.Contact = models.ContactBundle{Phones: []string{"+14047629615"}, Emails: []string{"a@b.co"}}
	rec.Booking = models.BookingSignal{Type: "calendly", Confidence: 0.95}
	rec.Chatbot = models.ChatbotSignal{HasChatbot: true, Vendor: "crisp", Confidence: 0.95}
	rec.Tracking["hotjar"] = true
	rec.Technologies = []models.VendorHit{{Name: "wordpress", Category: "cms", Confidence: 0.95}}
	rec.CrawledPages = []string{"https://acme.com", "https://acme.com/contact"}

	perf := models.PerfMetrics{PerformanceScore: 43}
	score := models.LeadScore{Score: 82, Tier: "hot"}
	results := []models.LeadResult{{
		Lead:   models.LeadRow{ID: "1", Company: "Acme", URL: "acme.com"},
		Record: rec,
		Perf:   &perf,
		Score:  &score,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCRMCSV(&buf, results))
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,company,website"))
	row := lines[1]
	for _, want := range []string{"+14047629615", "a@b.co", "calendly", "crisp", "hotjar", "wordpress", "43", "82", "hot", "2"} {
		assert.Contains(t, row, want)
	}
}
