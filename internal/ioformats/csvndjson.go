package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"leadscout-go-pipeline/internal/models"
)

// ReadLeads reads leads from a CSV (expects a header with "url", optionally
// "company" and "id") or NDJSON file. If ext cannot be determined, tries
// CSV first then NDJSON.
func ReadLeads(path string) ([]models.LeadRow, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		if leads, err := readCSV(path); err == nil && len(leads) > 0 {
			return leads, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]models.LeadRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	urlCol, ok := cols["url"]
	if !ok {
		if urlCol, ok = cols["website"]; !ok {
			return nil, errors.New("csv must contain a 'url' or 'website' header column")
		}
	}

	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []models.LeadRow
	for _, row := range rows[1:] {
		if urlCol >= len(row) {
			continue
		}
		u := strings.TrimSpace(row[urlCol])
		if u == "" {
			continue
		}
		out = append(out, models.LeadRow{
			ID:      field(row, "id"),
			Company: field(row, "company"),
			URL:     u,
		})
	}
	return out, nil
}

func readNDJSON(path string) ([]models.LeadRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []models.LeadRow
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") {
			var lead models.LeadRow
			if err := json.Unmarshal([]byte(line), &lead); err == nil && lead.URL != "" {
				out = append(out, lead)
				continue
			}
		}
		// fallback: treat whole line as url
		out = append(out, models.LeadRow{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no leads found in ndjson")
	}
	return out, nil
}

// WriteResultsNDJSON streams lead results as NDJSON, the stage-handoff
// format between pipeline runs.
func WriteResultsNDJSON(w io.Writer, results []models.LeadResult) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// crmHeader is the flat CRM-import column set.
var crmHeader = []string{
	"id", "company", "website", "phones", "emails", "booking_type",
	"chat_vendor", "tracking_tools", "cms", "perf_score", "lead_score",
	"tier", "pages_crawled", "error",
}

// WriteCRMCSV flattens lead results into CRM-importable rows.
func WriteCRMCSV(w io.Writer, results []models.LeadResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(crmHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := flattenResult(r)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func flattenResult(r models.LeadResult) []string {
	row := make([]string, len(crmHeader))
	row[0] = r.Lead.ID
	row[1] = r.Lead.Company
	row[2] = r.Lead.URL
	if rec := r.Record; rec != nil {
		row[3] = strings.Join(rec.Contact.Phones, "; ")
		row[4] = strings.Join(rec.Contact.Emails, "; ")
		row[5] = rec.Booking.Type
		row[6] = rec.Chatbot.Vendor
		var tools []string
		for tool, present := range rec.Tracking {
			if present {
				tools = append(tools, tool)
			}
		}
		sort.Strings(tools)
		row[7] = strings.Join(tools, "; ")
		for _, tech := range rec.Technologies {
			if tech.Category == "cms" {
				row[8] = tech.Name
				break
			}
		}
		row[12] = strconv.Itoa(len(rec.CrawledPages))
	}
	if r.Perf != nil {
		row[9] = strconv.FormatFloat(r.Perf.PerformanceScore, 'f', 0, 64)
	}
	if r.Score != nil {
		row[10] = strconv.Itoa(r.Score.Score)
		row[11] = r.Score.Tier
	}
	row[13] = r.Error
	return row
}
