package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"leadscout-go-pipeline/internal/models"
)

var (
	ErrInvalidURL = errors.New("invalid url")
	ErrNonHTML    = errors.New("non-html content")
)

type Client struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewClient(timeout, dialTimeout time.Duration, sizeCap int64) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: "leadscout-crawler/1.0 (+https://example.com/bot)",
	}
}

// NormalizeURL prepends https:// when the input carries no scheme and
// rejects empty or unparseable values before any fetch happens.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

// Fetch performs one bounded GET and returns a PageFetchResult. The body is
// read through a LimitReader so an oversized response never fully buffers,
// and it is decoded to UTF-8 before being handed to the extractors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (models.PageFetchResult, error) {
	start := time.Now()
	res := models.PageFetchResult{URL: rawURL}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.FinalURL = resp.Request.URL.String()
	res.Headers = resp.Header
	res.ContentType = resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		err := fmt.Errorf("http status %d", resp.StatusCode)
		res.Error = err.Error()
		return res, err
	}

	mediaType, _, _ := mime.ParseMediaType(res.ContentType)
	if mediaType != "" && !strings.Contains(mediaType, "text/html") && !strings.Contains(mediaType, "application/xhtml+xml") {
		// some servers omit Content-Type entirely; only reject a stated non-html type
		res.Error = ErrNonHTML.Error()
		return res, ErrNonHTML
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			res.Error = err.Error()
			return res, err
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, c.sizeCap))
	if err != nil {
		res.Error = err.Error()
		return res, err
	}

	enc, _, _ := charset.DetermineEncoding(data, res.ContentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			res.Error = err.Error()
			return res, err
		}
		utf8data = data
	}

	res.HTML = string(utf8data)
	res.OK = true
	res.FetchMs = time.Since(start).Milliseconds()
	return res, nil
}
