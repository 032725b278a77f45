// Package enrich backfills ISIN and ticker symbols on scraped records
package enrich

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zstd"
)

// Quote is one candidate returned by the symbol search. Symbol is nil when
// the entry has no symbol field at all.
type Quote struct {
	Symbol    *string `json:"symbol"`
	ShortName string  `json:"shortname"`
	LongName  string  `json:"longname"`
	Exchange  string  `json:"exchange"`
	QuoteType string  `json:"quoteType"`
}

type searchResponse struct {
	Quotes []Quote `json:"quotes"`
}

// SearchClient queries a Yahoo-style finance search endpoint
type SearchClient struct {
	client *resty.Client
	url    string
}

// NewSearchClient creates a client for the search endpoint at url
func NewSearchClient(url string, timeout time.Duration) *SearchClient {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0").
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Encoding", "gzip, deflate, br, zstd")

	return &SearchClient{
		client: client,
		url:    url,
	}
}

// Search returns the quotes matching a free-text company name
func (c *SearchClient) Search(ctx context.Context, name string) ([]Quote, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", name).
		SetDoNotParseResponse(true).
		Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", name, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("search %q: received non-200 status code: %d", name, resp.StatusCode())
	}

	data, err := decodeBody(resp.Header().Get("Content-Encoding"), body)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", name, err)
	}

	var result searchResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("search %q: failed to decode response: %w", name, err)
	}
	return result.Quotes, nil
}

func decodeBody(encoding string, body io.Reader) ([]byte, error) {
	var reader io.Reader
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(body)
	case "zstd":
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		reader = zr
	default:
		reader = body
	}
	return io.ReadAll(reader)
}
