package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
)

const (
	defaultTimeout = 12 * time.Second
	// maxSheetSize bounds a published export read into memory.
	maxSheetSize = 8 << 20
)

var errSheetTooLarge = errors.New("sheet export exceeds size limit")

// Row is one CSV line keyed by normalized header name.
type Row map[string]string

// Client downloads a published spreadsheet as CSV.
type Client struct {
	url        *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	maxSize    int64
}

// NewClient creates CSV client for the given absolute export URL.
func NewClient(rawURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse sheet url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("sheet url must be absolute")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:     parsed,
		logger:  logger,
		maxSize: maxSheetSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Rows fetches the sheet and returns every data line keyed by header.
func (c *Client) Rows(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	// Published sheets are cached aggressively by the CDN.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Error("sheet request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("sheet error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxSize {
		c.logger.Error("sheet export too large", slog.Int64("limit", c.maxSize))
		return nil, errSheetTooLarge
	}
	return Parse(body)
}

// Parse decodes CSV text whose first line is the header.
func Parse(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeKey(h)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(Row, len(keys))
		empty := true
		for i, key := range keys {
			if key == "" || i >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[i])
			if value != "" {
				empty = false
			}
			row[key] = value
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// NormalizeKey folds a header so "Client ID", "clientId" and "client_id" match.
func NormalizeKey(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
