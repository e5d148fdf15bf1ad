// Package bluelytics is a minimal client for the Bluelytics exchange-rate API.
package bluelytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultURL is the public endpoint returning the latest quotes.
const DefaultURL = "https://api.bluelytics.com.ar/v2/latest"

const maxBodyBytes = 1 << 20

// ErrStatus is returned when the API answers with a non-2xx status.
var ErrStatus = errors.New("bluelytics returned an error status")

// Quote is one exchange-rate pair as published by the API. Absent or null
// values decode as invalid.
type Quote struct {
	ValueAvg  decimal.NullDecimal `json:"value_avg"`
	ValueSell decimal.NullDecimal `json:"value_sell"`
	ValueBuy  decimal.NullDecimal `json:"value_buy"`
}

// Complete reports whether both buy and sell values were published.
func (q *Quote) Complete() bool {
	return q != nil && q.ValueBuy.Valid && q.ValueSell.Valid
}

// Latest is the body of GET /v2/latest.
type Latest struct {
	Oficial     *Quote `json:"oficial"`
	Blue        *Quote `json:"blue,omitempty"`
	OficialEuro *Quote `json:"oficial_euro,omitempty"`
	BlueEuro    *Quote `json:"blue_euro,omitempty"`
	LastUpdate  string `json:"last_update"`
}

// Client calls the API over a process-scoped *http.Client.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a client for url. A nil httpClient gets an otelhttp
// transport and the given timeout.
func NewClient(url string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("bluelytics URL is required")
	}
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{url: url, http: httpClient}, nil
}

// Latest fetches the latest quotes. The undecoded body is returned alongside
// the parsed document.
func (c *Client) Latest(ctx context.Context) (Latest, []byte, error) {
	if c == nil || c.http == nil {
		return Latest{}, nil, errors.New("bluelytics client not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Latest{}, nil, fmt.Errorf("build bluelytics request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Latest{}, nil, fmt.Errorf("call bluelytics: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Latest{}, nil, fmt.Errorf("read bluelytics body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Latest{}, nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	var doc Latest
	if err := json.Unmarshal(body, &doc); err != nil {
		return Latest{}, nil, fmt.Errorf("decode bluelytics body: %w", err)
	}
	return doc, body, nil
}
