// Package api fetches dashboard data from a running API server over HTTP.
package api

import (
	"bytes"
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

	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/ports"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http/mapper"
	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

// SalesQuery is the GraphQL document the dashboard sends.
const SalesQuery = `query GetSales { sales { id totalAmount products { product { name } quantity unitPrice } } }`

const maxBodyBytes = 4 << 20

// ErrStatus is returned for non-2xx answers.
var ErrStatus = errors.New("api returned an error status")

// Client talks to the API server's GraphQL and REST endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type lineItem struct {
	Product   *product         `json:"product"`
	Quantity  *int64           `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type sale struct {
	ID          string          `json:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Products    []lineItem      `json:"products"`
}

type graphQLResponse struct {
	Data struct {
		Sales []sale `json:"sales"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Sales runs the sales query and maps the order graph to domain orders.
func (c *Client) Sales(ctx context.Context) ([]*salesdomain.Order, error) {
	body, err := json.Marshal(map[string]string{"query": SalesQuery, "operationName": "GetSales"})
	if err != nil {
		return nil, err
	}
	var resp graphQLResponse
	if err := c.do(ctx, http.MethodPost, "/graphql", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	orders := make([]*salesdomain.Order, 0, len(resp.Data.Sales))
	for _, s := range resp.Data.Sales {
		orders = append(orders, s.toDomain())
	}
	return orders, nil
}

func (s sale) toDomain() *salesdomain.Order {
	order := &salesdomain.Order{ID: s.ID, TotalAmount: s.TotalAmount, Products: make([]salesdomain.LineItem, 0, len(s.Products))}
	for _, item := range s.Products {
		var line salesdomain.LineItem
		if item.Product != nil {
			line.Product = &salesdomain.Product{ID: item.Product.ID, Name: item.Product.Name}
		}
		line.Quantity = item.Quantity
		line.UnitPrice = item.UnitPrice
		order.Products = append(order.Products, line)
	}
	return order
}

// CurrencyRate calls GET /api/dolar.
func (c *Client) CurrencyRate(ctx context.Context) (marketsdomain.CurrencyRate, error) {
	var body mapper.Dolar
	if err := c.do(ctx, http.MethodGet, "/api/dolar", nil, &body); err != nil {
		return marketsdomain.CurrencyRate{}, err
	}
	return mapper.ToCurrencyRate(body)
}

// Commodities calls GET /api/cereales.
func (c *Client) Commodities(ctx context.Context) (marketsdomain.CommodityBoard, error) {
	var body map[string]mapper.Cereal
	if err := c.do(ctx, http.MethodGet, "/api/cereales", nil, &body); err != nil {
		return nil, err
	}
	return mapper.ToCommodityBoard(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s", ErrStatus, path, errorMessage(raw, resp.Status))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var problem struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &problem) == nil {
		if msg := strings.TrimSpace(problem.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(problem.Detail); msg != "" {
			return msg
		}
	}
	return fallback
}

var _ ports.Source = (*Client)(nil)
