package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedPayload marks upstream data that does not have the expected shape.
	ErrMalformedPayload = errors.New("upstream payload is malformed")
	// ErrUpstreamStatus marks a non-success HTTP answer from an upstream.
	ErrUpstreamStatus = errors.New("upstream answered with an error status")
)

// CurrencyRate is the official buy/sell quote for the dollar.
type CurrencyRate struct {
	Buy        decimal.Decimal
	Sell       decimal.Decimal
	LastUpdate string
	// Raw holds the upstream document verbatim when the provider had one.
	Raw json.RawMessage
}

// AsOf parses LastUpdate. It returns the zero time when the upstream value is
// absent or unparseable.
func (r CurrencyRate) AsOf() time.Time {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(r.LastUpdate))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Validate rejects negative quotes.
func (r CurrencyRate) Validate() error {
	if r.Buy.IsNegative() || r.Sell.IsNegative() {
		return fmt.Errorf("%w: negative currency quote", ErrMalformedPayload)
	}
	return nil
}

// CommodityQuote is the reference price of one commodity.
type CommodityQuote struct {
	Price decimal.Decimal
	Unit  string
	Date  string
}

// CommodityBoard maps a commodity key (e.g. "soja") to its quote.
type CommodityBoard map[string]CommodityQuote

// Validate enforces that every entry is complete. A partially filled board is
// treated as a failed fetch.
func (b CommodityBoard) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("%w: no commodities", ErrMalformedPayload)
	}
	for _, name := range b.Names() {
		q := b[name]
		switch {
		case strings.TrimSpace(name) == "":
			return fmt.Errorf("%w: commodity without a name", ErrMalformedPayload)
		case q.Price.IsNegative():
			return fmt.Errorf("%w: %s has a negative price", ErrMalformedPayload, name)
		case strings.TrimSpace(q.Unit) == "":
			return fmt.Errorf("%w: %s has no unit", ErrMalformedPayload, name)
		case strings.TrimSpace(q.Date) == "":
			return fmt.Errorf("%w: %s has no date", ErrMalformedPayload, name)
		}
	}
	return nil
}

// Names returns the commodity keys in lexical order.
func (b CommodityBoard) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the board.
func (b CommodityBoard) Clone() CommodityBoard {
	if b == nil {
		return nil
	}
	out := make(CommodityBoard, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
