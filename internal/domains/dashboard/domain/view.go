package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

// State is the lifecycle of one dashboard section.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
	StateFailed  State = "failed"
)

// Palette colours share slices in order, wrapping around.
var Palette = []string{"#0088FE", "#00C49F", "#FFBB28", "#FF8042"}

// Section holds one independently loaded part of the view.
type Section[T any] struct {
	State State  `json:"state"`
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// Loading reports whether the fetch behind the section is still pending.
func (s Section[T]) Loading() bool { return s.State == StateLoading || s.State == "" }

// Unavailable reports whether the section should render as "no data".
func (s Section[T]) Unavailable() bool { return s.State == StateEmpty || s.State == StateFailed }

func loading[T any]() Section[T] { return Section[T]{State: StateLoading} }

func ready[T any](data T) Section[T] { return Section[T]{State: StateReady, Data: data} }

func empty[T any]() Section[T] { return Section[T]{State: StateEmpty} }

// Failed builds a failed section carrying err's message.
func Failed[T any](err error) Section[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Section[T]{State: StateFailed, Error: msg}
}

// Currency is the dollar quote card.
type Currency struct {
	Buy        decimal.Decimal `json:"buy"`
	Sell       decimal.Decimal `json:"sell"`
	LastUpdate string          `json:"lastUpdate,omitempty"`
	AsOf       time.Time       `json:"asOf"`
}

// Slice is one wedge of the sales share chart.
type Slice struct {
	Name       string          `json:"name"`
	Units      int64           `json:"units"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}

// Sales is the sales summary card.
type Sales struct {
	Orders       int             `json:"orders"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalUnits   int64           `json:"totalUnits"`
	Slices       []Slice         `json:"slices"`
}

// RevenueText formats the revenue with two decimals.
func (s Sales) RevenueText() string { return s.TotalRevenue.StringFixed(2) }

// Commodity is one row of the commodity list.
type Commodity struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
	Date  string          `json:"date"`
}

// View is the full dashboard model. The three sections load independently.
type View struct {
	Currency    Section[Currency]    `json:"currency"`
	Sales       Section[Sales]       `json:"sales"`
	Commodities Section[[]Commodity] `json:"commodities"`
}

// NewView returns a view with every section loading.
func NewView() View {
	return View{
		Currency:    loading[Currency](),
		Sales:       loading[Sales](),
		Commodities: loading[[]Commodity](),
	}
}

// Complete reports whether no section is still loading.
func (v View) Complete() bool {
	return !v.Currency.Loading() && !v.Sales.Loading() && !v.Commodities.Loading()
}

// CurrencySection maps a fetched quote.
func CurrencySection(rate marketsdomain.CurrencyRate) Section[Currency] {
	return ready(Currency{
		Buy:        rate.Buy,
		Sell:       rate.Sell,
		LastUpdate: rate.LastUpdate,
		AsOf:       rate.AsOf(),
	})
}

// SalesSection aggregates the fetched orders. No orders means an empty
// section; orders without units are ready with no slices.
func SalesSection(orders []*salesdomain.Order) Section[Sales] {
	if len(orders) == 0 {
		return empty[Sales]()
	}
	summary := salesdomain.Summarize(orders)
	slices := make([]Slice, 0, len(summary.Shares))
	for i, share := range summary.Shares {
		units, _ := summary.Quantity(share.Name)
		slices = append(slices, Slice{
			Name:       share.Name,
			Units:      units,
			Percentage: share.Percentage,
			Color:      Palette[i%len(Palette)],
		})
	}
	return ready(Sales{
		Orders:       len(orders),
		TotalRevenue: summary.TotalRevenue,
		TotalUnits:   summary.TotalUnitsSold,
		Slices:       slices,
	})
}

// CommoditySection lists the board sorted by key.
func CommoditySection(board marketsdomain.CommodityBoard) Section[[]Commodity] {
	if len(board) == 0 {
		return empty[[]Commodity]()
	}
	rows := make([]Commodity, 0, len(board))
	for _, key := range board.Names() {
		q := board[key]
		rows = append(rows, Commodity{Key: key, Label: Capitalize(key), Price: q.Price, Unit: q.Unit, Date: q.Date})
	}
	return ready(rows)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
