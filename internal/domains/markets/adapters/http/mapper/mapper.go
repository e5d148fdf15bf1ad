package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
)

// Quote mirrors one upstream exchange-rate pair. Nil means the value was absent.
type Quote struct {
	ValueBuy  *float64 `json:"value_buy"`
	ValueSell *float64 `json:"value_sell"`
}

// Dolar is the /api/dolar response body.
type Dolar struct {
	Oficial    *Quote `json:"oficial"`
	LastUpdate string `json:"last_update"`
}

// Cereal is one entry of the /api/cereales response body.
type Cereal struct {
	Precio float64 `json:"precio"`
	Unidad string  `json:"unidad"`
	Fecha  string  `json:"fecha"`
}

func FromCurrencyRate(rate domain.CurrencyRate) Dolar {
	return Dolar{
		Oficial:    &Quote{ValueBuy: float(rate.Buy), ValueSell: float(rate.Sell)},
		LastUpdate: rate.LastUpdate,
	}
}

func float(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}

// ToCurrencyRate reverses FromCurrencyRate. A body without "oficial", or
// whose quote lacks a buy or sell value, is malformed.
func ToCurrencyRate(d Dolar) (domain.CurrencyRate, error) {
	if d.Oficial == nil || d.Oficial.ValueBuy == nil || d.Oficial.ValueSell == nil {
		return domain.CurrencyRate{}, domain.ErrMalformedPayload
	}
	return domain.CurrencyRate{
		Buy:        decimal.NewFromFloat(*d.Oficial.ValueBuy),
		Sell:       decimal.NewFromFloat(*d.Oficial.ValueSell),
		LastUpdate: d.LastUpdate,
	}, nil
}

func FromCommodityBoard(board domain.CommodityBoard) map[string]Cereal {
	out := make(map[string]Cereal, len(board))
	for name, q := range board {
		out[name] = Cereal{Precio: q.Price.InexactFloat64(), Unidad: q.Unit, Fecha: q.Date}
	}
	return out
}

func ToCommodityBoard(in map[string]Cereal) domain.CommodityBoard {
	out := make(domain.CommodityBoard, len(in))
	for name, c := range in {
		out[name] = domain.CommodityQuote{Price: decimal.NewFromFloat(c.Precio), Unit: c.Unidad, Date: c.Fecha}
	}
	return out
}
