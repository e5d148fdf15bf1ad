// Package local feeds the dashboard straight from in-process services.
package local

import (
	"context"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/ports"
	identity "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/domain"
	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	marketsports "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	salesports "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

// Source reads sales and market data without an HTTP round trip. Sales are
// gated on the identity carried by ctx, the same way the GraphQL API gates them.
type Source struct {
	sales   salesports.Service
	markets marketsports.Service
}

func NewSource(sales salesports.Service, markets marketsports.Service) *Source {
	return &Source{sales: sales, markets: markets}
}

func (s *Source) Sales(ctx context.Context) ([]*salesdomain.Order, error) {
	if !identity.FromContext(ctx).Authenticated() {
		return nil, identity.ErrUnauthenticated
	}
	return s.sales.ListSales(ctx)
}

func (s *Source) CurrencyRate(ctx context.Context) (marketsdomain.CurrencyRate, error) {
	res := s.markets.CurrencyRate(ctx)
	rate, ok := res.Value()
	if !ok {
		return marketsdomain.CurrencyRate{}, res.Err()
	}
	return rate, nil
}

func (s *Source) Commodities(ctx context.Context) (marketsdomain.CommodityBoard, error) {
	res := s.markets.CommodityPrices(ctx)
	board, ok := res.Value()
	if !ok {
		return nil, res.Err()
	}
	return board, nil
}

var _ ports.Source = (*Source)(nil)
