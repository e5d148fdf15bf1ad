package ports

import (
	"context"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
)

// CurrencyProvider fetches the current official dollar quote.
type CurrencyProvider interface {
	LatestRate(ctx context.Context) (domain.CurrencyRate, error)
}

// CommodityProvider fetches reference commodity prices.
type CommodityProvider interface {
	Commodities(ctx context.Context) (domain.CommodityBoard, error)
}

// Service exposes upstream market data as uniform results. Implementations
// never return bare errors and never panic on upstream failure.
type Service interface {
	CurrencyRate(ctx context.Context) domain.Result[domain.CurrencyRate]
	CommodityPrices(ctx context.Context) domain.Result[domain.CommodityBoard]
}
