package ports

import (
	"context"

	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

// Source supplies the raw data behind the dashboard. The three calls are
// independent and may run concurrently.
type Source interface {
	Sales(ctx context.Context) ([]*salesdomain.Order, error)
	CurrencyRate(ctx context.Context) (marketsdomain.CurrencyRate, error)
	Commodities(ctx context.Context) (marketsdomain.CommodityBoard, error)
}
