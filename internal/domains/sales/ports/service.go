package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

// LineItemInput describes one line of a sale being recorded.
type LineItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Service exposes sales use cases to adapters.
type Service interface {
	ListSales(ctx context.Context) ([]*domain.Order, error)
	GetSale(ctx context.Context, id string) (*domain.Order, error)
	CreateSale(ctx context.Context, items []LineItemInput) (*domain.Order, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	Summary(ctx context.Context) (domain.Summary, error)
}
