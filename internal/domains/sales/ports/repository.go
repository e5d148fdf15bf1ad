package ports

import (
	"context"
	"errors"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

var (
	ErrNotFound        = errors.New("sale not found")
	ErrProductNotFound = errors.New("product not found")
)

// Repository is the document store holding sales and the product catalog.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	SaveProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
