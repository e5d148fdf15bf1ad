package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory sales and product store. Sales are listed in
// insertion order.
type Repository struct {
	mu       sync.RWMutex
	orders   map[string]*domain.Order
	order    []string
	products map[string]domain.Product
	catalog  []string
}

func NewRepository() *Repository {
	return &Repository{
		orders:   map[string]*domain.Order{},
		products: map[string]domain.Product{},
	}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, errors.New("order id is required")
	}
	clone := cloneOrder(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[clone.ID]; !exists {
		r.order = append(r.order, clone.ID)
	}
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.order))
	for _, id := range r.order {
		list = append(list, cloneOrder(r.orders[id]))
	}
	return list, nil
}

func (r *Repository) SaveProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if strings.TrimSpace(product.ID) == "" {
		return domain.Product{}, errors.New("product id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[product.ID]; !exists {
		r.catalog = append(r.catalog, product.ID)
	}
	r.products[product.ID] = product
	return product, nil
}

func (r *Repository) GetProduct(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return domain.Product{}, ports.ErrProductNotFound
	}
	return product, nil
}

func (r *Repository) ListProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]domain.Product, 0, len(r.catalog))
	for _, id := range r.catalog {
		list = append(list, r.products[id])
	}
	return list, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Products = make([]domain.LineItem, len(order.Products))
	for i, item := range order.Products {
		var copied domain.LineItem
		if item.Product != nil {
			p := *item.Product
			copied.Product = &p
		}
		if item.Quantity != nil {
			q := *item.Quantity
			copied.Quantity = &q
		}
		if item.UnitPrice != nil {
			u := *item.UnitPrice
			copied.UnitPrice = &u
		}
		clone.Products[i] = copied
	}
	return &clone
}
