package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

// Service orchestrates sales use cases.
type Service struct {
	repo  ports.Repository
	now   func() time.Time
	newID func() string
}

// Option customises the service.
type Option func(*Service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how sale identifiers are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListSales(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetSale(ctx context.Context, id string) (*domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// CreateSale resolves each product from the catalog, derives the total from
// the line items, and persists the sale.
func (s *Service) CreateSale(ctx context.Context, items []ports.LineItemInput) (*domain.Order, error) {
	lines := make([]domain.LineItem, 0, len(items))
	for i, input := range items {
		product, err := s.repo.GetProduct(ctx, strings.TrimSpace(input.ProductID))
		if err != nil {
			return nil, mapError(fmt.Errorf("line %d: %w", i+1, err))
		}
		quantity := input.Quantity
		price := input.UnitPrice
		lines = append(lines, domain.LineItem{
			Product:   &domain.Product{ID: product.ID, Name: product.Name},
			Quantity:  &quantity,
			UnitPrice: &price,
		})
	}
	order, err := domain.NewOrder(s.newID(), lines, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

// Summary aggregates every stored sale.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(orders), nil
}

var _ ports.Service = (*Service)(nil)
