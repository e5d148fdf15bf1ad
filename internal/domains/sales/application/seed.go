package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

// DemoProducts is the catalog loaded into empty local stores.
var DemoProducts = []domain.Product{
	{ID: "prod-soja", Name: "Soja"},
	{ID: "prod-maiz", Name: "Maíz"},
	{ID: "prod-trigo", Name: "Trigo"},
}

// SeedDemo loads the demo catalog and a handful of sales when the store has
// no sales yet. It is a no-op on a populated store.
func SeedDemo(ctx context.Context, repo ports.Repository, now time.Time) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, product := range DemoProducts {
		if _, err := repo.SaveProduct(ctx, product); err != nil {
			return fmt.Errorf("save product %s: %w", product.ID, err)
		}
	}
	soja, maiz, trigo := DemoProducts[0], DemoProducts[1], DemoProducts[2]
	batches := [][]domain.LineItem{
		{line(soja, 10, 350), line(maiz, 5, 180)},
		{line(maiz, 25, 175.5)},
		{line(trigo, 8, 220), line(soja, 2, 355)},
	}
	for i, items := range batches {
		order, err := domain.NewOrder(fmt.Sprintf("demo-%03d", i+1), items, now.Add(time.Duration(i)*time.Hour))
		if err != nil {
			return err
		}
		if _, err := repo.Save(ctx, order); err != nil {
			return fmt.Errorf("save sale %s: %w", order.ID, err)
		}
	}
	return nil
}

func line(product domain.Product, quantity int64, price float64) domain.LineItem {
	p := product
	return domain.LineItem{Product: &p, Quantity: domain.Int64(quantity), UnitPrice: domain.Price(price)}
}
