package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// basisPoints is 100% expressed in hundredths of a percent.
const basisPoints = 10000

// ProductQuantity is the cumulative quantity sold for one product name.
type ProductQuantity struct {
	Name     string
	Quantity int64
}

// Aggregation is the reduction of a set of orders.
// Products keeps first-seen order; it carries no meaning beyond stable iteration.
type Aggregation struct {
	Products       []ProductQuantity
	TotalUnitsSold int64
	TotalRevenue   decimal.Decimal
}

// SharePoint is a product's percentage of all units sold.
type SharePoint struct {
	Name       string
	Percentage decimal.Decimal
}

// Summary bundles an aggregation with its share breakdown.
type Summary struct {
	Aggregation
	Shares []SharePoint
}

// Aggregate reduces orders into per-product quantities, total units and total
// revenue. Revenue is recomputed from line items and ignores Order.TotalAmount.
// Nil orders are skipped; inputs are never mutated.
func Aggregate(orders []*Order) Aggregation {
	result := Aggregation{TotalRevenue: decimal.Zero}
	index := map[string]int{}
	for _, order := range orders {
		if order == nil {
			continue
		}
		for _, item := range order.Products {
			name := item.ProductName()
			quantity := item.QuantityOrZero()
			pos, seen := index[name]
			if !seen {
				pos = len(result.Products)
				index[name] = pos
				result.Products = append(result.Products, ProductQuantity{Name: name})
			}
			result.Products[pos].Quantity += quantity
			result.TotalUnitsSold += quantity
			result.TotalRevenue = result.TotalRevenue.Add(item.Subtotal())
		}
	}
	return result
}

// Quantity looks up the cumulative quantity of a product.
func (a Aggregation) Quantity(name string) (int64, bool) {
	for _, p := range a.Products {
		if p.Name == name {
			return p.Quantity, true
		}
	}
	return 0, false
}

// Shares derives each product's percentage of TotalUnitsSold, rounded to two
// decimals. Rounding uses the largest-remainder method so the percentages sum
// to exactly 100; ties go to the product seen first. A single share can
// therefore differ by up to 0.01 from rounding it on its own: three equal
// products yield 33.34, 33.33 and 33.33 rather than 33.33 each. Returns nil
// when no units were sold.
func Shares(a Aggregation) []SharePoint {
	if a.TotalUnitsSold <= 0 || len(a.Products) == 0 {
		return nil
	}
	total := decimal.NewFromInt(a.TotalUnitsSold)
	scale := decimal.NewFromInt(basisPoints)

	type part struct {
		points    int64
		remainder decimal.Decimal
	}
	parts := make([]part, len(a.Products))
	var assigned int64
	for i, p := range a.Products {
		quotient, remainder := decimal.NewFromInt(p.Quantity).Mul(scale).QuoRem(total, 0)
		parts[i] = part{points: quotient.IntPart(), remainder: remainder}
		assigned += parts[i].points
	}

	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return parts[order[x]].remainder.GreaterThan(parts[order[y]].remainder)
	})
	for k := 0; assigned < basisPoints && k < len(order); k++ {
		if parts[order[k]].remainder.IsZero() {
			break
		}
		parts[order[k]].points++
		assigned++
	}

	shares := make([]SharePoint, len(a.Products))
	for i, p := range a.Products {
		shares[i] = SharePoint{Name: p.Name, Percentage: decimal.New(parts[i].points, -2)}
	}
	return shares
}

// Summarize aggregates orders and derives their share breakdown.
func Summarize(orders []*Order) Summary {
	agg := Aggregate(orders)
	return Summary{Aggregation: agg, Shares: Shares(agg)}
}
