package static

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
)

const (
	snapshotUnit = "USD/ton"
	snapshotDate = "2025-06-19"
)

// Commodities serves a fixed price board.
type Commodities struct {
	board domain.CommodityBoard
}

// NewCommodities returns the built-in snapshot for soja, maiz and trigo.
func NewCommodities() *Commodities {
	return NewCommoditiesFrom(domain.CommodityBoard{
		"soja":  {Price: decimal.NewFromInt(350), Unit: snapshotUnit, Date: snapshotDate},
		"maiz":  {Price: decimal.NewFromInt(180), Unit: snapshotUnit, Date: snapshotDate},
		"trigo": {Price: decimal.NewFromInt(220), Unit: snapshotUnit, Date: snapshotDate},
	})
}

// NewCommoditiesFrom serves an arbitrary board.
func NewCommoditiesFrom(board domain.CommodityBoard) *Commodities {
	return &Commodities{board: board.Clone()}
}

func (c *Commodities) Commodities(ctx context.Context) (domain.CommodityBoard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.board.Clone(), nil
}

var _ ports.CommodityProvider = (*Commodities)(nil)
