package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
)

func TestNewView_StartsLoading(t *testing.T) {
	v := NewView()
	require.True(t, v.Sales.Loading())
	require.False(t, v.Sales.Unavailable())
	require.False(t, v.Complete())
}

func TestSalesSection_PaletteWrapsAndZeroUnitsHaveNoSlices(t *testing.T) {
	var items []salesdomain.LineItem
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		p := salesdomain.Product{Name: name}
		items = append(items, salesdomain.LineItem{Product: &p, Quantity: salesdomain.Int64(1)})
	}
	section := SalesSection([]*salesdomain.Order{{ID: "x", Products: items}})
	require.Equal(t, StateReady, section.State)
	require.Equal(t, "#0088FE", section.Data.Slices[4].Color)
	require.Equal(t, int64(1), section.Data.Slices[4].Units)

	zero := SalesSection([]*salesdomain.Order{{ID: "z", Products: []salesdomain.LineItem{{}}}})
	require.Equal(t, StateReady, zero.State)
	require.Empty(t, zero.Data.Slices)
	require.Equal(t, "0.00", zero.Data.RevenueText())

	require.Equal(t, StateEmpty, SalesSection(nil).State)
}

func TestCommoditySection_SortsAndCapitalises(t *testing.T) {
	section := CommoditySection(marketsdomain.CommodityBoard{
		"trigo": {Price: decimal.NewFromInt(220), Unit: "USD/ton", Date: "2025-06-19"},
		"maiz":  {Price: decimal.NewFromInt(180), Unit: "USD/ton", Date: "2025-06-19"},
	})
	require.Equal(t, StateReady, section.State)
	require.Equal(t, []string{"Maiz", "Trigo"}, []string{section.Data[0].Label, section.Data[1].Label})
	require.Equal(t, StateEmpty, CommoditySection(nil).State)
}

func TestCapitalizeAndFailed(t *testing.T) {
	require.Equal(t, "Ñandú", Capitalize("ñandú"))
	require.Equal(t, "", Capitalize(""))
	require.Equal(t, "unknown error", Failed[int](nil).Error)
	require.Equal(t, "x", Failed[int](errors.New("x")).Error)
}
