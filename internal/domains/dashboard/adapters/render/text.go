// Package render writes dashboard views for terminals and pipes.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/domain"
)

const (
	LoadingText = "Cargando..."
	NoDataText  = "Sin datos disponibles"
)

// Text writes a human-readable rendering of v.
func Text(w io.Writer, v domain.View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Cotización Dólar")
	switch {
	case v.Currency.Loading():
		fmt.Fprintf(tw, "  %s\n", LoadingText)
	case v.Currency.Unavailable():
		fmt.Fprintf(tw, "  %s\n", NoDataText)
	default:
		c := v.Currency.Data
		fmt.Fprintf(tw, "  Compra: $%s / Venta: $%s\n", c.Buy.String(), c.Sell.String())
		if !c.AsOf.IsZero() {
			fmt.Fprintf(tw, "  Última actualización: %s\n", c.AsOf.Format("02/01/2006"))
		}
	}

	fmt.Fprintln(tw, "\nVentas")
	switch {
	case v.Sales.Loading():
		fmt.Fprintf(tw, "  %s\n", LoadingText)
	case v.Sales.Unavailable():
		fmt.Fprintf(tw, "  %s\n", NoDataText)
	default:
		s := v.Sales.Data
		fmt.Fprintf(tw, "  Total vendido:\t$%s\n", s.RevenueText())
		fmt.Fprintf(tw, "  Unidades vendidas:\t%d\n", s.TotalUnits)
		if len(s.Slices) == 0 {
			fmt.Fprintf(tw, "  %s\n", NoDataText)
		}
		for _, slice := range s.Slices {
			fmt.Fprintf(tw, "  %s\t%s%%\t%d u.\t%s\n", slice.Name, slice.Percentage.StringFixed(2), slice.Units, slice.Color)
		}
	}

	fmt.Fprintln(tw, "\nCotizaciones de Cereales")
	switch {
	case v.Commodities.Loading():
		fmt.Fprintf(tw, "  %s\n", LoadingText)
	case v.Commodities.Unavailable():
		fmt.Fprintf(tw, "  %s\n", NoDataText)
	default:
		for _, c := range v.Commodities.Data {
			fmt.Fprintf(tw, "  %s:\t$%s %s\t(Fecha: %s)\n", c.Label, c.Price.String(), c.Unit, c.Date)
		}
	}
	return tw.Flush()
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v domain.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
