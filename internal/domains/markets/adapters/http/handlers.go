package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http/mapper"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
	problems "github.com/Apurer/agro-sales-dashboard/internal/shared/errors"
)

const (
	CurrencyErrorMessage  = "Error al obtener datos del dólar"
	CommodityErrorMessage = "Error al obtener datos de cereales"
	currencySource        = "currency"
	commoditySource       = "commodities"
	contentTypeJSON       = "application/json; charset=utf-8"
)

// MarketsAPI serves the REST proxy endpoints.
type MarketsAPI struct {
	service ports.Service
}

func NewMarketsAPI(service ports.Service) *MarketsAPI {
	return &MarketsAPI{service: service}
}

// Register mounts the proxy routes on r.
func (api *MarketsAPI) Register(r gin.IRoutes) {
	r.GET("/api/dolar", api.GetDolar)
	r.GET("/api/cereales", api.GetCereales)
}

// Get /api/dolar
// Official dollar quote, passed through from the upstream document.
func (api *MarketsAPI) GetDolar(c *gin.Context) {
	rate, ok := api.service.CurrencyRate(c.Request.Context()).Value()
	if !ok {
		problems.Respond(c, problems.NewUpstreamProblem(currencySource, CurrencyErrorMessage))
		return
	}
	if len(rate.Raw) > 0 {
		c.Data(http.StatusOK, contentTypeJSON, rate.Raw)
		return
	}
	c.JSON(http.StatusOK, mapper.FromCurrencyRate(rate))
}

// Get /api/cereales
// Reference commodity prices keyed by commodity name.
func (api *MarketsAPI) GetCereales(c *gin.Context) {
	board, ok := api.service.CommodityPrices(c.Request.Context()).Value()
	if !ok {
		problems.Respond(c, problems.NewUpstreamProblem(commoditySource, CommodityErrorMessage))
		return
	}
	c.JSON(http.StatusOK, mapper.FromCommodityBoard(board))
}
