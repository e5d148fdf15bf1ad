package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/application"
)

// DashboardAPI serves the assembled view model.
type DashboardAPI struct {
	assembler *application.Assembler
}

func NewDashboardAPI(assembler *application.Assembler) *DashboardAPI {
	return &DashboardAPI{assembler: assembler}
}

func (api *DashboardAPI) Register(r gin.IRoutes) {
	r.GET("/api/dashboard", api.GetDashboard)
}

// Get /api/dashboard
// Section failures are reported inside the view, so the status is always 200.
func (api *DashboardAPI) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, api.assembler.Assemble(c.Request.Context()))
}
