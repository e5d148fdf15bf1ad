package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	dashboardhttp "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/http"
	identityhttp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/adapters/http"
	marketshttp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http"
	salesgraphql "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/graphql"
)

// RouterDeps lists the handlers mounted by NewRouter.
type RouterDeps struct {
	ServiceName    string
	Logger         *slog.Logger
	AllowedOrigins []string
	Identity       *identityhttp.Middleware
	GraphQL        *salesgraphql.Handler
	Markets        *marketshttp.MarketsAPI
	Dashboard      *dashboardhttp.DashboardAPI
}

// NewRouter builds the gin engine with tracing, CORS and identity resolution
// in front of every route.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if deps.ServiceName != "" {
		router.Use(otelgin.Middleware(deps.ServiceName))
	}
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))
	if deps.Logger != nil {
		router.Use(requestLogger(deps.Logger))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/")
	if deps.Identity != nil {
		api.Use(deps.Identity.Handler())
	}
	if deps.GraphQL != nil {
		deps.GraphQL.Register(api)
	}
	if deps.Markets != nil {
		deps.Markets.Register(api)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.Register(api)
	}
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)))
	}
}
