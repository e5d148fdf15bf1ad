package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	bluelyticsclient "github.com/Apurer/agro-sales-dashboard/internal/clients/http/bluelytics"
	dashboardlocal "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/local"
	dashboardhttp "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/http"
	dashboardapp "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/application"
	identityhttp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/adapters/http"
	identityapp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/application"
	marketsbluelytics "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/external/bluelytics"
	marketshttp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http"
	marketsobs "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/observability"
	marketsstatic "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/static"
	marketsapp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/application"
	salesgraphql "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/graphql"
	salesmemory "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/memory"
	salesobs "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/observability"
	salespostgres "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/persistence/postgres"
	salesapp "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/application"
	salesports "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
	"github.com/Apurer/agro-sales-dashboard/internal/platform/migrations"
	platformobservability "github.com/Apurer/agro-sales-dashboard/internal/platform/observability"
	platformpostgres "github.com/Apurer/agro-sales-dashboard/internal/platform/postgres"
)

const serviceName = "agro-sales-api"

// Run boots the sales dashboard API with observability, persistence and the
// upstream proxies wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanupRepo := buildSalesRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if cfg.SeedDemoData {
		if err := salesapp.SeedDemo(ctx, repo, time.Now().UTC()); err != nil {
			logger.Warn("failed to seed demo sales", slog.String("error", err.Error()))
		}
	}
	salesService := salesobs.New(
		salesapp.NewService(repo),
		salesobs.WithLogger(logger),
		salesobs.WithTracer(instruments.Tracer("internal.sales.application")),
		salesobs.WithMeter(instruments.Meter("internal.sales.application")),
	)
	schema, err := salesgraphql.NewSchema(salesService)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}

	upstream, err := bluelyticsclient.NewClient(cfg.DolarAPIURL, nil, cfg.UpstreamTimeout)
	if err != nil {
		return fmt.Errorf("build currency client: %w", err)
	}
	marketsService := marketsobs.New(
		marketsapp.NewService(
			marketsbluelytics.NewProvider(upstream),
			marketsstatic.NewCommodities(),
			marketsapp.WithTimeout(cfg.UpstreamTimeout),
			marketsapp.WithLogger(logger),
		),
		marketsobs.WithLogger(logger),
		marketsobs.WithTracer(instruments.Tracer("internal.markets.application")),
		marketsobs.WithMeter(instruments.Meter("internal.markets.application")),
	)

	resolver, err := identityapp.NewResolver(cfg.JWTSecret)
	if err != nil {
		return fmt.Errorf("build token resolver: %w", err)
	}
	assembler := dashboardapp.NewAssembler(
		dashboardlocal.NewSource(salesService, marketsService),
		dashboardapp.WithFetchTimeout(cfg.UpstreamTimeout),
		dashboardapp.WithLogger(logger),
	)

	router := NewRouter(RouterDeps{
		ServiceName:    serviceName,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Identity: identityhttp.NewMiddleware(resolver,
			identityhttp.WithPolicy(cfg.InvalidTokenPolicy),
			identityhttp.WithLogger(logger)),
		GraphQL:   salesgraphql.NewHandler(schema, logger),
		Markets:   marketshttp.NewMarketsAPI(marketsService),
		Dashboard: dashboardhttp.NewDashboardAPI(assembler),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("sales dashboard API listening",
			slog.String("addr", srv.Addr),
			slog.String("environment", cfg.Environment),
			slog.String("invalid_token_policy", string(cfg.InvalidTokenPolicy)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("sales dashboard API exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down sales dashboard API")
	return srv.Shutdown(shutdownCtx)
}

func buildSalesRepository(ctx context.Context, cfg Config, logger *slog.Logger) (salesports.Repository, func()) {
	db, cleanup := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return salesmemory.NewRepository(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		cleanup()
		return salesmemory.NewRepository(), func() {}
	}
	logger.Info("sales repository configured with postgres")
	return salespostgres.NewRepository(db), cleanup
}
