package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dashboardapp "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/application"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/domain"
	identityhttp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/adapters/http"
	identityapp "github.com/Apurer/agro-sales-dashboard/internal/domains/identity/application"
	marketshttp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/static"
	marketsapp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/application"
	marketsdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	marketsports "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
	salesgraphql "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/graphql"
	salesmemory "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/memory"
	salesapp "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/application"
)

const secret = "client-test-secret"

type stubCurrency struct{}

func (stubCurrency) LatestRate(context.Context) (marketsdomain.CurrencyRate, error) {
	return marketsdomain.CurrencyRate{
		Buy:        decimal.RequireFromString("1165.5"),
		Sell:       decimal.RequireFromString("1215.5"),
		LastUpdate: "2025-06-19T11:57:00-03:00",
	}, nil
}

type hangingCommodities struct{}

func (hangingCommodities) Commodities(ctx context.Context) (marketsdomain.CommodityBoard, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newServer(t *testing.T, commodities marketsports.CommodityProvider) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := salesmemory.NewRepository()
	require.NoError(t, salesapp.SeedDemo(context.Background(), repo, time.Date(2025, 6, 19, 9, 0, 0, 0, time.UTC)))
	schema, err := salesgraphql.NewSchema(salesapp.NewService(repo))
	require.NoError(t, err)
	resolver, err := identityapp.NewResolver(secret)
	require.NoError(t, err)
	markets := marketsapp.NewService(stubCurrency{}, commodities,
		marketsapp.WithTimeout(50*time.Millisecond), marketsapp.WithLogger(logger))

	r := gin.New()
	r.Use(identityhttp.NewMiddleware(resolver, identityhttp.WithLogger(logger)).Handler())
	salesgraphql.NewHandler(schema, logger).Register(r)
	marketshttp.NewMarketsAPI(markets).Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T) string {
	t.Helper()
	issuer, err := identityapp.NewIssuer(secret)
	require.NoError(t, err)
	tok, err := issuer.Issue("dashboard", nil, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestClient_FetchesAllThreeSources(t *testing.T) {
	srv := newServer(t, static.NewCommodities())
	client, err := NewClient(srv.URL+"/", WithToken(token(t)), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	ctx := context.Background()

	orders, err := client.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, "Soja", orders[0].Products[0].ProductName())
	require.Equal(t, int64(10), orders[0].Products[0].QuantityOrZero())
	require.Equal(t, "4400", orders[0].TotalAmount.String())

	rate, err := client.CurrencyRate(ctx)
	require.NoError(t, err)
	require.Equal(t, "1215.5", rate.Sell.String())
	require.Equal(t, "2025-06-19T11:57:00-03:00", rate.LastUpdate)

	board, err := client.Commodities(ctx)
	require.NoError(t, err)
	require.Equal(t, "220", board["trigo"].Price.String())
}

func TestClient_AnonymousSalesQueryFails(t *testing.T) {
	srv := newServer(t, static.NewCommodities())
	client, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = client.Sales(context.Background())
	require.ErrorContains(t, err, "authentication required")
}

func TestClient_ProxyFailureSurfacesLegacyMessage(t *testing.T) {
	srv := newServer(t, hangingCommodities{})
	client, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = client.Commodities(context.Background())
	require.ErrorIs(t, err, ErrStatus)
	require.ErrorContains(t, err, marketshttp.CommodityErrorMessage)
}

func TestAssembler_EndToEndWithCommodityTimeout(t *testing.T) {
	srv := newServer(t, hangingCommodities{})
	client, err := NewClient(srv.URL, WithToken(token(t)), WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	view := dashboardapp.NewAssembler(client,
		dashboardapp.WithFetchTimeout(5*time.Second),
		dashboardapp.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	).Assemble(context.Background())

	require.Equal(t, domain.StateFailed, view.Commodities.State)
	require.Equal(t, domain.StateReady, view.Sales.State)
	require.Equal(t, int64(50), view.Sales.Data.TotalUnits)
	require.Equal(t, domain.StateReady, view.Currency.State)
}

func TestClient_IncompleteQuoteIsMalformed(t *testing.T) {
	for _, body := range []string{
		`{"oficial":{},"last_update":""}`,
		`{"oficial":{"value_buy":1165.5},"last_update":""}`,
		`{"last_update":""}`,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		client, err := NewClient(srv.URL, WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		_, err = client.CurrencyRate(context.Background())
		require.ErrorIs(t, err, marketsdomain.ErrMalformedPayload, body)

		view := dashboardapp.NewAssembler(client,
			dashboardapp.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		).Assemble(context.Background())
		srv.Close()
		require.Equal(t, domain.StateFailed, view.Currency.State, body)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	client, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = client.CurrencyRate(context.Background())
	require.ErrorIs(t, err, ErrStatus)
}
