//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	dashboardapi "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/api"
	marketshttp "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/http"
	pacttest "github.com/Apurer/agro-sales-dashboard/test/pact"
)

func TestDashboardContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	cereal := func(price float64) matchers.Map {
		return matchers.Map{
			"precio": matchers.Like(price),
			"unidad": matchers.Like("USD/ton"),
			"fecha":  matchers.Like("2025-06-19"),
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateCommoditiesPublished).
		UponReceiving("a request for commodity prices").
		WithRequest("GET", "/api/cereales").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"soja":  cereal(350),
				"maiz":  cereal(180),
				"trigo": cereal(220),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCurrencyAvailable).
		UponReceiving("a request for the official dollar quote").
		WithRequest("GET", "/api/dolar").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"oficial": matchers.Map{
					"value_buy":  matchers.Like(pacttest.ExampleBuy),
					"value_sell": matchers.Like(pacttest.ExampleSell),
				},
				"last_update": matchers.Like(pacttest.ExampleLastUpdate),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := dashboardapi.NewClient(fmt.Sprintf("http://%s:%d", config.Host, config.Port))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		board, err := client.Commodities(ctx)
		if err != nil {
			return err
		}
		if len(board) != 3 || board["soja"].Unit != "USD/ton" {
			return fmt.Errorf("unexpected board %+v", board)
		}

		rate, err := client.CurrencyRate(ctx)
		if err != nil {
			return err
		}
		if rate.Sell.InexactFloat64() != pacttest.ExampleSell {
			return fmt.Errorf("unexpected sell %s", rate.Sell)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestDashboardContract_CurrencyOutage(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pact.AddInteraction().
		Given(pacttest.StateCurrencyUnavailable).
		UponReceiving("a request for the dollar quote while the upstream is down").
		WithRequest("GET", "/api/dolar").
		WillRespondWith(http.StatusInternalServerError, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", matchers.S("application/problem+json"))
			b.JSONBody(matchers.Map{
				"error":  matchers.S(marketshttp.CurrencyErrorMessage),
				"status": matchers.Like(http.StatusInternalServerError),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client, err := dashboardapi.NewClient(fmt.Sprintf("http://%s:%d", config.Host, config.Port))
		if err != nil {
			return err
		}
		_, err = client.CurrencyRate(context.Background())
		if err == nil {
			return fmt.Errorf("expected an error for the outage")
		}
		if !strings.Contains(err.Error(), marketshttp.CurrencyErrorMessage) {
			return fmt.Errorf("error %q lost the upstream message", err)
		}
		return nil
	})
	require.NoError(t, err)
}
