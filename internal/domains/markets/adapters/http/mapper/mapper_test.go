package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
)

func TestToCurrencyRate_RequiresBuyAndSell(t *testing.T) {
	for _, body := range []string{
		`{"last_update":""}`,
		`{"oficial":{},"last_update":""}`,
		`{"oficial":{"value_buy":1000.5},"last_update":""}`,
		`{"oficial":{"value_buy":1000.5,"value_sell":null}}`,
	} {
		var d Dolar
		require.NoError(t, json.Unmarshal([]byte(body), &d))
		_, err := ToCurrencyRate(d)
		require.ErrorIs(t, err, domain.ErrMalformedPayload, body)
	}

	var d Dolar
	require.NoError(t, json.Unmarshal([]byte(`{"oficial":{"value_buy":0,"value_sell":1050.25},"last_update":"x"}`), &d))
	rate, err := ToCurrencyRate(d)
	require.NoError(t, err)
	require.True(t, rate.Buy.IsZero())
	require.Equal(t, "1050.25", rate.Sell.String())
}

func TestFromCurrencyRate_WritesBothValues(t *testing.T) {
	out, err := json.Marshal(FromCurrencyRate(domain.CurrencyRate{
		Buy:        decimal.RequireFromString("1000.5"),
		Sell:       decimal.RequireFromString("1050.25"),
		LastUpdate: "2025-06-19",
	}))
	require.NoError(t, err)
	require.JSONEq(t, `{"oficial":{"value_buy":1000.5,"value_sell":1050.25},"last_update":"2025-06-19"}`, string(out))
}
