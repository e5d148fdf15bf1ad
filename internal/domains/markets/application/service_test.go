package application

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/static"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
)

type currencyFunc func(ctx context.Context) (domain.CurrencyRate, error)

func (f currencyFunc) LatestRate(ctx context.Context) (domain.CurrencyRate, error) { return f(ctx) }

type commodityFunc func(ctx context.Context) (domain.CommodityBoard, error)

func (f commodityFunc) Commodities(ctx context.Context) (domain.CommodityBoard, error) { return f(ctx) }

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestCurrencyRate_Success(t *testing.T) {
	svc := NewService(currencyFunc(func(context.Context) (domain.CurrencyRate, error) {
		return domain.CurrencyRate{Buy: decimal.NewFromInt(1000), Sell: decimal.NewFromInt(1050), LastUpdate: "2025-06-19T11:57:00Z"}, nil
	}), nil)

	res := svc.CurrencyRate(context.Background())
	rate, ok := res.Value()
	require.True(t, ok)
	require.Equal(t, "1050", rate.Sell.String())
}

func TestCurrencyRate_UpstreamErrorBecomesLoggedFailure(t *testing.T) {
	var logs bytes.Buffer
	boom := errors.New("connection refused")
	svc := NewService(currencyFunc(func(context.Context) (domain.CurrencyRate, error) {
		return domain.CurrencyRate{}, boom
	}), nil, WithLogger(quietLogger(&logs)))

	res := svc.CurrencyRate(context.Background())
	require.False(t, res.OK())
	require.ErrorIs(t, res.Err(), boom)
	require.Contains(t, logs.String(), "connection refused")
	require.Contains(t, logs.String(), `"upstream":"currency"`)
}

func TestCurrencyRate_TimeoutIsFailure(t *testing.T) {
	var logs bytes.Buffer
	svc := NewService(currencyFunc(func(ctx context.Context) (domain.CurrencyRate, error) {
		<-ctx.Done()
		return domain.CurrencyRate{}, ctx.Err()
	}), nil, WithTimeout(20*time.Millisecond), WithLogger(quietLogger(&logs)))

	start := time.Now()
	res := svc.CurrencyRate(context.Background())
	require.ErrorIs(t, res.Err(), context.DeadlineExceeded)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestCurrencyRate_PanicAndInvalidDataAreFailures(t *testing.T) {
	var logs bytes.Buffer
	panicky := NewService(currencyFunc(func(context.Context) (domain.CurrencyRate, error) {
		panic("nil map")
	}), nil, WithLogger(quietLogger(&logs)))
	require.NotPanics(t, func() {
		require.False(t, panicky.CurrencyRate(context.Background()).OK())
	})

	negative := NewService(currencyFunc(func(context.Context) (domain.CurrencyRate, error) {
		return domain.CurrencyRate{Buy: decimal.NewFromInt(-5)}, nil
	}), nil, WithLogger(quietLogger(&logs)))
	require.ErrorIs(t, negative.CurrencyRate(context.Background()).Err(), domain.ErrMalformedPayload)

	unconfigured := NewService(nil, nil, WithLogger(quietLogger(&logs)))
	require.ErrorIs(t, unconfigured.CurrencyRate(context.Background()).Err(), ErrNotConfigured)
	require.ErrorIs(t, unconfigured.CommodityPrices(context.Background()).Err(), ErrNotConfigured)
}

func TestCommodityPrices_SnapshotAndPartialBoard(t *testing.T) {
	svc := NewService(nil, static.NewCommodities())
	board, ok := svc.CommodityPrices(context.Background()).Value()
	require.True(t, ok)
	require.Equal(t, []string{"maiz", "soja", "trigo"}, board.Names())
	require.Equal(t, "350", board["soja"].Price.String())
	require.Equal(t, "USD/ton", board["trigo"].Unit)
	require.Equal(t, "2025-06-19", board["maiz"].Date)

	var logs bytes.Buffer
	partial := NewService(nil, commodityFunc(func(context.Context) (domain.CommodityBoard, error) {
		return domain.CommodityBoard{"soja": {Price: decimal.NewFromInt(350)}}, nil
	}), WithLogger(quietLogger(&logs)))
	res := partial.CommodityPrices(context.Background())
	require.ErrorIs(t, res.Err(), domain.ErrMalformedPayload)
	value, ok := res.Value()
	require.False(t, ok)
	require.Nil(t, value)
}
