package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 5 * time.Second

var ErrNotConfigured = errors.New("market provider not configured")

// Service turns provider calls into Results, bounding each call with a timeout.
type Service struct {
	currency    ports.CurrencyProvider
	commodities ports.CommodityProvider
	timeout     time.Duration
	logger      *slog.Logger
}

type Option func(*Service)

// WithTimeout overrides the per-call upstream timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(currency ports.CurrencyProvider, commodities ports.CommodityProvider, opts ...Option) *Service {
	s := &Service{
		currency:    currency,
		commodities: commodities,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CurrencyRate fetches the official dollar quote.
func (s *Service) CurrencyRate(ctx context.Context) domain.Result[domain.CurrencyRate] {
	if s.currency == nil {
		return domain.Fail[domain.CurrencyRate](s.failure(ctx, "currency", ErrNotConfigured))
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rate, err := guard(func() (domain.CurrencyRate, error) { return s.currency.LatestRate(ctx) })
	if err == nil {
		err = rate.Validate()
	}
	if err != nil {
		return domain.Fail[domain.CurrencyRate](s.failure(ctx, "currency", err))
	}
	return domain.Ok(rate)
}

// CommodityPrices fetches the commodity board. Incomplete boards are failures.
func (s *Service) CommodityPrices(ctx context.Context) domain.Result[domain.CommodityBoard] {
	if s.commodities == nil {
		return domain.Fail[domain.CommodityBoard](s.failure(ctx, "commodities", ErrNotConfigured))
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	board, err := guard(func() (domain.CommodityBoard, error) { return s.commodities.Commodities(ctx) })
	if err == nil {
		err = board.Validate()
	}
	if err != nil {
		return domain.Fail[domain.CommodityBoard](s.failure(ctx, "commodities", err))
	}
	return domain.Ok(board.Clone())
}

func (s *Service) failure(ctx context.Context, source string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", err, ctxErr)
	}
	s.logger.WarnContext(ctx, "upstream fetch failed",
		slog.String("upstream", source),
		slog.String("error", err.Error()))
	return err
}

// guard converts a provider panic into an error.
func guard[T any](call func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("upstream provider panicked: %v", r)
		}
	}()
	return call()
}

var _ ports.Service = (*Service)(nil)
