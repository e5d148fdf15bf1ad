package observability

import (
	"context"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/markets/ports"
)

const tracerName = "github.com/Apurer/agro-sales-dashboard/internal/domains/markets/adapters/observability/service"

// Service decorates the markets service with spans and failure counters.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(os.Stderr, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CurrencyRate(ctx context.Context) domain.Result[domain.CurrencyRate] {
	ctx, span := s.tracer.Start(ctx, "MarketsService.CurrencyRate")
	defer span.End()

	res := s.inner.CurrencyRate(ctx)
	s.observe(ctx, span, "currency", res.Err())
	return res
}

func (s *Service) CommodityPrices(ctx context.Context) domain.Result[domain.CommodityBoard] {
	ctx, span := s.tracer.Start(ctx, "MarketsService.CommodityPrices")
	defer span.End()

	res := s.inner.CommodityPrices(ctx)
	if board, ok := res.Value(); ok {
		span.SetAttributes(attribute.Int("commodities.count", len(board)))
	}
	s.observe(ctx, span, "commodities", res.Err())
	return res
}

func (s *Service) observe(ctx context.Context, span trace.Span, upstream string, err error) {
	attrs := metric.WithAttributes(attribute.String("upstream", upstream))
	if err == nil {
		if s.metrics.fetches != nil {
			s.metrics.fetches.Add(ctx, 1, attrs)
		}
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.metrics.failures != nil {
		s.metrics.failures.Add(ctx, 1, attrs)
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "upstream unavailable",
			slog.String("upstream", upstream),
			slog.String("error", err.Error()))
	}
}

type serviceMetrics struct {
	fetches  metric.Int64Counter
	failures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	fetches, _ := m.Int64Counter("markets.service.fetches", metric.WithDescription("Successful upstream fetches"))
	failures, _ := m.Int64Counter("markets.service.failures", metric.WithDescription("Failed upstream fetches"))
	return serviceMetrics{fetches: fetches, failures: failures}
}

var _ ports.Service = (*Service)(nil)
