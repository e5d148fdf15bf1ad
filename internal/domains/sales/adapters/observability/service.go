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

	salesdomain "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/domain"
	salesports "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/ports"
)

const tracerName = "github.com/Apurer/agro-sales-dashboard/internal/domains/sales/adapters/observability/service"

// Service decorates the sales service with tracing, logging, and metrics.
type Service struct {
	inner   salesports.Service
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

// New wraps the core sales service.
func New(inner salesports.Service, opts ...Option) salesports.Service {
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

func (s *Service) ListSales(ctx context.Context) ([]*salesdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "SalesService.ListSales")
	defer span.End()

	result, err := s.inner.ListSales(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list sales")
	}
	span.SetAttributes(attribute.Int("sales.count", len(result)))
	s.logInfo(ctx, "sales listed", slog.Int("sales.count", len(result)))
	return result, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (*salesdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "SalesService.GetSale", trace.WithAttributes(attribute.String("sale.id", id)))
	defer span.End()

	result, err := s.inner.GetSale(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load sale", slog.String("sale.id", id))
	}
	return result, nil
}

func (s *Service) CreateSale(ctx context.Context, items []salesports.LineItemInput) (*salesdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "SalesService.CreateSale", trace.WithAttributes(attribute.Int("sale.lines", len(items))))
	defer span.End()

	s.logInfo(ctx, "recording sale", slog.Int("sale.lines", len(items)))
	result, err := s.inner.CreateSale(ctx, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record sale", slog.Int("sale.lines", len(items)))
	}
	s.metrics.recordCreated(ctx, result)
	s.logInfo(ctx, "sale recorded", slog.String("sale.id", result.ID), slog.String("sale.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]salesdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "SalesService.ListProducts")
	defer span.End()

	result, err := s.inner.ListProducts(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.count", len(result)))
	return result, nil
}

func (s *Service) Summary(ctx context.Context) (salesdomain.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "SalesService.Summary")
	defer span.End()

	result, err := s.inner.Summary(ctx)
	if err != nil {
		return salesdomain.Summary{}, s.handleError(ctx, span, err, "failed to summarize sales")
	}
	span.SetAttributes(
		attribute.Int64("sales.units", result.TotalUnitsSold),
		attribute.Int("sales.products", len(result.Products)),
	)
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	salesCreated metric.Int64Counter
	unitsSold    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	salesCreated, _ := m.Int64Counter("sales.service.sales_created", metric.WithDescription("Number of sales recorded"))
	unitsSold, _ := m.Int64Counter("sales.service.units_sold", metric.WithDescription("Units sold across recorded sales"))
	return serviceMetrics{salesCreated: salesCreated, unitsSold: unitsSold}
}

func (m serviceMetrics) recordCreated(ctx context.Context, order *salesdomain.Order) {
	if m.salesCreated != nil {
		m.salesCreated.Add(ctx, 1)
	}
	if m.unitsSold == nil || order == nil {
		return
	}
	for _, item := range order.Products {
		m.unitsSold.Add(ctx, item.QuantityOrZero(), metric.WithAttributes(attribute.String("product.name", item.ProductName())))
	}
}

var _ salesports.Service = (*Service)(nil)
