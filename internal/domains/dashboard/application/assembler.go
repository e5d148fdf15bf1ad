package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/domain"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/ports"
)

// DefaultFetchTimeout bounds each of the three fetches.
const DefaultFetchTimeout = 10 * time.Second

// Assembler runs the dashboard fetches concurrently and merges them into a View.
type Assembler struct {
	source  ports.Source
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Assembler)

// WithFetchTimeout overrides the per-fetch timeout. Non-positive values are ignored.
func WithFetchTimeout(d time.Duration) Option {
	return func(a *Assembler) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

func NewAssembler(source ports.Source, opts ...Option) *Assembler {
	a := &Assembler{source: source, timeout: DefaultFetchTimeout, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// update applies one finished fetch to the view it owns a section of.
type update func(*domain.View)

// Assemble waits for all three fetches and returns the merged view.
func (a *Assembler) Assemble(ctx context.Context) domain.View {
	view := domain.NewView()
	for apply := range a.start(ctx) {
		apply(&view)
	}
	return view
}

// Watch emits the initial all-loading view and then a new view after each
// fetch completes. Once ctx is done no further views are emitted and results
// still in flight are discarded. It returns the last emitted view.
func (a *Assembler) Watch(ctx context.Context, emit func(domain.View)) domain.View {
	view := domain.NewView()
	if emit == nil {
		emit = func(domain.View) {}
	}
	emit(view)
	updates := a.start(ctx)
	for {
		select {
		case <-ctx.Done():
			return view
		case apply, ok := <-updates:
			if !ok {
				return view
			}
			if ctx.Err() != nil {
				return view
			}
			apply(&view)
			emit(view)
		}
	}
}

// start launches the fetches. The returned channel is buffered for every
// update and closed once all fetches have returned, so abandoned readers
// never block a fetch.
func (a *Assembler) start(ctx context.Context) <-chan update {
	const fetches = 3
	updates := make(chan update, fetches)
	var g errgroup.Group

	g.Go(func() error {
		orders, err := fetch(ctx, a.timeout, a.source.Sales)
		section := domain.SalesSection(orders)
		if err != nil {
			section = domain.Failed[domain.Sales](a.failure(ctx, "sales", err))
		}
		updates <- func(v *domain.View) { v.Sales = section }
		return nil
	})
	g.Go(func() error {
		rate, err := fetch(ctx, a.timeout, a.source.CurrencyRate)
		section := domain.CurrencySection(rate)
		if err != nil {
			section = domain.Failed[domain.Currency](a.failure(ctx, "currency", err))
		}
		updates <- func(v *domain.View) { v.Currency = section }
		return nil
	})
	g.Go(func() error {
		board, err := fetch(ctx, a.timeout, a.source.Commodities)
		section := domain.CommoditySection(board)
		if err != nil {
			section = domain.Failed[[]domain.Commodity](a.failure(ctx, "commodities", err))
		}
		updates <- func(v *domain.View) { v.Commodities = section }
		return nil
	})

	go func() {
		_ = g.Wait()
		close(updates)
	}()
	return updates
}

func (a *Assembler) failure(ctx context.Context, section string, err error) error {
	a.logger.WarnContext(ctx, "dashboard section unavailable",
		slog.String("section", section),
		slog.String("error", err.Error()))
	return err
}

type outcome[T any] struct {
	value T
	err   error
}

// fetch runs call under its own timeout. A source that ignores cancellation
// is abandoned when the timeout fires, and a panicking source counts as a
// failed fetch.
func fetch[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome[T]{err: fmt.Errorf("source panicked: %v", r)}
			}
		}()
		value, err := call(ctx)
		done <- outcome[T]{value: value, err: err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			var zero T
			return zero, o.err
		}
		return o.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
