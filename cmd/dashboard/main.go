package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	dashboardapi "github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/api"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/adapters/render"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/application"
	"github.com/Apurer/agro-sales-dashboard/internal/domains/dashboard/domain"
	platformobservability "github.com/Apurer/agro-sales-dashboard/internal/platform/observability"
)

func main() {
	_ = godotenv.Load()

	watch := flag.Bool("watch", false, "redraw the dashboard as each section resolves")
	asJSON := flag.Bool("json", false, "print the final view as JSON")
	apiURL := flag.String("api", envOrDefault("DASHBOARD_API_URL", "http://localhost:4000"), "base URL of the sales dashboard API")
	flag.Parse()

	logger := platformobservability.NewLogger(os.Stderr, "text", envOrDefault("LOG_LEVEL", "warn"))

	timeout := application.DefaultFetchTimeout
	if raw := strings.TrimSpace(os.Getenv("DASHBOARD_FETCH_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			logger.Error("invalid DASHBOARD_FETCH_TIMEOUT", slog.String("value", raw))
			os.Exit(2)
		}
		timeout = d
	}

	client, err := dashboardapi.NewClient(*apiURL, dashboardapi.WithToken(os.Getenv("DASHBOARD_TOKEN")))
	if err != nil {
		logger.Error("failed to build api client", slog.String("error", err.Error()))
		os.Exit(2)
	}
	assembler := application.NewAssembler(client,
		application.WithFetchTimeout(timeout),
		application.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch && !*asJSON {
		assembler.Watch(ctx, func(v domain.View) {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			draw(os.Stdout, v, render.Text, logger)
		})
		return
	}
	write := render.Text
	if *asJSON {
		write = render.JSON
	}
	draw(os.Stdout, assembler.Assemble(ctx), write, logger)
}

func draw(w io.Writer, v domain.View, write func(io.Writer, domain.View) error, logger *slog.Logger) {
	if err := write(w, v); err != nil {
		logger.Error("failed to render dashboard", slog.String("error", err.Error()))
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
