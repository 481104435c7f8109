// Command monev runs one multi-source correlation and latency-analysis
// batch: it ingests the configured catalogs, matches events across them,
// evaluates milestone latencies, and hands the result tables to the
// reporting sink.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/quakemon/quake-monev/internal/adapter/http"
	"github.com/quakemon/quake-monev/internal/adapter/inatews"
	kafkaadapter "github.com/quakemon/quake-monev/internal/adapter/kafka"
	"github.com/quakemon/quake-monev/internal/catalog"
	"github.com/quakemon/quake-monev/internal/config"
	"github.com/quakemon/quake-monev/internal/correlate"
	"github.com/quakemon/quake-monev/internal/domain"
	"github.com/quakemon/quake-monev/internal/latency"
	"github.com/quakemon/quake-monev/internal/observability"
	"github.com/quakemon/quake-monev/internal/pipeline"
)

type runFlags struct {
	start     string
	end       string
	north     float64
	south     float64
	west      float64
	east      float64
	minMag    float64
	maxMag    float64
	tolerance time.Duration
	serve     bool
}

func main() {
	flags := runFlags{}

	root := &cobra.Command{
		Use:   "monev",
		Short: "Correlate earthquake catalogs and measure source latencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), flags)
		},
		SilenceUsage: true,
	}

	root.Flags().StringVar(&flags.start, "start", "", "window start (e.g. 2025-01-01 00:00:00)")
	root.Flags().StringVar(&flags.end, "end", "", "window end")
	root.Flags().Float64Var(&flags.north, "north", 6.0, "bounding box north latitude")
	root.Flags().Float64Var(&flags.south, "south", -13.0, "bounding box south latitude")
	root.Flags().Float64Var(&flags.west, "west", 90.0, "bounding box west longitude")
	root.Flags().Float64Var(&flags.east, "east", 142.0, "bounding box east longitude")
	root.Flags().Float64Var(&flags.minMag, "min-mag", 0, "minimum magnitude")
	root.Flags().Float64Var(&flags.maxMag, "max-mag", 0, "maximum magnitude (0 disables)")
	root.Flags().DurationVar(&flags.tolerance, "tolerance", 30*time.Second, "correlation time tolerance")
	root.Flags().BoolVar(&flags.serve, "serve", false, "keep serving /metrics after the batch until interrupted")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, flags runFlags) error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	sources, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Error("failed to load sources", "error", err)
		return err
	}

	filter, err := buildFilter(flags)
	if err != nil {
		logger.Error("invalid window flags", "error", err)
		return err
	}

	client := inatews.NewClient(cfg.HistoryBaseURL, cfg.FetchTimeout, logger)
	fetchers := buildFetchers(cfg, logger, metrics)

	var sink pipeline.ResultSink
	if len(cfg.KafkaBrokers) > 0 {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaReportTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sink = writer
		logger.Info("reporting sink enabled", "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("reporting sink disabled")
	}

	evaluator := latency.NewEvaluator(cfg.FetchWorkers, cfg.FetchTimeout, logger, metrics)
	p := pipeline.New(sources, client, evaluator, fetchers, sink, filter, flags.tolerance, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	result, err := p.Run(ctx)
	if err != nil {
		logger.Error("batch failed", "error", err)
		shutdown(srv, cfg.ShutdownTimeout, logger)
		return err
	}

	for _, table := range result.Comparisons {
		fmt.Print(correlate.RenderCSV(table))
	}

	if flags.serve {
		<-ctx.Done()
	}
	shutdown(srv, cfg.ShutdownTimeout, logger)
	return nil
}

func buildFilter(flags runFlags) (catalog.Filter, error) {
	f := catalog.Filter{
		North:        flags.north,
		South:        flags.south,
		West:         flags.west,
		East:         flags.east,
		MinMagnitude: flags.minMag,
		MaxMagnitude: flags.maxMag,
	}
	if flags.start != "" {
		t, ok := domain.ParseTimestamp(flags.start, domain.TimestampLayouts)
		if !ok {
			return catalog.Filter{}, fmt.Errorf("unparsable --start %q", flags.start)
		}
		f.Start = t
	}
	if flags.end != "" {
		t, ok := domain.ParseTimestamp(flags.end, domain.TimestampLayouts)
		if !ok {
			return catalog.Filter{}, fmt.Errorf("unparsable --end %q", flags.end)
		}
		f.End = t
	}
	return f, nil
}

// buildFetchers wires one fetcher per externally retrieved milestone,
// each behind its own LRU cache. Unset base URLs leave the milestone out
// of the batch.
func buildFetchers(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) map[domain.Milestone]latency.Fetcher {
	fetchers := make(map[domain.Milestone]latency.Fetcher)

	if cfg.HistoryBaseURL != "" {
		client := inatews.NewClient(cfg.HistoryBaseURL, cfg.FetchTimeout, logger)
		fetchers[domain.MilestoneProcessing] = inatews.NewCachedFetcher(
			inatews.HistoryFetcher{Client: client}, domain.MilestoneProcessing, cfg.MilestoneCacheSize, metrics)
	}
	if cfg.IncidentLogBaseURL != "" {
		client := inatews.NewClient(cfg.IncidentLogBaseURL, cfg.FetchTimeout, logger)
		fetchers[domain.MilestoneTOAST] = inatews.NewCachedFetcher(
			inatews.IncidentLogFetcher{Client: client}, domain.MilestoneTOAST, cfg.MilestoneCacheSize, metrics)
		fetchers[domain.MilestoneSeisComP] = inatews.NewCachedFetcher(
			inatews.IncidentLogFetcher{Client: client}, domain.MilestoneSeisComP, cfg.MilestoneCacheSize, metrics)
	}
	return fetchers
}

func shutdown(srv *httpadapter.Server, timeout time.Duration, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
