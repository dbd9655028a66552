package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aluiziolira/go-trackmeta/config"
	"github.com/aluiziolira/go-trackmeta/resolver"
	"github.com/aluiziolira/go-trackmeta/server"
	"github.com/aluiziolira/go-trackmeta/source"
)

func main() {
	defaultCfg := config.DefaultConfig()

	addrDefault := defaultCfg.ListenAddr
	if value, ok, err := config.EnvInt("PORT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid PORT: %v\n", err)
		os.Exit(1)
	} else if ok {
		addrDefault = fmt.Sprintf(":%d", value)
	}
	sourceDefault := defaultCfg.Source
	if value, ok := config.EnvString("TRACKMETA_SOURCE"); ok {
		sourceDefault = value
	}
	debugFileDefault := defaultCfg.DebugFile
	if value, ok := config.EnvString("TRACKMETA_DEBUG_FILE"); ok {
		debugFileDefault = value
	}
	searchTimeoutDefault := defaultCfg.SearchTimeout
	if value, ok, err := config.EnvDuration("TRACKMETA_SEARCH_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid TRACKMETA_SEARCH_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		searchTimeoutDefault = value
	}

	addr := flag.String("addr", addrDefault, "HTTP listen address")
	sourceVariant := flag.String("source", sourceDefault, "Metadata source variant: api or scrape")
	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Public site base URL (scrape variant)")
	apiBaseURL := flag.String("api-base-url", defaultCfg.APIBaseURL, "Search API base URL (api variant)")
	searchTimeout := flag.Duration("search-timeout", searchTimeoutDefault, "Per-request search timeout")
	selectorWait := flag.Duration("selector-wait", defaultCfg.SelectorWait, "Total wait for search results to appear")
	detailTimeout := flag.Duration("detail-timeout", defaultCfg.DetailTimeout, "Detail page request timeout")
	debugFile := flag.String("debug-file", debugFileDefault, "Dump the last search page HTML to this path (empty disables)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.ListenAddr = *addr
	cfg.Source = *sourceVariant
	cfg.BaseURL = *baseURL
	cfg.APIBaseURL = *apiBaseURL
	cfg.SearchTimeout = *searchTimeout
	cfg.SelectorWait = *selectorWait
	cfg.DetailTimeout = *detailTimeout
	cfg.DebugFile = *debugFile
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := source.NewMetrics()
	src, err := source.New(cfg, metrics)
	if err != nil {
		slog.Error("initialising metadata source", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(resolver.New(src, metrics), metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, draining connections")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", slog.Any("error", err))
		}
	}()

	slog.Info("starting lookup service",
		slog.String("addr", cfg.ListenAddr),
		slog.String("source", cfg.Source),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
