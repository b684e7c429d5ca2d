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
	"strings"
	"syscall"
	"time"

	"github.com/klauspost/cpuid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanonone/kektorsimd/pkg/bench"
	"github.com/sanonone/kektorsimd/pkg/core/avx"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML bench configuration (defaults are used when empty)")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus /metrics on while running (e.g. :9100)")
	flag.Parse()

	cfg, err := bench.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	setupLogger(cfg.LogLevel)
	avx.LogBackend(slog.Default())

	printCPUReport()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := run(ctx, cfg)
	if werr := report.WriteText(os.Stdout); werr != nil {
		slog.Error("Could not write report", "error", werr)
	}
	if err != nil {
		slog.Error("Bench run failed", "error", err)
		os.Exit(1)
	}
	if n := report.Failures(); n > 0 {
		slog.Error("Verification failures", "count", n)
		os.Exit(1)
	}
}

// run executes the bench suite, serving /metrics alongside it when
// cfg.MetricsAddr is set. The server stops once the suite finishes.
func run(ctx context.Context, cfg bench.Config) (bench.Report, error) {
	if cfg.MetricsAddr == "" {
		return bench.Run(ctx, cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	var report bench.Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Serving metrics", "addr", cfg.MetricsAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		report, err = bench.Run(gctx, cfg)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
			err = serr
		}
		return err
	})
	err := g.Wait()
	return report, err
}

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func printCPUReport() {
	c := cpuid.CPU
	var features []string
	for _, f := range []cpuid.FeatureID{cpuid.AVX, cpuid.AVX2, cpuid.FMA3, cpuid.F16C, cpuid.AVX512F} {
		if c.Supports(f) {
			features = append(features, f.String())
		}
	}
	fmt.Printf("cpu:      %s (%s, family %d model %d)\n", c.BrandName, c.VendorString, c.Family, c.Model)
	fmt.Printf("features: %s\n", strings.Join(features, " "))
	fmt.Printf("backend:  %s (set %s=%s to force the portable path)\n\n", avx.Backend(), avx.EnvBackend, avx.BackendGeneric)
}
