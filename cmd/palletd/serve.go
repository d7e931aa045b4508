package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	palletgrpc "github.com/blockberries/pallet/grpc"
	"github.com/blockberries/pallet/internal/config"
	"github.com/blockberries/pallet/internal/logging"
	"github.com/blockberries/pallet/runtime"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ledger over gRPC with Prometheus metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.Setup(os.Stdout, "palletd", cfg.Env, level)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	rt := runtime.New(runtime.WithLogger(logger), runtime.WithMetrics(runtime.NewMetrics(reg)))
	if cfg.GenesisFile != "" {
		doc, err := config.LoadGenesis(cfg.GenesisFile)
		if err != nil {
			return err
		}
		if err := rt.ApplyGenesis(doc); err != nil {
			return err
		}
		logger.Info("genesis applied", slog.String("chain_id", doc.ChainID), slog.Int("accounts", len(doc.Balances)))
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return err
	}
	gs := palletgrpc.NewGRPCServer(runtime.NewApp(rt), logger).NewServer()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("grpc listening", slog.String("addr", lis.Addr().String()))
		return gs.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("metrics listening", slog.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		gs.GracefulStop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
