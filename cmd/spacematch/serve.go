package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/HerbHall/spacematch/internal/catalog"
	"github.com/HerbHall/spacematch/internal/config"
	"github.com/HerbHall/spacematch/internal/match"
	"github.com/HerbHall/spacematch/internal/server"
	"github.com/HerbHall/spacematch/internal/version"
	pkgcatalog "github.com/HerbHall/spacematch/pkg/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type serveOptions struct {
	configPath  string
	catalogPath string
	addr        string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the matching HTTP API",
		Long:  "Serves the catalog, the questionnaire and ranking over HTTP until SIGINT or SIGTERM.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Path to a YAML or JSON catalog (default: embedded)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address host:port (overrides server.host and server.port)")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.catalogPath != "" {
		cfg.Set("catalog.path", opts.catalogPath)
	}

	logger, err := newLogger(cfg.GetString("log.level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("spacematch server starting", zap.String("version", version.Short()))

	addr := cfg.Addr()
	if opts.addr != "" {
		addr = opts.addr
	}
	srv, err := buildServer(cfg, addr, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("spacematch server ready", zap.String("addr", addr))

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetDuration("server.shutdown_timeout"))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("spacematch server stopped")
	return nil
}

// buildServer loads the catalog and wires the API onto a new server.
func buildServer(cfg *config.Config, addr string, logger *zap.Logger) (*server.Server, error) {
	cat := pkgcatalog.NewCatalog()
	if path := cfg.GetString("catalog.path"); path != "" {
		var err error
		if cat, err = pkgcatalog.LoadFile(path); err != nil {
			logger.Error("failed to load catalog", zap.String("path", path), zap.Error(err))
			return nil, err
		}
	}
	if _, err := cat.Entries(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", zap.Int("spaces", cat.Len()))

	policy, err := policyFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := match.NewEngine(policy, logger.Named("match"))
	handler := catalog.NewHandler(cat, engine, catalog.NewMetrics(reg), logger.Named("catalog"))

	return server.New(addr, logger, server.Options{
		RateLimit: cfg.GetFloat64("server.rate_limit"),
		RateBurst: cfg.GetInt("server.rate_burst"),
		Metrics:   reg,
	}, handler), nil
}

// policyFromConfig reads the ranking thresholds under match.
func policyFromConfig(cfg *config.Config) (match.Policy, error) {
	p := match.Policy{
		QualifyScore:  cfg.GetInt("match.qualify_score"),
		NearThreshold: cfg.GetFloat64("match.near_threshold"),
		NearLimit:     cfg.GetInt("match.near_limit"),
	}
	if p.QualifyScore < 1 || p.QualifyScore > match.MaxScore {
		return p, fmt.Errorf("match.qualify_score must be between 1 and %d, got %d", match.MaxScore, p.QualifyScore)
	}
	if math.IsNaN(p.NearThreshold) || math.IsInf(p.NearThreshold, 0) || p.NearThreshold < 0 {
		return p, fmt.Errorf("match.near_threshold must be a finite number of at least 0, got %v", p.NearThreshold)
	}
	return p, nil
}

// cliEngine loads the configuration at path and builds an engine with its
// match policy, so CLI rankings agree with the server's.
func cliEngine(path string) (*config.Config, *match.Engine, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	policy, err := policyFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, match.NewEngine(policy, nil), nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
