package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/satrarity/internal/logging"
	"github.com/ppiankov/satrarity/internal/metrics"
	"github.com/ppiankov/satrarity/internal/model"
	"github.com/ppiankov/satrarity/internal/pipeline"
	"github.com/ppiankov/satrarity/internal/rpc"
	"github.com/ppiankov/satrarity/internal/worker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON-RPC API",
	Long: `Serve starts the JSON-RPC 2.0 server with the methods getHealth,
getSatRanges and getBlockRarities on POST /, plus GET /health and
GET /metrics.

Example:
  satrarity serve
  satrarity serve --addr 0.0.0.0:8645 --index-backend redis`,
	Args: cobra.NoArgs,
	RunE: runServe,
	PreRun: bindFlags(map[string]string{
		"server.addr":    "addr",
		"index.backend":  "index-backend",
		"index.file":     "index-file",
		"rarity.taproot": "taproot",
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address")
	serveCmd.Flags().String("index-backend", "", "index backend (file, redis)")
	serveCmd.Flags().String("index-file", "", "YAML index file")
	serveCmd.Flags().Bool("taproot", false, "report taproot sats")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, closeIndex, err := openIndex(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeIndex() }()

	m := metrics.New()
	p := pipeline.NewPipeline(idx, cfg, pipeline.WithMetrics(m), pipeline.WithLogger(logger))

	opts := []rpc.Option{rpc.WithMetrics(m), rpc.WithLogger(logger)}
	if cfg.RateLimiting.Enabled {
		opts = append(opts, rpc.WithLimiter(newLimiter(cfg.RateLimiting)))
	}

	srv := &http.Server{
		Handler:           rpc.NewServer(p, cfg.Server, opts...).Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	if cfg.Server.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConnections)
	}

	logger.Info("serving json-rpc",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_connections", cfg.Server.MaxConnections),
		zap.Bool("rate_limiting", cfg.RateLimiting.Enabled),
		zap.Bool("taproot", cfg.Rarity.Taproot))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLimiter builds the per-client limiter with its configured overrides
func newLimiter(cfg model.RateLimitingConfig) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	for _, c := range cfg.Clients {
		limiter.SetClientRate(c.Client, c.RequestsPerSecond, c.BurstSize)
	}
	return limiter
}
