package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberfocus/ember/internal/api"
	"github.com/emberfocus/ember/internal/app/leaderboard"
	"github.com/emberfocus/ember/internal/app/ledger"
	"github.com/emberfocus/ember/internal/app/rewarder"
	"github.com/emberfocus/ember/internal/health"
	_ "github.com/emberfocus/ember/internal/infra/metrics" // Register Prometheus metrics
	"github.com/emberfocus/ember/internal/infra/sqlite"
)

// Daemon is the core Ember runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Ledger   *ledger.Service
	Rewarder *rewarder.Service
	Board    *leaderboard.Service
	Health   *health.Checker
	Server   *api.Server
	cancel   context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration. The rule
// catalog is validated here — a malformed catalog fails startup rather
// than surfacing per-request.
func NewWithConfig(cfg Config) (*Daemon, error) {
	dataDir := cfg.Storage.Dir
	if dataDir == "" {
		dataDir = emberHome()
	}

	db, err := sqlite.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	led := ledger.NewService(db)

	rw, err := rewarder.NewService(db, led, cfg.Rules)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("rule catalog: %w", err)
	}

	board := leaderboard.NewService(db)

	srv := api.NewServer(db, rw, led, board)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, dataDir)
	srv.SetHealthChecker(checker)

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Ledger:   led,
		Rewarder: rw,
		Board:    board,
		Health:   checker,
		Server:   srv,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Health checker runs for the daemon's lifetime
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Ember serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
