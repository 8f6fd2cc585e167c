// Package daemon wires a net/http server running the printer service into
// a signal-aware process lifecycle: start, serve, and shut down cleanly on
// SIGTERM/SIGINT, the way a long-running server process is expected to
// behave.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkspool/ippcore/internal/jobcache"
	"github.com/inkspool/ippcore/internal/tlsconfig"
)

// Config holds the daemon's process-level configuration: where to listen,
// optional TLS material, and the job cache's bounds.
type Config struct {
	ListenAddr   string
	TLSCertPath  string
	TLSKeyPath   string
	SpoolDir     string
	JobCacheCap  int
	JobCacheTTL  time.Duration
	ShutdownWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:   ":631",
		SpoolDir:     "/var/spool/ippcore",
		JobCacheCap:  jobcache.DefaultCapacity,
		JobCacheTTL:  jobcache.DefaultTTL,
		ShutdownWait: 10 * time.Second,
	}
}

// Daemon owns the HTTP server and job cache for the process's lifetime.
type Daemon struct {
	config Config
	srv    *http.Server
	cache  *jobcache.Cache
	log    zerolog.Logger
}

// New creates a daemon serving handler on config.ListenAddr, backed by a
// job cache it creates and owns.
func New(config Config, handler http.Handler, log zerolog.Logger) *Daemon {
	cache := jobcache.New(config.JobCacheCap, config.JobCacheTTL)
	return &Daemon{
		config: config,
		cache:  cache,
		srv: &http.Server{
			Addr:    config.ListenAddr,
			Handler: handler,
		},
		log: log.With().Str("component", "daemon").Logger(),
	}
}

// Cache returns the job cache so cmd wiring can hand it to the printer
// service before calling Run.
func (d *Daemon) Cache() *jobcache.Cache { return d.cache }

// Run starts listening and blocks until ctx is canceled or a termination
// signal arrives, then shuts down gracefully.
func (d *Daemon) Run(ctx context.Context) error {
	d.log.Info().Str("addr", d.config.ListenAddr).Msg("starting ipp server")

	if err := d.verifySpoolDir(); err != nil {
		return err
	}

	ln, err := d.listen()
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- d.srv.Serve(ln)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-ctx.Done():
		d.log.Info().Msg("context canceled, shutting down")
	case sig := <-sigChan:
		d.log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	return d.shutdown()
}

func (d *Daemon) listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", d.config.ListenAddr)
	if err != nil {
		return nil, err
	}
	if d.config.TLSCertPath == "" {
		return ln, nil
	}
	cfg, err := tlsconfig.Load(d.config.TLSCertPath, d.config.TLSKeyPath)
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("loading tls material: %w", err)
	}
	return tlsconfig.NewAdaptiveListener(ln, cfg), nil
}

func (d *Daemon) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.ShutdownWait)
	defer cancel()

	d.cache.Close()
	if err := d.srv.Shutdown(ctx); err != nil {
		d.log.Error().Err(err).Msg("shutdown did not complete cleanly")
		return err
	}
	d.log.Info().Msg("shutdown complete")
	return nil
}

func (d *Daemon) verifySpoolDir() error {
	if d.config.SpoolDir == "" {
		return nil
	}
	info, err := os.Stat(d.config.SpoolDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("spool directory does not exist: %s", d.config.SpoolDir)
		}
		return fmt.Errorf("cannot access spool directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("spool path is not a directory: %s", d.config.SpoolDir)
	}
	testFile := d.config.SpoolDir + "/.ippcore-write-test"
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("spool directory is not writable: %w", err)
	}
	os.Remove(testFile)
	return nil
}
