// Command devhub serves a local NoteHub-compatible API backed by memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notehub/internal/config"
	"notehub/internal/logger"
	"notehub/internal/services/auth"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/grafana/pyroscope-go"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

const devSubject = "devhub"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Create bootstrap logger for early errors
	bootstrapLog := log.New(os.Stderr, "bootstrap: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog.Printf("config load failed: %v", err)
		os.Exit(1)
	}

	logg, err := logger.Init(cfg)
	if err != nil {
		bootstrapLog.Printf("logger init failed: %v", err)
		os.Exit(1)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logg.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		logg.Warn("maxprocs", "err", err)
	}

	profiler, err := startProfiler(cfg)
	if err != nil {
		logg.Warn("profiler disabled", "err", err)
	}

	d := newDeps(cfg)
	if cfg.DevHubSeedNotes > 0 {
		n, err := d.notesSvc.Seed(ctx, gofakeit.New(0), cfg.DevHubSeedNotes)
		if err != nil {
			logg.Error("seed notes", "err", err, "created", n)
			os.Exit(1)
		}
		logg.Info("seeded notes", "count", n)
	}

	issuer, err := auth.NewIssuer(cfg.DevHubJWTSecret, auth.DefaultTTL, logg)
	if err != nil {
		logg.Error("token issuer", "err", err)
		os.Exit(1)
	}
	token, err := issuer.Issue(devSubject)
	if err != nil {
		logg.Error("issue dev token", "err", err)
		os.Exit(1)
	}

	app, err := setupRouter(cfg, d)
	if err != nil {
		logg.Error("router setup", "err", err)
		os.Exit(1)
	}

	baseURL := fmt.Sprintf("http://localhost:%d%s", cfg.DevHubPort, APIPrefix)
	logg.Info("starting devhub", "port", cfg.DevHubPort, "base_url", baseURL)
	fmt.Fprintf(os.Stdout, "NOTEHUB_BASE_URL=%s\nNOTEHUB_TOKEN=%s\n", baseURL, token)

	portStr := fmt.Sprintf(":%d", cfg.DevHubPort)

	g.Go(func() error {
		err := app.Listen(portStr)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()

		// ends open change streams so Shutdown does not wait on them
		d.notesSvc.Close()
		if err := app.ShutdownWithTimeout(25 * time.Second); err != nil {
			return err
		}
		if profiler != nil {
			return profiler.Stop()
		}
		return nil
	})

	// Wait and exit
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error("fatal", "err", err)
		os.Exit(1)
	}
	logg.Info("graceful shutdown complete")
}

// startProfiler pushes continuous profiles when PYROSCOPE_SERVER_ADDRESS is set.
func startProfiler(cfg config.Config) (*pyroscope.Profiler, error) {
	if cfg.PyroscopeAddress == "" {
		return nil, nil
	}
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: "notehub.devhub",
		ServerAddress:   cfg.PyroscopeAddress,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
}
