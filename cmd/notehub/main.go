// Command notehub is the terminal client for the NoteHub notes API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"notehub/internal/clients/notehub"
	"notehub/internal/config"
	"notehub/internal/logger"
	"notehub/internal/services/form"
	"notehub/internal/services/notes"
	"notehub/internal/services/search"
	"notehub/internal/ui"
	util "notehub/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"
)

// defaultLogFile keeps logs off the terminal the UI draws on.
const defaultLogFile = "notehub.log"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create bootstrap logger for early errors
	bootstrapLog := log.New(os.Stderr, "bootstrap: ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		bootstrapLog.Printf("config load failed: %v", err)
		os.Exit(1)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
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

	if err := run(ctx, stop, cfg, logg); err != nil {
		logg.Error("fatal", "err", err)
		bootstrapLog.Printf("notehub: %v", err)
		os.Exit(1)
	}
	logg.Info("bye")
}

func run(ctx context.Context, stop context.CancelFunc, cfg config.Config, logg *slog.Logger) error {
	if cfg.NoteHubToken == "" {
		logg.Warn("NOTEHUB_TOKEN is not set, every request will fail")
	}

	reg := prometheus.NewRegistry()
	client := notehub.NewFromConfig(cfg, notehub.WithLogger(logg), notehub.WithRegisterer(reg))

	coord := notes.NewCoordinator(client, logg,
		notes.WithFreshFor(cfg.CacheFreshFor()),
		notes.WithMaxEntries(cfg.CacheMaxItems),
		notes.WithRegisterer(reg),
	)
	defer coord.Close()

	feed := ui.NewCommitFeed()
	ctrl := search.New(cfg.SearchDebounceInterval(), feed.Publish, search.WithLogger(logg))
	defer ctrl.Close()

	v, err := util.NewValidator()
	if err != nil {
		return fmt.Errorf("validator: %w", err)
	}

	model := ui.New(ctx, ui.Deps{
		Notes:   coord,
		Search:  ctrl,
		Commits: feed,
		Deleter: client,
		NewForm: func(opts ...form.Option) (*form.Form, error) {
			opts = append([]form.Option{form.WithValidator(v), form.WithLogger(logg)}, opts...)
			return form.New(client, coord, opts...)
		},
		PerPage: cfg.NotesPerPage,
		Log:     logg,
	})

	g, ctx := errgroup.WithContext(ctx)

	if cfg.LiveUpdates {
		g.Go(func() error {
			return followChanges(ctx, client, coord, liveRetryDelay, logg)
		})
	}

	g.Go(func() error {
		// quitting the UI ends the whole process
		defer stop()
		return ui.Run(ctx, model)
	})

	// Teardown
	g.Go(func() error {
		<-ctx.Done()
		ctrl.Close()
		coord.Close()
		return nil
	})

	err = g.Wait()
	logStats(logg, coord, reg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logStats writes the session's counters to the log on exit.
func logStats(logg *slog.Logger, coord *notes.Coordinator, reg *prometheus.Registry) {
	subs, dropped := coord.HubStats()
	logg.Info("hub stats", "subscribers", subs, "dropped_events", dropped)

	families, err := reg.Gather()
	if err != nil {
		logg.Warn("gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		logg.Info("metric", "name", mf.GetName(), "total", total)
	}
}
