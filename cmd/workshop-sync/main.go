// Command workshop-sync delivers the pending sync queue to the central
// server. With -once it drains the queue and exits; otherwise it keeps
// running, probing connectivity and syncing on reconnect, after every local
// save notification, and on a poll interval.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/cmd/internal/cli"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/httpapi"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/sqlite"
)

const probeTimeout = 3 * time.Second

func main() {
	var (
		configPath string
		dbPath     string
		apiURL     string
		once       bool
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&dbPath, "db", "", "Local database file (overrides config)")
	flag.StringVar(&apiURL, "api", "", "Server base URL (overrides config)")
	flag.BoolVar(&once, "once", false, "Drain the queue once and exit")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if err := run(configPath, dbPath, apiURL, once, verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, apiURL string, once, verbose bool) error {
	cfg, err := cli.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}

	logger := cli.NewLogger(verbose)

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := httpapi.New(cfg.APIBaseURL, httpapi.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pending, err := db.PendingCount(ctx)
	if err != nil {
		return err
	}
	logger.Info("sync queue", "pending", pending)

	if verbose {
		counts, err := db.Counts(ctx)
		if err != nil {
			return err
		}
		for collection, n := range counts {
			logger.Debug("local records", "collection", collection, "count", n)
		}
	}

	if once {
		return drainOnce(ctx, db, client, cfg, logger)
	}

	monitor := httpapi.NewMonitor(client,
		httpapi.WithProbeInterval(cfg.ProbeInterval.Std()),
		httpapi.WithProbeTimeout(probeTimeout),
		httpapi.WithMonitorLogger(logger),
	)
	engine := workshop.NewEngine(db, client, monitor,
		workshop.WithBatchLimit(cfg.BatchLimit),
		workshop.WithEngineLogger(logger),
		workshop.WithTransitions(monitor.Transitions()),
		workshop.WithPollInterval(cfg.PollInterval.Std()),
	)

	errc := make(chan error, 2)
	go func() { errc <- monitor.Run(ctx) }()
	go func() { errc <- engine.Run(ctx) }()

	err = <-errc
	stop()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func drainOnce(ctx context.Context, db *sqlite.DB, client *httpapi.Client, cfg cli.Config, logger *slog.Logger) error {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	_, pingErr := client.Ping(probeCtx)
	cancel()
	if pingErr != nil {
		return fmt.Errorf("server unreachable: %w", pingErr)
	}

	engine := workshop.NewEngine(db, client, workshop.StaticNetwork(true),
		workshop.WithBatchLimit(cfg.BatchLimit),
		workshop.WithEngineLogger(logger),
	)
	n, err := engine.Drain(ctx)
	if err != nil {
		return err
	}
	logger.Info("drain complete", "delivered", n)

	return nil
}
