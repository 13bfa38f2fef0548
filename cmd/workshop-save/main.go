// Command workshop-save records one form submission into the local database
// and, when the server answers a ping, flushes the sync queue right away.
//
// Usage:
//
//	workshop-save -collection eng_supply serial=E-100 engineType=diesel notes="first fill"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/cmd/internal/cli"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/httpapi"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/sqlite"
)

const (
	exitUsage    = 2
	probeTimeout = 3 * time.Second
)

func main() {
	var (
		configPath string
		dbPath     string
		apiURL     string
		collection string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&dbPath, "db", "", "Local database file (overrides config)")
	flag.StringVar(&apiURL, "api", "", "Server base URL (overrides config)")
	flag.StringVar(&collection, "collection", "", "Collection to save into")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if collection == "" {
		fmt.Fprintln(os.Stderr, "collection is required")
		flag.Usage()
		os.Exit(exitUsage)
	}
	fields, err := parseFields(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(exitUsage)
	}

	if err := run(configPath, dbPath, apiURL, collection, fields, verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, apiURL, collection string, fields map[string]string, verbose bool) error {
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
	ctx := context.Background()

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := httpapi.New(cfg.APIBaseURL, httpapi.WithLogger(logger))
	if err != nil {
		return err
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	_, pingErr := client.Ping(probeCtx)
	cancel()
	online := pingErr == nil
	if !online {
		logger.Debug("server unreachable, saving offline", "error", pingErr)
	}

	engine := workshop.NewEngine(db, client, workshop.StaticNetwork(online),
		workshop.WithBatchLimit(cfg.BatchLimit),
		workshop.WithEngineLogger(logger),
	)
	writer := workshop.NewWriter(db, db, workshop.StaticNetwork(online),
		workshop.WithWriterLogger(logger),
		workshop.WithSyncTrigger(engine),
	)

	result, err := writer.Save(ctx, collection, fields)
	if err != nil {
		return err
	}

	if online {
		if _, err := engine.Drain(ctx); err != nil {
			logger.Warn("sync failed, record queued", "error", err)
			result.Status = workshop.StatusPending
		}
	}

	fmt.Printf("%s\t%s\n", result.Record.ID, result.Status)

	return nil
}

func parseFields(args []string) (map[string]string, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one field=value argument is required")
	}

	fields := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad field argument %q, want name=value", arg)
		}
		fields[name] = value
	}

	return fields, nil
}
