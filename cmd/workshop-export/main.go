// Command workshop-export builds a month report from the local database and
// asks the central server to render it as an xlsx workbook.
//
// Rows come from the local store, not the server, so an export reflects
// everything saved on this machine even if some of it has not synced yet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	workshop "github.com/sammoha1198-bit/alsami-workshop-hosting"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/cmd/internal/cli"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/httpapi"
	"github.com/sammoha1198-bit/alsami-workshop-hosting/sqlite"
)

const exitUsage = 2

func main() {
	var (
		configPath string
		dbPath     string
		apiURL     string
		category   string
		month      string
		outPath    string
		sheet      string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.StringVar(&dbPath, "db", "", "Local database file (overrides config)")
	flag.StringVar(&apiURL, "api", "", "Server base URL (overrides config)")
	flag.StringVar(&category, "category", "", "Report category (e.g. engines_all)")
	flag.StringVar(&month, "month", "", "Report month as YYYY-MM (default: current month)")
	flag.StringVar(&outPath, "out", "", "Output file (default: server-chosen filename)")
	flag.StringVar(&sheet, "sheet", "", "Worksheet name (default: category)")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if category == "" {
		fmt.Fprintln(os.Stderr, "category is required")
		flag.Usage()
		os.Exit(exitUsage)
	}

	if err := run(configPath, dbPath, apiURL, category, month, outPath, sheet, verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, dbPath, apiURL, category, month, outPath, sheet string, verbose bool) error {
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

	from, to, label, err := monthWindow(month)
	if err != nil {
		return err
	}

	cat := workshop.Category(category)
	headers, err := workshop.ExportHeaders(cat)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	views, err := workshop.NewAggregator(db).ExportRange(ctx, cat, from, to)
	if err != nil {
		return err
	}
	logger.Info("report built", "category", category, "month", label, "rows", len(views))

	cols, err := cat.Collections()
	if err != nil {
		return err
	}
	keyField := workshop.KeyField(cols[0])

	rows := make([]map[string]string, len(views))
	for i, view := range views {
		row := make(map[string]string, len(headers))
		for _, h := range headers {
			row[h] = view.Fields[h]
		}
		row[keyField] = view.Key
		rows[i] = row
	}

	client, err := httpapi.New(cfg.APIBaseURL, httpapi.WithLogger(logger))
	if err != nil {
		return err
	}

	if sheet == "" {
		sheet = category
	}
	name, data, err := client.ExportXLSX(ctx, httpapi.ExportRequest{
		Headers:  headers,
		Rows:     rows,
		Filename: fmt.Sprintf("%s-%s.xlsx", category, label),
		Sheet:    sheet,
		RTL:      true,
	})
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = name
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Println(outPath)

	return nil
}

// monthWindow converts a YYYY-MM month into the half-open millisecond window
// covering it. An empty month means the current month.
func monthWindow(month string) (from, to int64, label string, err error) {
	var start time.Time
	if month == "" {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		start, err = time.Parse("2006-01", month)
		if err != nil {
			return 0, 0, "", fmt.Errorf("bad month %q, want YYYY-MM: %w", month, err)
		}
	}
	end := start.AddDate(0, 1, 0)

	return workshop.Millis(start), workshop.Millis(end), start.Format("2006-01"), nil
}
