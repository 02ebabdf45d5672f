// Command fetch runs the pipeline once against a live sheet and prints
// the result as JSON: the full enriched table by default, or a dashboard
// view when -date or -dam narrows it. Handy for eyeballing what the
// service would serve without standing it up.
//
// Usage:
//
//	go run ./cmd/fetch -sheet "https://docs.google.com/spreadsheets/d/<ID>/edit" -dam Khari
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/reservoirwatch/dam-levels/internal/adapter/sheets"
	"github.com/reservoirwatch/dam-levels/internal/domain"
	"github.com/reservoirwatch/dam-levels/internal/observability"
	"github.com/reservoirwatch/dam-levels/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	sheet := flag.String("sheet", os.Getenv("DAMLEVELS_SHEET_URL"), "sheet share link or CSV export URL")
	date := flag.String("date", "", "select one day (YYYY-MM-DD, default latest)")
	dam := flag.String("dam", "", "select one dam (default all)")
	timeout := flag.Duration("timeout", 15*time.Second, "fetch timeout")
	flag.Parse()

	if *sheet == "" {
		flag.Usage()
		return fmt.Errorf("missing -sheet (or DAMLEVELS_SHEET_URL)")
	}

	endpoint := sheets.ResolveCSVURL(*sheet)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	client := sheets.NewClient(*timeout, logger, metrics)
	p := pipeline.New(client, clockwork.NewRealClock(), logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snapshot, err := p.BuildSnapshot(ctx, endpoint)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *date == "" && *dam == "" {
		return enc.Encode(snapshot)
	}

	var selected time.Time
	if *date != "" {
		selected, err = time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("invalid -date %q, want YYYY-MM-DD", *date)
		}
	}
	return enc.Encode(domain.BuildView(snapshot.Readings, selected, *dam))
}
