// Command econsim runs the closed-economy demo: producers, a factory,
// markets, and customers trading for a configurable number of days.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/econ-engine/internal/journal"
	"github.com/talgya/econ-engine/internal/sim"
)

func main() {
	days := flag.Int("days", 30, "sim-days to run")
	seed := flag.Int64("seed", 42, "price drift seed")
	dbPath := flag.String("db", ":memory:", "journal database (:memory: keeps it off disk)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	db, err := journal.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open journal", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("journal opened", "db", *dbPath)

	scenario, err := sim.BuildDefault(*seed)
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}
	scenario.Journal = db

	opening := scenario.TotalBalance()
	slog.Info("economy opened", "total_balance", humanize.CommafWithDigits(opening, 2))

	for i := 0; i < *days; i++ {
		scenario.Step()
	}

	trades, err := db.Trades()
	if err != nil {
		slog.Error("failed to read journal", "error", err)
		os.Exit(1)
	}
	volume, err := db.TotalVolume()
	if err != nil {
		slog.Error("failed to sum journal", "error", err)
		os.Exit(1)
	}

	slog.Info("economy closed",
		"days", *days,
		"trades", humanize.Comma(int64(len(trades))),
		"volume", humanize.CommafWithDigits(volume, 2),
		"total_balance", humanize.CommafWithDigits(scenario.TotalBalance(), 2),
	)
	for _, m := range scenario.Markets.List() {
		slog.Info("market", "state", m.String())
		for _, line := range m.InventoryView() {
			slog.Info("  stocked", "line", line)
		}
	}
	for _, c := range scenario.Customers.List() {
		slog.Info("customer", "state", c.String())
	}
}
