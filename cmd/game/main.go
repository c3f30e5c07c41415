package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/tatianab/city-survival/internal/config"
	"github.com/tatianab/city-survival/internal/content"
	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
	"github.com/tatianab/city-survival/internal/narrator"
	"github.com/tatianab/city-survival/internal/report"
	"github.com/tatianab/city-survival/internal/store"
	"github.com/tatianab/city-survival/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fs := flag.NewFlagSet("game", flag.ExitOnError)
	resume := fs.String("resume", "", "resume a saved run by id, or \"latest\"")
	list := fs.Bool("list", false, "list saved runs and exit")
	cfg, err := config.ParseConfig(fs, os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	models.SaveDir = cfg.SaveDir

	if *list {
		ids, err := models.ListRuns()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	}

	// The terminal belongs to the TUI, so logs go to a file.
	if err := os.MkdirAll(cfg.SaveDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.SaveDir, "game.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	table, err := content.Load()
	if err != nil {
		return fmt.Errorf("load story: %w", err)
	}

	st, err := store.Open(store.Backend(cfg.Store), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open profile: %w", err)
	}
	defer st.Close()

	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.Seed != 0 {
		opts = append(opts, engine.WithRand(engine.NewRand(cfg.Seed)))
	}
	ctl := engine.NewController(ctx, table, store.NewProfile(st), opts...)

	if *resume != "" {
		state, err := loadRun(*resume)
		if err != nil {
			return err
		}
		ctl.Resume(ctx, state)
		logger.Info("run resumed", "run", state.ID, "phase", state.Phase())
	}

	printer, err := report.New(cfg.Locale)
	if err != nil {
		logger.Warn("bad locale, using default", "locale", cfg.Locale, "error", err)
		printer = report.Must(report.DefaultLocale)
	}

	n, closeNarrator, err := narrator.New(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		logger.Warn("narrator unavailable, using fixed verdicts", "error", err)
		n, closeNarrator = narrator.Static{}, func() {}
	}
	defer closeNarrator()

	return tui.Run(ctx, tui.Options{
		Controller:    ctl,
		Printer:       printer,
		Narrator:      n,
		Logger:        logger,
		SaveSnapshots: true,
	})
}

func loadRun(id string) (*models.RunState, error) {
	if id == "latest" {
		ids, err := models.ListRuns()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no saved runs in %s", models.SaveDir)
		}
		id = ids[0]
	}
	state, err := models.LoadRun(id)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", id, err)
	}
	return state, nil
}
