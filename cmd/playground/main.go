// Package main runs the JavaScript lesson playground in the terminal.
//
// Without arguments it opens the interactive page. -run executes one lesson
// headlessly and prints its output; -search lists matching lessons.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonwraymond/playground/catalog"
	"github.com/jonwraymond/playground/config"
	"github.com/jonwraymond/playground/logging"
	"github.com/jonwraymond/playground/page"
	"github.com/jonwraymond/playground/scaffold"
	"github.com/jonwraymond/playground/tui"
)

type flags struct {
	configPath string
	dataDir    string
	storage    string
	timeout    time.Duration
	logLevel   string
	run        string
	search     string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "playground.yaml", "Path to the configuration file")
	flag.StringVar(&f.dataDir, "data-dir", "", "Directory for local storage and logs (overrides config)")
	flag.StringVar(&f.storage, "storage", "", "Local storage backend: sqlite or memory (overrides config)")
	flag.DurationVar(&f.timeout, "timeout", 0, "Evaluation timeout (overrides config)")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flag.StringVar(&f.run, "run", "", "Run the lesson with this key, print its output and exit")
	flag.StringVar(&f.search, "search", "", "List lessons matching the query and exit")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	cfg, err := loadConfig(f)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	session, err := logging.Open(cfg.LogDir, logging.ParseLevel(f.logLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging to stderr\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, f, session.Logger())
	stop()
	if err != nil {
		session.Logger().Error("playground failed", "error", err)
	}
	_ = session.Close()
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
		cfg.LogDir = ""
	}
	if f.storage != "" {
		cfg.Storage = f.storage
	}
	if f.timeout != 0 {
		cfg.Timeout = f.timeout
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, f flags, logger *slog.Logger) error {
	reg, err := loadRegistry(cfg.Lessons)
	if err != nil {
		return err
	}
	cat, err := catalog.New(reg)
	if err != nil {
		return err
	}
	if f.search != "" {
		return printSearch(os.Stdout, cat, f.search)
	}

	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	markup, err := loadMarkup(cfg.Page)
	if err != nil {
		return err
	}

	pageLogger := logger.With("component", "page")
	p, err := page.New(page.Options{
		Markup:      markup,
		Registry:    reg,
		Storage:     store,
		Console:     logging.Console(logger.With("component", "console")),
		Logger:      logging.Code(pageLogger),
		SLogger:     pageLogger,
		Timeout:     cfg.Timeout,
		Viewport:    scaffold.Size{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		FixtureSize: scaffold.Size{Width: cfg.Fixture.Width, Height: cfg.Fixture.Height},
	})
	if err != nil {
		return err
	}
	defer p.Close()

	logger.Info("page loaded", "lessons", len(p.Widgets()), "storage", cfg.Storage)

	if f.run != "" {
		return runHeadless(ctx, os.Stdout, p, f.run)
	}
	return tui.Run(ctx, tui.Options{Page: p, Catalog: cat})
}
