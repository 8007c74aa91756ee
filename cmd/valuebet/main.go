package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/valuebet/config"
	"github.com/alejandrodnm/valuebet/internal/adapters/betfair"
	"github.com/alejandrodnm/valuebet/internal/adapters/console"
	"github.com/alejandrodnm/valuebet/internal/adapters/storage"
	"github.com/alejandrodnm/valuebet/internal/evaluator"
	"github.com/alejandrodnm/valuebet/internal/parser"
	"github.com/alejandrodnm/valuebet/internal/selector"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	plain := flag.Bool("plain", false, "plain line output instead of tables")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("valuebet starting", "config", *configPath, "dsn", cfg.Storage.DSN)

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	exchange := betfair.NewClient(cfg.API.IdentityBase, cfg.API.BettingBase, betfair.Credentials{
		AppKey:   cfg.Credentials.AppKey,
		Username: cfg.Credentials.Username,
		Password: cfg.Credentials.Password,
	})

	prompter := console.NewPrompter(os.Stdin, os.Stdout)
	printer := console.NewPrinter(os.Stdout, !*plain)

	p := parser.New(parser.Config{
		FuzzyThreshold: cfg.Parser.FuzzyThreshold,
		FillerWords:    cfg.Parser.FillerWords,
		SportKeywords:  cfg.Parser.SportKeywords,
		DefaultMarket:  cfg.Parser.DefaultMarket,
	}, prompter, store)

	ev := evaluator.New(exchange, selector.NewMapper(cfg.Markets.NameToTypes), cfg.Sports)

	l := &loop{
		parser:    p,
		evaluator: ev,
		dir:       store,
		betLog:    store,
		prompter:  prompter,
		printer:   printer,
		out:       os.Stdout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := l.run(ctx); err != nil {
		slog.Error("console loop exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("valuebet stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
