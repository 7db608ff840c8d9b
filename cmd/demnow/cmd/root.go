package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"demnow-backend/internal/house/corpus"
	"demnow-backend/internal/ingest"
	"demnow-backend/internal/telemetry"
	"demnow-backend/lib/configutil"
	libtelemetry "demnow-backend/lib/telemetry"

	"github.com/spf13/cobra"
)

type Config struct {
	// the directory the scraped documents and extracted records live under
	DataDir string `json:"data_dir"`
	// the maximum number of concurrent fetches per batch
	Concurrency int    `json:"concurrency"`
	LogLevel    string `json:"log_level"`
}

var config Config

var rootCmd = &cobra.Command{
	Use:   "demnow",
	Short: "demnow scrapes US House legislative data and answers queries over it.",
}

func Execute() {
	ctx := context.Background()

	var err error
	config, err = configutil.FindAndRead[Config]("demnow.json5")
	if errors.Is(err, os.ErrNotExist) {
		config = Config{}
	} else if err != nil {
		fatal("failed to read config", err)
	}
	if config.DataDir == "" {
		config.DataDir = "data"
	}

	switch config.LogLevel {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	}

	tel, err := libtelemetry.SetupFromEnv(ctx, "demnow")
	if err != nil {
		fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func newScraper() *ingest.Scraper {
	s, err := ingest.New(config.DataDir, telemetry.SlogAPI{}, config.Concurrency)
	if err != nil {
		fatal("failed to setup scraper", err)
	}
	return s
}

func loadCorpus() *corpus.Corpus {
	c, err := corpus.Load(config.DataDir)
	if err != nil {
		fatal("failed to load corpus", err)
	}
	return c
}
