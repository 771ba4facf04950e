// Package main provides the cleaner command-line tool for cleaning raw sales CSV exports.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"salesclean/internal/config"
	"salesclean/internal/formatter"
	"salesclean/internal/logger"
	"salesclean/internal/normalizer"
	"salesclean/internal/pipeline"
	"salesclean/internal/summary"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cleaner", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configFile := flags.String("config", "", "Path to YAML configuration file (default: "+config.DefaultConfigPath+" if present)")
	inputPath := flags.String("input", "", "Path to the raw sales CSV")
	outputPath := flags.String("output", "", "Path to write the cleaned CSV")
	required := flags.String("required", "", "Comma-separated required numeric columns (e.g. price,quantity)")
	previewRows := flags.Int("preview", -1, "Number of cleaned rows to print")
	describe := flags.Bool("describe", false, "Print summary statistics of the required columns")
	noManifest := flags.Bool("no-manifest", false, "Skip writing the signed metadata sidecar")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn, error")

	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: cleaner [flags]")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	c := &cfg.Cleaner
	if *inputPath != "" {
		c.Input.Path = *inputPath
	}

	if *outputPath != "" {
		c.Output.Path = *outputPath
	}

	if *required != "" {
		c.Validation.RequiredColumns = strings.Split(*required, ",")
	}

	if *previewRows >= 0 {
		c.Preview.Rows = *previewRows
	}

	if *describe {
		c.Preview.Describe = true
	}

	if *noManifest {
		c.Output.Manifest = false
	}

	if *logLevel != "" {
		c.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return exitUsage
	}

	log := logger.New(logger.Options{
		Level:  c.Logging.Level,
		Output: stderr,
		SeqURL: c.Logging.SeqURL,
	})
	defer log.Close()

	result, err := pipeline.Run(ctx, cfg, log)
	if err != nil {
		log.Error("run failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitFailed
	}

	fmt.Fprintln(stdout, "Cleaning complete. First few rows:")

	if err := formatter.RenderTable(stdout, result.Cleaned, c.Preview.Rows, 0); err != nil {
		log.Error("preview failed", "error", err)
		return exitFailed
	}

	if c.Preview.Describe {
		stats, err := summary.Describe(result.Cleaned, normalizer.NewValidator(c.Validation.RequiredColumns).Required())
		if err != nil {
			log.Error("describe failed", "error", err)
			return exitFailed
		}

		header, rows := summary.Table(stats)

		fmt.Fprintln(stdout)
		for _, line := range formatter.FormatTable(header, rows) {
			fmt.Fprintln(stdout, line)
		}
	}

	return exitOK
}

// loadConfig reads path, or the default config file when path is empty and
// that file exists, or falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}

		path = config.DefaultConfigPath
	}

	return config.LoadConfig(path)
}
