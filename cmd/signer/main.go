// Package main provides the signer command-line tool for validating cleaned
// sales CSV files and signing them with a metadata sidecar.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"salesclean/internal/config"
	"salesclean/internal/csvio"
	"salesclean/internal/validator"
	"salesclean/pkg/metadata"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(_ context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("signer", flag.ContinueOnError)
	flags.SetOutput(stderr)

	inputPath := flags.String("input", "", "Path to cleaned CSV file (e.g., data/processed/sales_data_clean.csv)")
	configFile := flags.String("config", "", "Path to YAML configuration file")
	required := flags.String("required", "", "Comma-separated required numeric columns")
	verify := flags.Bool("verify", false, "Only verify the file against its existing signature")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if *inputPath == "" {
		fmt.Fprintln(stderr, "Usage: signer -input <path> [-verify]")
		flags.PrintDefaults()

		return exitUsage
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: could not load config: %v. Using default validation.\n", err)
		cfg = config.Default()
	}

	if *required != "" {
		cfg.Cleaner.Validation.RequiredColumns = strings.Split(*required, ",")
	}

	v, err := validator.NewDatasetValidator(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating validator: %v\n", err)
		return exitUsage
	}

	if *verify {
		result := v.ValidateIntegrity(*inputPath)
		if !result.IsValid {
			result.PrintErrors(stderr)
			return exitFailed
		}

		fmt.Fprintf(stdout, "Signature OK: %s\n", *inputPath)

		return exitOK
	}

	delim, err := config.ParseDelimiter(cfg.Cleaner.Output.Delimiter)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid delimiter: %v\n", err)
		return exitUsage
	}

	ds, err := csvio.Load(*inputPath, csvio.ReadOptions{Delimiter: delim})
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %v\n", err)
		return exitFailed
	}

	fmt.Fprintf(stdout, "Reading: %s (%d rows, %d columns)\n", *inputPath, ds.Len(), len(ds.Columns))

	result := v.ValidateDataset(ds)
	fmt.Fprintln(stdout, result.String())
	result.PrintWarnings(stdout)

	if !result.IsValid {
		result.PrintErrors(stderr)
		fmt.Fprintln(stderr, "Skipping signature due to validation failure.")

		return exitFailed
	}

	base := &metadata.Metadata{RowsIn: ds.Len(), RowsOut: ds.Len(), Columns: ds.Names()}

	// Keep run information from an earlier signature.
	if prev, err := metadata.Read(*inputPath); err == nil {
		base.RunID = prev.RunID
		base.Source = prev.Source
		base.RowsIn = prev.RowsIn
	}

	meta, err := metadata.Sign(*inputPath, true, base)
	if err != nil {
		fmt.Fprintf(stderr, "Error signing file: %v\n", err)
		return exitFailed
	}

	fmt.Fprintf(stdout, "Signed %s (hash %s)\n", metadata.SidecarPath(*inputPath), meta.Hash)

	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}

		path = config.DefaultConfigPath
	}

	return config.LoadConfig(path)
}
