// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/utmconv/internal/bulk"
	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/reader"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <file.csv>",
	Short: "Convert every easting,northing line of a CSV file",
	Long: `Bulk reads a CSV file of "easting,northing" lines ("-" reads stdin) and
prints one result per line: the converted "latitude, longitude", or
"Invalid UTM data" / "Invalid line format" for lines that cannot be
converted. Converted lines are added to the session.`,
	Args: cobra.ExactArgs(1),
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().Bool("strict", false, "exit with an error when any line is invalid")
	bulkCmd.Flags().String("output", "", "also export the session to this path after converting (- for stdout)")
	bulkCmd.Flags().String("format", "csv", "format for --output: csv, yaml, or json")

	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	lines, err := readBulkInput(cmd, args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig()
	conv, err := newConverter(cfg.Converter)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := bulk.Options{
		Zone:      cfg.Converter.Zone,
		Northern:  !cfg.Converter.Southern,
		Precision: cfg.Converter.Precision,
	}
	result, err := bulk.Run(ctx, conv, lines, opts, store, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\nBulk summary: %d converted, %d invalid, %d malformed (total: %d)\n",
		result.Converted, result.Invalid, result.Malformed, result.Total())

	if output != "" {
		records, err := store.Records(ctx)
		if err != nil {
			return err
		}
		if err := writeExport(cmd, format, output, records, cfg.Converter.Precision); err != nil {
			return err
		}
	}

	strict, _ := cmd.Flags().GetBool("strict")
	if strict && result.HasFailures() {
		return fmt.Errorf("%d line(s) could not be converted", result.Invalid+result.Malformed)
	}
	return nil
}

func readBulkInput(cmd *cobra.Command, path string) ([]reader.Line, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	return reader.ReadCSV(r)
}
