// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/reader"
	"github.com/pdiddy/utmconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <easting northing>",
	Short: "Convert a single UTM point to latitude/longitude",
	Long: `Convert reads one easting/northing pair, converts it in the configured
zone and hemisphere, prints "latitude, longitude", and adds the result to
the session.

A negative value given as its own argument reads as a flag. Quote the pair
as one argument or put -- before the values.`,
	Example: `  utmconv convert "330000 2790000"
  utmconv convert --zone 56 --south 333000 6250000
  utmconv convert "330000 -5"
  utmconv convert -- 330000 -5`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("json", false, "output the conversion record as JSON")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	easting, northing, err := reader.ParseArgs(args)
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

	input := types.UTMCoordinate{
		Easting:  easting,
		Northing: northing,
		Zone:     cfg.Converter.Zone,
		Northern: !cfg.Converter.Southern,
	}
	rec := types.ConversionRecord{Input: input, Output: conv.ConvertCoordinate(input)}
	if !rec.Output.IsFinite() {
		fmt.Fprintf(os.Stderr, "warning: %v produced a non-finite result\n", args)
	}

	var out bytes.Buffer
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(&out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newConvertOutput(rec, cfg.Converter.Precision)); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	} else {
		fmt.Fprintln(&out, export.FormatPair(rec.Output, cfg.Converter.Precision))
	}

	if err := store.Append(ctx, rec); err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out.Bytes())
	return err
}

// convertOutput is the --json form of a conversion. Non-finite latitude or
// longitude is written as null.
type convertOutput struct {
	Input     types.UTMCoordinate `json:"input"`
	Latitude  *float64            `json:"latitude"`
	Longitude *float64            `json:"longitude"`
	Formatted string              `json:"formatted"`
}

func newConvertOutput(rec types.ConversionRecord, precision int) convertOutput {
	return convertOutput{
		Input:     rec.Input,
		Latitude:  export.Finite(rec.Output.Latitude),
		Longitude: export.Finite(rec.Output.Longitude),
		Formatted: export.FormatPair(rec.Output, precision),
	}
}
