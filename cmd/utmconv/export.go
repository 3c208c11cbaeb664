// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"download"},
	Short:   "Write the session's conversions to CSV, YAML, or JSON",
	Long: `Export writes every conversion in the session with the columns
Easting,Northing,Latitude,Longitude. The default output file is
utm_to_lat_lon_output.csv; use --output - for stdout. With --bucket the
export is also uploaded to S3-compatible storage configured through
MINIO_ENDPOINT, MINIO_ACCESS_KEY, and MINIO_SECRET_KEY.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv, yaml, or json")
	exportCmd.Flags().String("output", "", "output path (default utm_to_lat_lon_output.<format>, - for stdout)")
	exportCmd.Flags().String("bucket", "", "upload the export to this bucket")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = export.Filename(format)
	}
	bucket, _ := cmd.Flags().GetString("bucket")

	cfg := loadConfig()
	ctx := context.Background()
	store, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Records(ctx)
	if err != nil {
		return err
	}

	if err := writeExport(cmd, format, output, records, cfg.Converter.Precision); err != nil {
		return err
	}

	if bucket != "" {
		uploader, err := export.NewUploader(storageConfig())
		if err != nil {
			return err
		}
		key, err := uploader.Upload(ctx, bucket, format, records, cfg.Converter.Precision)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Uploaded to %s/%s\n", bucket, key)
	}
	return nil
}

// writeExport writes records to output, or to the command's stdout when
// output is "-".
func writeExport(cmd *cobra.Command, format types.ExportFormat, output string, records []types.ConversionRecord, precision int) error {
	if output == "-" {
		return export.Write(cmd.OutOrStdout(), format, records, precision)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := export.Write(f, format, records, precision); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d record(s) to %s\n", len(records), output)
	return nil
}
