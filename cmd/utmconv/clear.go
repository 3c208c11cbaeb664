// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all conversions from the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session cleared (%d record(s) removed)\n", len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
