// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the utmconv CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/secrets"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the utmconv CLI.
var rootCmd = &cobra.Command{
	Use:   "utmconv",
	Short: "Convert UTM coordinates to latitude/longitude",
	Long: `utmconv converts Universal Transverse Mercator coordinates (easting,
northing, zone) into geographic latitude and longitude.

Convert single points or whole CSV files. Every successful conversion is
added to the current session, which can be exported as CSV, YAML, or JSON
and cleared when done. The serve subcommand offers the same operations
over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := s.Keys()
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./utmconv.yaml or ~/.config/utmconv/config.yaml)")
	pf.Int("zone", types.DefaultZone, "UTM zone number (1-60)")
	pf.Bool("south", false, "coordinates are in the southern hemisphere")
	pf.String("ellipsoid", "utm", "reference ellipsoid: utm, wgs84, or grs80")
	pf.Int("precision", export.DefaultPrecision, "decimals shown for latitude/longitude")
	pf.String("session", string(types.SessionSQLite), "session backend: sqlite, memory, or postgres")
	pf.String("session-dir", session.DefaultDir, "directory holding the sqlite session database")
	pf.String("session-dsn", "", "postgres connection string for the postgres session backend")

	bindFlags(rootCmd.PersistentFlags(), rootFlagKeys)
}

// rootFlagKeys maps viper keys to the persistent flags that set them.
var rootFlagKeys = map[string]string{
	"converter.zone":      "zone",
	"converter.southern":  "south",
	"converter.ellipsoid": "ellipsoid",
	"converter.precision": "precision",
	"session.backend":     "session",
	"session.dir":         "session-dir",
	"session.dsn":         "session-dsn",
}

func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, flag := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("utmconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "utmconv"))
		}
	}

	viper.SetEnvPrefix("UTMCONV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
