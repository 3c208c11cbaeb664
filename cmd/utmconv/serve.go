// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/utmconv/internal/server"
	"github.com/pdiddy/utmconv/pkg/types"
)

const shutdownTimeout = 10 * time.Second

var serveFlagKeys = map[string]string{
	"server.addr":             "addr",
	"server.read_timeout":     "read-timeout",
	"server.write_timeout":    "write-timeout",
	"server.max_upload_bytes": "max-upload",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversion, bulk upload, and download over HTTP",
	Long: `Serve starts an HTTP API:

  POST   /api/convert   {"input":"330000 2790000"} or {"easting":..,"northing":..}
  POST   /api/bulk      CSV body or multipart field "file"
  GET    /api/download  ?format=csv|yaml|json
  DELETE /api/session   clear the session
  GET    /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Duration("read-timeout", 10*time.Second, "request read timeout")
	serveCmd.Flags().Duration("write-timeout", 30*time.Second, "response write timeout")
	serveCmd.Flags().Int64("max-upload", 10<<20, "maximum bulk upload size in bytes")

	bindFlags(serveCmd.Flags(), serveFlagKeys)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.Server = types.ServerConfig{
		Addr:           viper.GetString("server.addr"),
		ReadTimeout:    viper.GetDuration("server.read_timeout"),
		WriteTimeout:   viper.GetDuration("server.write_timeout"),
		MaxUploadBytes: viper.GetInt64("server.max_upload_bytes"),
	}

	conv, err := newConverter(cfg.Converter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(conv, store, cfg.Converter, cfg.Server.MaxUploadBytes).Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s (zone %d, %s session)\n",
			cfg.Server.Addr, cfg.Converter.Zone, cfg.Session.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "Received termination signal, shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
