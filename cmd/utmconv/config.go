// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/secrets"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/internal/utm"
	"github.com/pdiddy/utmconv/pkg/types"
)

// loadConfig assembles the effective configuration from flags, environment
// (UTMCONV_*), and the config file, in that order of precedence.
func loadConfig() types.Config {
	cfg := types.Config{
		Converter: types.ConverterConfig{
			Zone:      viper.GetInt("converter.zone"),
			Southern:  viper.GetBool("converter.southern"),
			Ellipsoid: viper.GetString("converter.ellipsoid"),
			Precision: viper.GetInt("converter.precision"),
		},
		Session: types.SessionConfig{
			Backend: types.SessionBackend(viper.GetString("session.backend")),
			Dir:     viper.GetString("session.dir"),
			DSN:     loadedSecrets.Get(secrets.SessionDSN, viper.GetString("session.dsn")),
		},
	}
	if cfg.Converter.Precision < 0 {
		cfg.Converter.Precision = export.DefaultPrecision
	}
	return cfg
}

// newConverter validates the zone and builds a converter on the configured
// ellipsoid.
func newConverter(cfg types.ConverterConfig) (*utm.Converter, error) {
	if err := utm.ValidateZone(cfg.Zone); err != nil {
		return nil, err
	}
	e, err := utm.EllipsoidByName(cfg.Ellipsoid)
	if err != nil {
		return nil, err
	}
	return utm.New(e), nil
}

func openSession(ctx context.Context, cfg types.Config) (session.Store, error) {
	return session.Open(ctx, cfg.Session)
}

// storageConfig merges MINIO_* environment settings with .secrets/ files.
func storageConfig() export.StorageConfig {
	cfg := export.StorageConfigFromEnv()
	cfg.Endpoint = loadedSecrets.Get(secrets.MinioEndpoint, cfg.Endpoint)
	cfg.AccessKey = loadedSecrets.Get(secrets.MinioAccessKey, cfg.AccessKey)
	cfg.SecretKey = loadedSecrets.Get(secrets.MinioSecretKey, cfg.SecretKey)
	return cfg
}
