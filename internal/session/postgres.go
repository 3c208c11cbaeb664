// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdiddy/utmconv/pkg/types"
)

// Postgres is a Store shared through a Postgres database, for several
// servers serving one session.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to dsn and ensures the records table exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres session backend requires a DSN")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verifying postgres connection: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return p, nil
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS utm_session_records (
		seq BIGSERIAL PRIMARY KEY,
		easting DOUBLE PRECISION NOT NULL,
		northing DOUBLE PRECISION NOT NULL,
		zone INTEGER NOT NULL,
		northern BOOLEAN NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	)`)
	return err
}

func (p *Postgres) Append(ctx context.Context, rec types.ConversionRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO utm_session_records (easting, northing, zone, northern, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.Input.Easting, rec.Input.Northing, rec.Input.Zone, rec.Input.Northern,
		rec.Output.Latitude, rec.Output.Longitude,
	)
	if err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}

func (p *Postgres) Records(ctx context.Context) ([]types.ConversionRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT easting, northing, zone, northern, latitude, longitude
		 FROM utm_session_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.ConversionRecord, error) {
		var rec types.ConversionRecord
		err := row.Scan(
			&rec.Input.Easting, &rec.Input.Northing, &rec.Input.Zone, &rec.Input.Northern,
			&rec.Output.Latitude, &rec.Output.Longitude,
		)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning records: %w", err)
	}
	return records, nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM utm_session_records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
