// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/utmconv/pkg/types"
)

const (
	// DefaultDir is the session directory used when none is configured.
	DefaultDir = ".utmconv"
	dbFile     = "session.db"
)

// SQLite is a Store persisted in dir/session.db so a session spans several
// command invocations until it is cleared.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the session database under dir.
func NewSQLite(dir string) (*SQLite, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		easting REAL NOT NULL,
		northing REAL NOT NULL,
		zone INTEGER NOT NULL,
		northern INTEGER NOT NULL,
		latitude REAL,
		longitude REAL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

func (s *SQLite) Append(ctx context.Context, rec types.ConversionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (easting, northing, zone, northern, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Input.Easting, rec.Input.Northing, rec.Input.Zone, rec.Input.Northern,
		rec.Output.Latitude, rec.Output.Longitude,
	)
	if err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}

func (s *SQLite) Records(ctx context.Context) ([]types.ConversionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT easting, northing, zone, northern, latitude, longitude
		 FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.ConversionRecord
	for rows.Next() {
		var rec types.ConversionRecord
		var lat, lon sql.NullFloat64
		if err := rows.Scan(
			&rec.Input.Easting, &rec.Input.Northing, &rec.Input.Zone, &rec.Input.Northern,
			&lat, &lon,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rec.Output.Latitude = nullToNaN(lat)
		rec.Output.Longitude = nullToNaN(lon)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLite) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	return nil
}

// SQLite stores NaN as NULL.
func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
