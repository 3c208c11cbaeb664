package types

import "time"

// ConverterConfig holds the projection settings shared by every surface.
type ConverterConfig struct {
	// Zone is the UTM zone applied to inputs that do not carry one (default 40).
	Zone int `json:"zone" yaml:"zone"`

	// Southern applies the 10000000 m false northing correction.
	Southern bool `json:"southern" yaml:"southern"`

	// Ellipsoid names the reference ellipsoid: utm, wgs84, or grs80.
	Ellipsoid string `json:"ellipsoid" yaml:"ellipsoid"`

	// Precision is the number of decimals used for displayed and exported
	// latitude/longitude values (default 6).
	Precision int `json:"precision" yaml:"precision"`
}

// SessionBackend identifies where the session's conversion records live.
type SessionBackend string

const (
	SessionMemory   SessionBackend = "memory"
	SessionSQLite   SessionBackend = "sqlite"
	SessionPostgres SessionBackend = "postgres"
)

// SessionConfig holds settings for the session store.
type SessionConfig struct {
	// Backend selects the store: memory, sqlite, or postgres.
	Backend SessionBackend `json:"backend" yaml:"backend"`

	// Dir is the directory holding session.db for the sqlite backend.
	Dir string `json:"dir" yaml:"dir"`

	// DSN is the connection string for the postgres backend.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// ExportFormat selects the serialization used when exporting records.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatYAML ExportFormat = "yaml"
	FormatJSON ExportFormat = "json"
)

// ExportConfig holds settings for the export stage.
type ExportConfig struct {
	// Format is csv, yaml, or json.
	Format ExportFormat `json:"format" yaml:"format"`

	// Output is the destination path. "-" writes to stdout.
	Output string `json:"output" yaml:"output"`

	// Bucket, when set, uploads the export to S3-compatible storage.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout bounds reading a request, body included.
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds writing a response.
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// MaxUploadBytes caps bulk upload bodies (default 10 MiB).
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Config groups all settings for utmconv.
type Config struct {
	Converter ConverterConfig `json:"converter" yaml:"converter"`
	Session   SessionConfig   `json:"session" yaml:"session"`
	Export    ExportConfig    `json:"export" yaml:"export"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
