// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes conversion records for display and download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/utmconv/pkg/types"
)

// DefaultPrecision is the number of decimals shown for latitude/longitude.
const DefaultPrecision = 6

// DefaultFilename is the name offered for a CSV download.
const DefaultFilename = "utm_to_lat_lon_output.csv"

// Header is the CSV header row.
var Header = []string{"Easting", "Northing", "Latitude", "Longitude"}

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unsupported export format")

// ParseFormat validates a format name. An empty name selects CSV.
func ParseFormat(s string) (types.ExportFormat, error) {
	switch f := types.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return types.FormatCSV, nil
	case types.FormatCSV, types.FormatYAML, types.FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: use csv, yaml, or json", ErrUnknownFormat, s)
	}
}

// Filename returns the download name for format.
func Filename(format types.ExportFormat) string {
	if format == "" || format == types.FormatCSV {
		return DefaultFilename
	}
	return strings.TrimSuffix(DefaultFilename, ".csv") + "." + string(format)
}

// ContentType returns the MIME type for format.
func ContentType(format types.ExportFormat) string {
	switch format {
	case types.FormatYAML:
		return "application/yaml"
	case types.FormatJSON:
		return "application/json"
	default:
		return "text/csv"
	}
}

// FormatPair renders a coordinate as "lat, lon" with fixed decimals.
func FormatPair(g types.GeoCoordinate, precision int) string {
	return formatDegrees(g.Latitude, precision) + ", " + formatDegrees(g.Longitude, precision)
}

// Entry is one exported row.
type Entry struct {
	Easting   float64 `json:"easting" yaml:"easting"`
	Northing  float64 `json:"northing" yaml:"northing"`
	Zone      int     `json:"zone" yaml:"zone"`
	Northern  bool    `json:"northern" yaml:"northern"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// MarshalJSON writes non-finite latitude or longitude as null.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	return json.Marshal(struct {
		plain
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}{plain(e), Finite(e.Latitude), Finite(e.Longitude)})
}

// Finite returns a pointer to v, or nil when v is NaN or infinite.
func Finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Write serializes records to w in the given format.
func Write(w io.Writer, format types.ExportFormat, records []types.ConversionRecord, precision int) error {
	switch format {
	case types.FormatCSV, "":
		return WriteCSV(w, records, precision)
	case types.FormatYAML:
		return WriteYAML(w, records, precision)
	case types.FormatJSON:
		return WriteJSON(w, records, precision)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteCSV writes the header followed by one row per record. Easting and
// northing keep their input precision; latitude and longitude are fixed to
// precision decimals.
func WriteCSV(w io.Writer, records []types.ConversionRecord, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatFloat(rec.Input.Easting, 'f', -1, 64),
			strconv.FormatFloat(rec.Input.Northing, 'f', -1, 64),
			formatDegrees(rec.Output.Latitude, precision),
			formatDegrees(rec.Output.Longitude, precision),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYAML writes records as a YAML list of entries.
func WriteYAML(w io.Writer, records []types.ConversionRecord, precision int) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(entries(records, precision)); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array of entries.
func WriteJSON(w io.Writer, records []types.ConversionRecord, precision int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries(records, precision)); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// entries rounds latitude/longitude to precision so structured exports
// agree with the CSV.
func entries(records []types.ConversionRecord, precision int) []Entry {
	out := make([]Entry, len(records))
	for i, rec := range records {
		out[i] = Entry{
			Easting:   rec.Input.Easting,
			Northing:  rec.Input.Northing,
			Zone:      rec.Input.Zone,
			Northern:  rec.Input.Northern,
			Latitude:  round(rec.Output.Latitude, precision),
			Longitude: round(rec.Output.Longitude, precision),
		}
	}
	return out
}

func formatDegrees(v float64, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func round(v float64, precision int) float64 {
	r, err := strconv.ParseFloat(formatDegrees(v, precision), 64)
	if err != nil {
		return v
	}
	return r
}
