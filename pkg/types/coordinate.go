// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for utmconv: the projected
// input, the geographic output, and the record pairing them.
package types

import "math"

// DefaultZone is the UTM zone assumed when none is given (zone 40 covers the
// United Arab Emirates).
const DefaultZone = 40

// UTMCoordinate is a projected position inside one UTM zone.
type UTMCoordinate struct {
	// Easting in meters, including the 500000 m false easting.
	Easting float64 `json:"easting" yaml:"easting"`

	// Northing in meters. Southern-hemisphere values carry the
	// 10000000 m false northing.
	Northing float64 `json:"northing" yaml:"northing"`

	// Zone is the 6°-wide UTM zone number, 1-60.
	Zone int `json:"zone" yaml:"zone"`

	// Northern selects the hemisphere. False means southern.
	Northern bool `json:"northern" yaml:"northern"`
}

// GeoCoordinate is a latitude/longitude pair in decimal degrees.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// IsFinite reports whether both components are finite. Conversions near the
// poles can yield infinite or NaN longitudes.
func (g GeoCoordinate) IsFinite() bool {
	return !math.IsNaN(g.Latitude) && !math.IsInf(g.Latitude, 0) &&
		!math.IsNaN(g.Longitude) && !math.IsInf(g.Longitude, 0)
}

// ConversionRecord pairs an input with the result the converter produced
// for it. Records accumulate in a session until it is cleared.
type ConversionRecord struct {
	Input  UTMCoordinate `json:"input" yaml:"input"`
	Output GeoCoordinate `json:"output" yaml:"output"`
}
