// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package utm converts Universal Transverse Mercator coordinates to
// geographic latitude/longitude using the Snyder inverse transverse
// Mercator series, and back.
package utm

import (
	"errors"
	"fmt"
	"math"

	"github.com/pdiddy/utmconv/pkg/types"
)

const (
	// ScaleFactor is the UTM central-meridian scale factor k0.
	ScaleFactor = 0.9996

	// FalseEasting is added to every easting so values stay positive.
	FalseEasting = 500000.0

	// FalseNorthing is added to southern-hemisphere northings.
	FalseNorthing = 10000000.0

	// MinZone and MaxZone bound the UTM zone numbers.
	MinZone = 1
	MaxZone = 60

	zoneWidth = 6.0
)

// ErrInvalidZone is returned by ValidateZone for zones outside 1-60.
var ErrInvalidZone = errors.New("invalid UTM zone")

// ValidateZone checks that zone is a real UTM zone. Convert never calls it;
// callers that accept user input do.
func ValidateZone(zone int) error {
	if zone < MinZone || zone > MaxZone {
		return fmt.Errorf("%w %d: must be between %d and %d", ErrInvalidZone, zone, MinZone, MaxZone)
	}
	return nil
}

// CentralMeridian returns the longitude in degrees of the zone's central
// meridian.
func CentralMeridian(zone int) float64 {
	return float64(zone-1)*zoneWidth - 180 + zoneWidth/2
}

// Converter projects between UTM and geographic coordinates on one
// ellipsoid. The zero value is not usable; use New or Default.
type Converter struct {
	ellipsoid Ellipsoid
	k0        float64

	// derived constants
	ep2 float64 // second eccentricity squared
	e1  float64 // footpoint series parameter
	mu0 float64 // meridian arc rectifying divisor
}

// New creates a Converter for the given ellipsoid with the UTM scale factor.
func New(e Ellipsoid) *Converter {
	s := math.Sqrt(1 - e.E2)
	e4 := e.E2 * e.E2
	return &Converter{
		ellipsoid: e,
		k0:        ScaleFactor,
		ep2:       e.SecondEccentricitySquared(),
		e1:        (1 - s) / (1 + s),
		mu0:       e.A * (1 - e.E2/4 - 3*e4/64 - 5*e4*e.E2/256),
	}
}

var defaultConverter = New(UTMDefault)

// Default returns the converter on the UTMDefault ellipsoid.
func Default() *Converter { return defaultConverter }

// Ellipsoid returns the converter's reference ellipsoid.
func (c *Converter) Ellipsoid() Ellipsoid { return c.ellipsoid }

// Convert maps a UTM position to latitude/longitude in decimal degrees using
// the default converter.
func Convert(easting, northing float64, zone int, northern bool) types.GeoCoordinate {
	return defaultConverter.Convert(easting, northing, zone, northern)
}

// Convert maps a UTM position to latitude/longitude in decimal degrees.
// It never rejects input: out-of-range zones produce out-of-range
// longitudes and positions at the poles produce non-finite longitudes.
func (c *Converter) Convert(easting, northing float64, zone int, northern bool) types.GeoCoordinate {
	a := c.ellipsoid.A
	e2 := c.ellipsoid.E2
	e1 := c.e1

	x := easting - FalseEasting
	y := northing
	if !northern {
		y -= FalseNorthing
	}
	longOrigin := CentralMeridian(zone)

	m := y / c.k0
	mu := m / c.mu0

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu)

	sin1 := math.Sin(phi1)
	cos1 := math.Cos(phi1)
	tan1 := math.Tan(phi1)
	w := 1 - e2*sin1*sin1

	n1 := a / math.Sqrt(w)
	t1 := tan1 * tan1
	c1 := c.ep2 * cos1 * cos1
	r1 := a * (1 - e2) / math.Pow(w, 1.5)
	d := x / (n1 * c.k0)

	d2 := d * d
	d3 := d2 * d
	d4 := d2 * d2
	d5 := d4 * d
	d6 := d4 * d2

	lat := phi1 - (n1*tan1/r1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*c.ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*c.ep2-3*c1*c1)*d6/720)

	lon := (d -
		(1+2*t1+c1)*d3/6 +
		(5-2*c1+28*t1-3*c1*c1+8*c.ep2+24*t1*t1)*d5/120) / cos1

	return types.GeoCoordinate{
		Latitude:  degrees(lat),
		Longitude: longOrigin + degrees(lon),
	}
}

// ConvertCoordinate converts a UTMCoordinate value.
func (c *Converter) ConvertCoordinate(u types.UTMCoordinate) types.GeoCoordinate {
	return c.Convert(u.Easting, u.Northing, u.Zone, u.Northern)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func radians(deg float64) float64 { return deg * math.Pi / 180 }
