// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package utm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEllipsoid is returned by EllipsoidByName for unsupported names.
var ErrUnknownEllipsoid = errors.New("unknown ellipsoid")

// Ellipsoid holds the reference ellipsoid constants used by the projection.
type Ellipsoid struct {
	Name string
	A    float64 // semi-major axis (equatorial radius) in meters
	E2   float64 // first eccentricity squared
}

// SecondEccentricitySquared returns e'^2 = e^2 / (1 - e^2).
func (e Ellipsoid) SecondEccentricitySquared() float64 {
	return e.E2 / (1 - e.E2)
}

var (
	// UTMDefault uses the rounded eccentricity common to UTM field tools.
	UTMDefault = Ellipsoid{Name: "utm", A: 6378137.0, E2: 0.00669438}

	// WGS84 is the World Geodetic System 1984 ellipsoid, f = 1/298.257223563.
	WGS84 = Ellipsoid{Name: "wgs84", A: 6378137.0, E2: 0.006694379990141317}

	// GRS80 is the Geodetic Reference System 1980 ellipsoid, f = 1/298.257222101.
	GRS80 = Ellipsoid{Name: "grs80", A: 6378137.0, E2: 0.00669438002290272}
)

var ellipsoids = []Ellipsoid{UTMDefault, WGS84, GRS80}

// EllipsoidByName looks up an ellipsoid by case-insensitive name. An empty
// name selects UTMDefault.
func EllipsoidByName(name string) (Ellipsoid, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return UTMDefault, nil
	}
	for _, e := range ellipsoids {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return Ellipsoid{}, fmt.Errorf("%w %q: use utm, wgs84, or grs80", ErrUnknownEllipsoid, name)
}
