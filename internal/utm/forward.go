// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package utm

import (
	"math"

	"github.com/pdiddy/utmconv/pkg/types"
)

// ToUTM projects latitude/longitude in decimal degrees into the given zone.
// The zone is not derived from the longitude; positions far from the zone's
// central meridian lose accuracy.
func (c *Converter) ToUTM(lat, lon float64, zone int, northern bool) types.UTMCoordinate {
	a := c.ellipsoid.A
	e2 := c.ellipsoid.E2
	e4 := e2 * e2
	e6 := e4 * e2

	phi := radians(lat)
	sinp := math.Sin(phi)
	cosp := math.Cos(phi)
	tanp := math.Tan(phi)

	n := a / math.Sqrt(1-e2*sinp*sinp)
	t := tanp * tanp
	cc := c.ep2 * cosp * cosp
	aa := radians(lon-CentralMeridian(zone)) * cosp

	// Meridional arc from the equator.
	m := a * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	a2 := aa * aa
	a3 := a2 * aa
	a4 := a2 * a2
	a5 := a4 * aa
	a6 := a4 * a2

	x := c.k0 * n * (aa +
		(1-t+cc)*a3/6 +
		(5-18*t+t*t+72*cc-58*c.ep2)*a5/120)

	y := c.k0 * (m + n*tanp*(a2/2+
		(5-t+9*cc+4*cc*cc)*a4/24+
		(61-58*t+t*t+600*cc-330*c.ep2)*a6/720))

	if !northern {
		y += FalseNorthing
	}

	return types.UTMCoordinate{
		Easting:  x + FalseEasting,
		Northing: y,
		Zone:     zone,
		Northern: northern,
	}
}
