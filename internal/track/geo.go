package track

import (
	"fmt"

	"github.com/soniakeys/meeus/v3/globe"
	"github.com/soniakeys/unit"
)

// GeoPoint is a geographic position in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether the point lies within [-90,90] x [-180,180].
func (p GeoPoint) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %.4f out of range [-90, 90]", p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("longitude %.4f out of range [-180, 180]", p.Lon)
	}
	return nil
}

// coord converts to meeus coordinates, where longitude is positive west.
func (p GeoPoint) coord() globe.Coord {
	return globe.Coord{
		Lat: unit.AngleFromDeg(p.Lat),
		Lon: unit.AngleFromDeg(-p.Lon),
	}
}

// DistanceKm returns the geodesic distance to q on the IAU 1976 ellipsoid.
func (p GeoPoint) DistanceKm(q GeoPoint) float64 {
	// The series is undefined (0/0) for coincident points.
	if p == q {
		return 0
	}
	return globe.Earth76.Distance(p.coord(), q.coord())
}
