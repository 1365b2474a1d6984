// Package geo holds WGS84 coordinates and great-circle distances.
package geo

import (
	"fmt"
	"math"
)

// earthRadiusKm is the mean radius used by PostGIS for sphere computations
const earthRadiusKm = 6371.0088

// Point is a longitude/latitude pair (SRID 4326), X being the longitude
type Point struct {
	Lon float64
	Lat float64
}

// NewPoint validates and builds a point
func NewPoint(lon, lat float64) (Point, error) {
	if lon < -180 || lon > 180 {
		return Point{}, fmt.Errorf("longitude %f out of range", lon)
	}
	if lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("latitude %f out of range", lat)
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// DistanceKm returns the great-circle distance between two points
func (p Point) DistanceKm(other Point) float64 {
	lat1 := toRadians(p.Lat)
	lat2 := toRadians(other.Lat)
	dLat := lat2 - lat1
	dLon := toRadians(other.Lon - p.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// WKT returns the EWKT representation understood by PostGIS
func (p Point) WKT() string {
	return fmt.Sprintf("SRID=4326;POINT(%f %f)", p.Lon, p.Lat)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
