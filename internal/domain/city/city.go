// Package city holds French municipalities with geocoding data.
//
// Cities are imported independently from structures and may drift out of
// sync with them: there is deliberately no foreign key from a structure to a
// city, see FindSuspicious.
package city

import (
	"fmt"

	"github.com/itou/backend/internal/domain/geo"
)

// City is a geocoded municipality
type City struct {
	ID         int64
	Name       string
	Slug       string
	Department string
	PostCodes  []string
	CodeInsee  string
	Coords     *geo.Point
}

// DisplayName returns "Name (department)"
func (c *City) DisplayName() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Department)
}

// Region returns the region of the city department, empty when unknown
func (c *City) Region() string {
	return RegionOf(c.Department)
}

// Latitude returns the latitude, nil without coordinates
func (c *City) Latitude() *float64 {
	if c.Coords == nil {
		return nil
	}
	lat := c.Coords.Lat
	return &lat
}

// Longitude returns the longitude, nil without coordinates
func (c *City) Longitude() *float64 {
	if c.Coords == nil {
		return nil
	}
	lon := c.Coords.Lon
	return &lon
}

// SlugFor builds the slug of a city in a department, e.g. "guerande-44"
func SlugFor(name, department string) string {
	return Slugify(name + "-" + department)
}
