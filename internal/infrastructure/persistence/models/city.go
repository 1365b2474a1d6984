package models

import (
	"github.com/itou/backend/internal/domain/city"
	"github.com/lib/pq"
)

// CityModel is the persistence model for cities
type CityModel struct {
	ID         int64          `gorm:"primaryKey;autoIncrement"`
	Name       string         `gorm:"type:varchar(255);not null"`
	Slug       string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Department string         `gorm:"type:varchar(3);not null;index"`
	PostCodes  pq.StringArray `gorm:"type:text[]"`
	CodeInsee  string         `gorm:"type:varchar(5);not null;uniqueIndex"`
	Coordinates
}

// TableName returns the table name for GORM
func (CityModel) TableName() string {
	return "cities"
}

// ToDomain converts the persistence model to a domain City
func (m *CityModel) ToDomain() *city.City {
	return &city.City{
		ID:         m.ID,
		Name:       m.Name,
		Slug:       m.Slug,
		Department: m.Department,
		PostCodes:  []string(m.PostCodes),
		CodeInsee:  m.CodeInsee,
		Coords:     m.Coordinates.ToDomain(),
	}
}

// CityModelFromDomain creates a persistence model from a domain City
func CityModelFromDomain(c *city.City) *CityModel {
	return &CityModel{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Department:  c.Department,
		PostCodes:   pq.StringArray(c.PostCodes),
		CodeInsee:   c.CodeInsee,
		Coordinates: CoordinatesFromDomain(c.Coords),
	}
}
