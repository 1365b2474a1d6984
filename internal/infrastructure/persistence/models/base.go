package models

import (
	"time"

	"github.com/itou/backend/internal/domain/geo"
	"github.com/itou/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// Coordinates are stored as two plain columns. The PostGIS "coords"
// geography column is generated from them by the database and only
// appears in raw search clauses.
type Coordinates struct {
	Longitude *float64 `gorm:"column:longitude"`
	Latitude  *float64 `gorm:"column:latitude"`
}

// ToDomain returns the point, nil when either coordinate is missing
func (c Coordinates) ToDomain() *geo.Point {
	if c.Longitude == nil || c.Latitude == nil {
		return nil
	}
	return &geo.Point{Lon: *c.Longitude, Lat: *c.Latitude}
}

// CoordinatesFromDomain maps an optional point
func CoordinatesFromDomain(p *geo.Point) Coordinates {
	if p == nil {
		return Coordinates{}
	}
	lon, lat := p.Lon, p.Lat
	return Coordinates{Longitude: &lon, Latitude: &lat}
}
