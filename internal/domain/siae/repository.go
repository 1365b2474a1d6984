package siae

import (
	"context"

	"github.com/itou/backend/internal/domain/geo"
)

// SearchFilter describes a proximity search
type SearchFilter struct {
	Center      geo.Point
	RadiusKm    float64
	Kinds       []Kind
	Departments []string
	PostCodes   []string
}

// LocatedSiae is a search result annotated with its distance to the center
type LocatedSiae struct {
	Siae       Siae
	DistanceKm float64
}

// CityDepartment is a distinct (city, department) pair used by structures
type CityDepartment struct {
	City       string
	Department string
	Siret      string
	Name       string
}

// SiaeRepository defines the interface for structure persistence
type SiaeRepository interface {
	// FindByID finds a structure by ID
	FindByID(ctx context.Context, id int64) (*Siae, error)
	// FindWithoutAspID lists structures not yet linked to the ASP
	FindWithoutAspID(ctx context.Context) ([]Siae, error)
	// Update updates a structure
	Update(ctx context.Context, s *Siae) error
	// Within returns structures within RadiusKm of Center, nearest first
	Within(ctx context.Context, filter SearchFilter) ([]LocatedSiae, error)
	// DistinctCities lists one structure per (city, department) pair
	DistinctCities(ctx context.Context) ([]CityDepartment, error)
}

// MembershipRepository defines the interface for structure memberships
type MembershipRepository interface {
	// ActiveSiaeIDs returns the structures where the user holds an active membership
	ActiveSiaeIDs(ctx context.Context, userID int64) ([]int64, error)
	// AdminUserIDs returns the active administrators of a structure
	AdminUserIDs(ctx context.Context, siaeID int64) ([]int64, error)
}

// ConventionRepository defines the interface for conventions and annexes
type ConventionRepository interface {
	// FindByID finds a convention by ID
	FindByID(ctx context.Context, id int64) (*Convention, error)
	// FindAnnexes lists the financial annexes of a convention
	FindAnnexes(ctx context.Context, conventionID int64) ([]FinancialAnnex, error)
	// FindAll lists every convention
	FindAll(ctx context.Context) ([]Convention, error)
	// Update updates a convention
	Update(ctx context.Context, c *Convention) error
}
