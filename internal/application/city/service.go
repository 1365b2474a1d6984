// Package city holds city lookups: autocomplete and reconciliation with
// the cities typed on structures.
package city

import (
	"context"
	"strings"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/siae"
	"go.uber.org/zap"
)

// AutocompleteLimit is the maximum number of suggestions
const AutocompleteLimit = 10

// CityResponse is an autocomplete suggestion
type CityResponse struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Department string   `json:"department"`
	Region     string   `json:"region,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// Service handles city operations
type Service struct {
	cities city.Repository
	siaes  siae.SiaeRepository
	logger *zap.Logger
}

// NewService creates a new Service
func NewService(cities city.Repository, siaes siae.SiaeRepository, logger *zap.Logger) *Service {
	return &Service{cities: cities, siaes: siaes, logger: logger}
}

// Autocomplete suggests cities whose name starts with term
func (s *Service) Autocomplete(ctx context.Context, term string) ([]CityResponse, error) {
	term = strings.TrimSpace(term)
	out := []CityResponse{}
	if term == "" {
		return out, nil
	}
	cities, err := s.cities.SearchByName(ctx, term, AutocompleteLimit)
	if err != nil {
		return nil, err
	}
	for i := range cities {
		c := &cities[i]
		out = append(out, CityResponse{
			Slug:       c.Slug,
			Name:       c.DisplayName(),
			Department: c.Department,
			Region:     c.Region(),
			Latitude:   c.Latitude(),
			Longitude:  c.Longitude(),
		})
	}
	return out, nil
}

// FindSuspiciousSiaeCities lists the (city, department) pairs used by
// structures that match no known city
func (s *Service) FindSuspiciousSiaeCities(ctx context.Context) ([]siae.CityDepartment, error) {
	pairs, err := s.siaes.DistinctCities(ctx)
	if err != nil {
		return nil, err
	}

	suspicious := []siae.CityDepartment{}
	for _, p := range pairs {
		exists, err := s.cities.ExistsInDepartment(ctx, city.SlugFor(p.City, p.Department), p.Department)
		if err != nil {
			return nil, err
		}
		if !exists {
			suspicious = append(suspicious, p)
		}
	}
	s.logger.Info("Structure cities checked",
		zap.Int("checked", len(pairs)),
		zap.Int("suspicious", len(suspicious)),
	)
	return suspicious, nil
}
