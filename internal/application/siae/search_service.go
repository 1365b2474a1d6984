package siae

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"go.uber.org/zap"
)

// Search distance bounds in km
const (
	DefaultSearchDistance = 25
	MinSearchDistance     = 1
	MaxSearchDistance     = 100
)

// SearchInput is a proximity search request
type SearchInput struct {
	CitySlug    string   `form:"city" binding:"required"`
	Distance    int      `form:"distance"`
	Kinds       []string `form:"kinds"`
	Departments []string `form:"departments"`
	Districts   []string `form:"districts"`
}

// SiaeResult is one structure found by a search
type SiaeResult struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Address    string   `json:"address"`
	PostCode   string   `json:"post_code"`
	City       string   `json:"city"`
	Department string   `json:"department"`
	DistanceKm *float64 `json:"distance_km"`
}

// SearchResult is the answer to a proximity search
type SearchResult struct {
	City     string       `json:"city,omitempty"`
	Distance int          `json:"distance"`
	Count    int          `json:"count"`
	Message  string       `json:"message,omitempty"`
	Results  []SiaeResult `json:"results"`
}

// SearchService finds structures around a city
type SearchService struct {
	cities city.Repository
	siaes  siae.SiaeRepository
	logger *zap.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(cities city.Repository, siaes siae.SiaeRepository, logger *zap.Logger) *SearchService {
	return &SearchService{cities: cities, siaes: siaes, logger: logger}
}

// Search returns the structures within the requested distance of the city,
// nearest first. An unknown city gives an empty result with a message.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	distance := input.Distance
	if distance == 0 {
		distance = DefaultSearchDistance
	}
	if distance < MinSearchDistance || distance > MaxSearchDistance {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Distance must be between %d and %d km", MinSearchDistance, MaxSearchDistance))
	}
	kinds, err := siae.ParseKinds(input.Kinds)
	if err != nil {
		return nil, err
	}
	for _, d := range input.Departments {
		if !city.IsDepartment(d) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown department: "+d)
		}
	}

	result := &SearchResult{Distance: distance, Results: []SiaeResult{}}
	c, err := s.cities.FindBySlug(ctx, input.CitySlug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			result.Message = "Aucune ville ne correspond à votre recherche."
			return result, nil
		}
		return nil, err
	}
	result.City = c.DisplayName()
	if c.Coords == nil {
		result.Message = "Cette ville n'est pas géolocalisée."
		return result, nil
	}

	postCodes, err := districtFilter(c, input.Districts)
	if err != nil {
		return nil, err
	}

	found, err := s.siaes.Within(ctx, siae.SearchFilter{
		Center:      *c.Coords,
		RadiusKm:    float64(distance),
		Kinds:       kinds,
		Departments: input.Departments,
		PostCodes:   postCodes,
	})
	if err != nil {
		return nil, err
	}

	for _, f := range found {
		r := SiaeResult{
			ID:         f.Siae.ID,
			Name:       f.Siae.DisplayName(),
			Kind:       string(f.Siae.Kind),
			Address:    f.Siae.AddressLine1,
			PostCode:   f.Siae.PostCode,
			City:       f.Siae.City,
			Department: f.Siae.Department,
		}
		if f.Siae.Coords != nil {
			d := roundDistance(c.Coords.DistanceKm(*f.Siae.Coords))
			r.DistanceKm = &d
		}
		result.Results = append(result.Results, r)
	}
	result.Count = len(result.Results)

	s.logger.Debug("Structure search",
		zap.String("city", c.Slug),
		zap.Int("distance", distance),
		zap.Int("count", result.Count),
	)
	return result, nil
}

// districtFilter keeps the requested districts valid for the city department
func districtFilter(c *city.City, districts []string) ([]string, error) {
	if len(districts) == 0 {
		return nil, nil
	}
	allowed := city.DistrictPostCodes(c.Department)
	for _, d := range districts {
		if !slices.Contains(allowed, d) {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown district: "+d)
		}
	}
	return districts, nil
}

func roundDistance(km float64) float64 {
	return math.Round(km*10) / 10
}
