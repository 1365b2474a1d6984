package city

import "context"

// Repository defines the interface for city persistence
type Repository interface {
	// FindBySlug finds a city by slug
	FindBySlug(ctx context.Context, slug string) (*City, error)
	// ExistsInDepartment reports whether a city with this slug exists in the department
	ExistsInDepartment(ctx context.Context, slug, department string) (bool, error)
	// SearchByName returns up to limit cities whose name starts with prefix
	SearchByName(ctx context.Context, prefix string, limit int) ([]City, error)
}
