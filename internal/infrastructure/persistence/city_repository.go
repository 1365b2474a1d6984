package persistence

import (
	"context"
	"strings"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCityRepository implements city.Repository using GORM
type GormCityRepository struct {
	db *gorm.DB
}

// NewGormCityRepository creates a new GormCityRepository
func NewGormCityRepository(db *gorm.DB) *GormCityRepository {
	return &GormCityRepository{db: db}
}

// FindBySlug finds a city by slug
func (r *GormCityRepository) FindBySlug(ctx context.Context, slug string) (*city.City, error) {
	var model models.CityModel
	if err := r.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsInDepartment reports whether a city with this slug exists in the department
func (r *GormCityRepository) ExistsInDepartment(ctx context.Context, slug, department string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CityModel{}).
		Where("slug = ? AND department = ?", slug, department).
		Count(&count).Error
	return count > 0, err
}

// SearchByName matches the slugified prefix against city slugs, so that
// "saint-andre" finds "Saint-André-des-Eaux".
func (r *GormCityRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]city.City, error) {
	slug := city.Slugify(prefix)
	if slug == "" {
		return []city.City{}, nil
	}
	pattern := strings.ReplaceAll(slug, "_", `\_`) + "%"

	var rows []models.CityModel
	if err := r.db.WithContext(ctx).
		Where(`slug LIKE ? ESCAPE '\'`, pattern).
		Order("name").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]city.City, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Create stores a city
func (r *GormCityRepository) Create(ctx context.Context, c *city.City) error {
	model := models.CityModelFromDomain(c)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	c.ID = model.ID
	return nil
}
