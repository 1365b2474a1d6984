package city

import (
	"context"
	"errors"
	"testing"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/geo"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type MockCityRepository struct {
	mock.Mock
}

func (m *MockCityRepository) FindBySlug(ctx context.Context, slug string) (*city.City, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*city.City), args.Error(1)
}

func (m *MockCityRepository) ExistsInDepartment(ctx context.Context, slug, department string) (bool, error) {
	args := m.Called(ctx, slug, department)
	return args.Bool(0), args.Error(1)
}

func (m *MockCityRepository) SearchByName(ctx context.Context, prefix string, limit int) ([]city.City, error) {
	args := m.Called(ctx, prefix, limit)
	return args.Get(0).([]city.City), args.Error(1)
}

type MockSiaeRepository struct {
	mock.Mock
}

func (m *MockSiaeRepository) FindByID(ctx context.Context, id int64) (*siae.Siae, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*siae.Siae), args.Error(1)
}

func (m *MockSiaeRepository) FindWithoutAspID(ctx context.Context) ([]siae.Siae, error) {
	args := m.Called(ctx)
	return args.Get(0).([]siae.Siae), args.Error(1)
}

func (m *MockSiaeRepository) Update(ctx context.Context, s *siae.Siae) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSiaeRepository) Within(ctx context.Context, filter siae.SearchFilter) ([]siae.LocatedSiae, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]siae.LocatedSiae), args.Error(1)
}

func (m *MockSiaeRepository) DistinctCities(ctx context.Context) ([]siae.CityDepartment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]siae.CityDepartment), args.Error(1)
}

func TestService_Autocomplete(t *testing.T) {
	ctx := context.Background()

	t.Run("returns suggestions", func(t *testing.T) {
		cities := new(MockCityRepository)
		svc := NewService(cities, new(MockSiaeRepository), zaptest.NewLogger(t))
		cities.On("SearchByName", ctx, "guér", AutocompleteLimit).Return([]city.City{
			{Name: "Guérande", Slug: "guerande-44", Department: "44", Coords: &geo.Point{Lon: -2.47, Lat: 47.33}},
			{Name: "Guéret", Slug: "gueret-23", Department: "23"},
		}, nil)

		got, err := svc.Autocomplete(ctx, " guér ")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Guérande (44)", got[0].Name)
		assert.Equal(t, "guerande-44", got[0].Slug)
		assert.Equal(t, "Pays de la Loire", got[0].Region)
		require.NotNil(t, got[0].Latitude)
		assert.Nil(t, got[1].Latitude)
	})

	t.Run("empty term gives no suggestion", func(t *testing.T) {
		cities := new(MockCityRepository)
		svc := NewService(cities, new(MockSiaeRepository), zaptest.NewLogger(t))

		got, err := svc.Autocomplete(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, got)
		cities.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_FindSuspiciousSiaeCities(t *testing.T) {
	ctx := context.Background()

	t.Run("lists unknown cities", func(t *testing.T) {
		cities := new(MockCityRepository)
		siaes := new(MockSiaeRepository)
		svc := NewService(cities, siaes, zaptest.NewLogger(t))
		siaes.On("DistinctCities", ctx).Return([]siae.CityDepartment{
			{City: "Guérande", Department: "44"},
			{City: "Saint-Nazaire-sur-Mer", Department: "44"},
		}, nil)
		cities.On("ExistsInDepartment", ctx, "guerande-44", "44").Return(true, nil)
		cities.On("ExistsInDepartment", ctx, "saint-nazaire-sur-mer-44", "44").Return(false, nil)

		got, err := svc.FindSuspiciousSiaeCities(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Saint-Nazaire-sur-Mer", got[0].City)
	})

	t.Run("returns lookup errors", func(t *testing.T) {
		cities := new(MockCityRepository)
		siaes := new(MockSiaeRepository)
		svc := NewService(cities, siaes, zaptest.NewLogger(t))
		siaes.On("DistinctCities", ctx).Return([]siae.CityDepartment{}, errors.New("db down"))

		_, err := svc.FindSuspiciousSiaeCities(ctx)
		assert.Error(t, err)
	})
}
