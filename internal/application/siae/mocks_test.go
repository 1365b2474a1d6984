package siae

import (
	"context"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/stretchr/testify/mock"
)

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

type MockConventionRepository struct {
	mock.Mock
}

func (m *MockConventionRepository) FindByID(ctx context.Context, id int64) (*siae.Convention, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*siae.Convention), args.Error(1)
}

func (m *MockConventionRepository) FindAnnexes(ctx context.Context, conventionID int64) ([]siae.FinancialAnnex, error) {
	args := m.Called(ctx, conventionID)
	return args.Get(0).([]siae.FinancialAnnex), args.Error(1)
}

func (m *MockConventionRepository) FindAll(ctx context.Context) ([]siae.Convention, error) {
	args := m.Called(ctx)
	return args.Get(0).([]siae.Convention), args.Error(1)
}

func (m *MockConventionRepository) Update(ctx context.Context, c *siae.Convention) error {
	return m.Called(ctx, c).Error(0)
}

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
