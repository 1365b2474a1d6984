package handler

import (
	"context"

	"github.com/itou/backend/internal/domain/city"
	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []int64) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockTokenRepository is a mock implementation of identity.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) FindByKey(ctx context.Context, key string) (*identity.APIToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIToken), args.Error(1)
}

func (m *MockTokenRepository) FindByUserID(ctx context.Context, userID int64) (*identity.APIToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.APIToken), args.Error(1)
}

func (m *MockTokenRepository) Create(ctx context.Context, token *identity.APIToken) error {
	return m.Called(ctx, token).Error(0)
}

// MockRecordRepository is a mock implementation of employeerecord.Repository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Create(ctx context.Context, r *employeerecord.EmployeeRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id int64) (*employeerecord.EmployeeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*employeerecord.EmployeeRecord), args.Error(1)
}

func (m *MockRecordRepository) Transition(ctx context.Context, id int64, fn func(r *employeerecord.EmployeeRecord) error) (*employeerecord.EmployeeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	rec := args.Get(0).(*employeerecord.EmployeeRecord)
	if err := fn(rec); err != nil {
		return nil, err
	}
	return rec, args.Error(1)
}

func (m *MockRecordRepository) List(ctx context.Context, filter employeerecord.ListFilter) ([]employeerecord.EmployeeRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]employeerecord.EmployeeRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) FindReady(ctx context.Context, limit int) ([]employeerecord.EmployeeRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]employeerecord.EmployeeRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByBatchFile(ctx context.Context, filename string) ([]employeerecord.EmployeeRecord, error) {
	args := m.Called(ctx, filename)
	return args.Get(0).([]employeerecord.EmployeeRecord), args.Error(1)
}

func (m *MockRecordRepository) SaveAll(ctx context.Context, records []*employeerecord.EmployeeRecord) error {
	return m.Called(ctx, records).Error(0)
}

// MockMembershipRepository is a mock implementation of siae.MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) ActiveSiaeIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockMembershipRepository) AdminUserIDs(ctx context.Context, siaeID int64) ([]int64, error) {
	args := m.Called(ctx, siaeID)
	return args.Get(0).([]int64), args.Error(1)
}

// MockSiaeRepository is a mock implementation of siae.SiaeRepository
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

// MockCityRepository is a mock implementation of city.Repository
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
