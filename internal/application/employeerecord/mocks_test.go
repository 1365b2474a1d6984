package employeerecord

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/jobapplication"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/infrastructure/mailer"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

type MockJobApplicationRepository struct {
	mock.Mock
}

func (m *MockJobApplicationRepository) FindByID(ctx context.Context, id int64) (*jobapplication.JobApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobapplication.JobApplication), args.Error(1)
}

func (m *MockJobApplicationRepository) FindApproval(ctx context.Context, id int64) (*jobapplication.Approval, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobapplication.Approval), args.Error(1)
}

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

// =============================================================================
// Fakes
// =============================================================================

// memoryRecords keeps records in memory for the exchange tests
type memoryRecords struct {
	mu      sync.Mutex
	records map[int64]employeerecord.EmployeeRecord
	saveErr error
}

func newMemoryRecords(records ...employeerecord.EmployeeRecord) *memoryRecords {
	m := &memoryRecords{records: make(map[int64]employeerecord.EmployeeRecord)}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *memoryRecords) sorted(keep func(employeerecord.EmployeeRecord) bool) []employeerecord.EmployeeRecord {
	out := []employeerecord.EmployeeRecord{}
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryRecords) Create(_ context.Context, r *employeerecord.EmployeeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *r
	saved.ClearDomainEvents()
	m.records[r.ID] = saved
	return nil
}

func (m *memoryRecords) FindByID(_ context.Context, id int64) (*employeerecord.EmployeeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &r, nil
}

func (m *memoryRecords) Transition(ctx context.Context, id int64, fn func(r *employeerecord.EmployeeRecord) error) (*employeerecord.EmployeeRecord, error) {
	r, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(r); err != nil {
		return nil, err
	}
	return r, m.SaveAll(ctx, []*employeerecord.EmployeeRecord{r})
}

func (m *memoryRecords) List(_ context.Context, f employeerecord.ListFilter) ([]employeerecord.EmployeeRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(r employeerecord.EmployeeRecord) bool {
		if f.Status != nil && r.Status != *f.Status {
			return false
		}
		return f.SiaeIDs == nil || slices.Contains(f.SiaeIDs, r.SiaeID)
	})
	total := int64(len(all))
	if f.Page.Size > 0 {
		from := min(f.Page.Offset(), len(all))
		all = all[from:min(from+f.Page.Size, len(all))]
	}
	return all, total, nil
}

func (m *memoryRecords) FindReady(_ context.Context, limit int) ([]employeerecord.EmployeeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ready := m.sorted(func(r employeerecord.EmployeeRecord) bool { return r.Status == employeerecord.StatusReady })
	if len(ready) > limit {
		ready = ready[:limit]
	}
	return ready, nil
}

func (m *memoryRecords) FindByBatchFile(_ context.Context, filename string) ([]employeerecord.EmployeeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(r employeerecord.EmployeeRecord) bool { return r.BatchFile == filename }), nil
}

func (m *memoryRecords) SaveAll(_ context.Context, records []*employeerecord.EmployeeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	for _, r := range records {
		saved := *r
		saved.ClearDomainEvents()
		m.records[r.ID] = saved
	}
	return nil
}

func (m *memoryRecords) get(id int64) employeerecord.EmployeeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[id]
}

// recordingQueue collects enqueued emails
type recordingQueue struct {
	messages []mailer.Message
}

func (q *recordingQueue) Enqueue(_ context.Context, messages ...mailer.Message) error {
	q.messages = append(q.messages, messages...)
	return nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
