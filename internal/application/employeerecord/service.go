// Package employeerecord holds the use cases around employee records: API
// listing, creation from a hire, status changes and the ASP file exchange.
package employeerecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/jobapplication"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ErrNoMembership is returned when the caller is not an active member of
// any structure
var ErrNoMembership = shared.NewDomainError("FORBIDDEN", "User is not an active member of any structure")

// Service handles employee record operations
type Service struct {
	records     employeerecord.Repository
	memberships siae.MembershipRepository
	jobApps     jobapplication.Repository
	users       identity.UserRepository
	siaes       siae.SiaeRepository
	conventions siae.ConventionRepository
	events      shared.EventPublisher
	now         func() time.Time
}

// NewService creates a new Service
func NewService(
	records employeerecord.Repository,
	memberships siae.MembershipRepository,
	jobApps jobapplication.Repository,
	users identity.UserRepository,
	siaes siae.SiaeRepository,
	conventions siae.ConventionRepository,
	events shared.EventPublisher,
) *Service {
	return &Service{
		records:     records,
		memberships: memberships,
		jobApps:     jobApps,
		users:       users,
		siaes:       siaes,
		conventions: conventions,
		events:      events,
		now:         time.Now,
	}
}

// ListForUser lists the records of the structures where userID is an active
// member, newest first. status is matched case-insensitively; without one
// only PROCESSED records are listed.
func (s *Service) ListForUser(ctx context.Context, userID int64, q ListQuery) (shared.Paginated[EmployeeRecordResponse], error) {
	var empty shared.Paginated[EmployeeRecordResponse]

	status := employeerecord.StatusProcessed
	if q.Status != "" {
		parsed, err := employeerecord.ParseStatus(q.Status)
		if err != nil {
			return empty, err
		}
		status = parsed
	}
	filter := employeerecord.ListFilter{
		Status: &status,
		Page:   shared.NewPage(q.Page, shared.DefaultPageSize),
	}

	siaeIDs, err := s.memberships.ActiveSiaeIDs(ctx, userID)
	if err != nil {
		return empty, err
	}
	if len(siaeIDs) == 0 {
		return empty, ErrNoMembership
	}
	filter.SiaeIDs = siaeIDs

	records, total, err := s.records.List(ctx, filter)
	if err != nil {
		return empty, err
	}
	return shared.NewPaginated(ToResponses(records), total, filter.Page), nil
}

// HasMembership reports whether userID is an active member of a structure
func (s *Service) HasMembership(ctx context.Context, userID int64) (bool, error) {
	ids, err := s.memberships.ActiveSiaeIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

// CreateFromJobApplication creates the NEW record of an accepted hire. It
// fails with ALREADY_EXISTS when the job application already has a record
// that is not retired.
func (s *Service) CreateFromJobApplication(ctx context.Context, jobApplicationID int64) (*employeerecord.EmployeeRecord, error) {
	ja, err := s.jobApps.FindByID(ctx, jobApplicationID)
	if err != nil {
		return nil, err
	}
	if ja.ApprovalID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Job application has no approval")
	}

	approval, err := s.jobApps.FindApproval(ctx, *ja.ApprovalID)
	if err != nil {
		return nil, err
	}
	jobSeeker, err := s.users.FindByID(ctx, ja.JobSeekerID)
	if err != nil {
		return nil, err
	}
	structure, err := s.siaes.FindByID(ctx, ja.ToSiaeID)
	if err != nil {
		return nil, err
	}
	annex, err := s.currentAnnex(ctx, structure)
	if err != nil {
		return nil, err
	}

	rec, err := employeerecord.FromJobApplication(employeerecord.Source{
		JobApplication: ja,
		Approval:       approval,
		JobSeeker:      jobSeeker,
		Siae:           structure,
		FinancialAnnex: annex,
	})
	if err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("Employee record created",
		zap.Int64("employee_record_id", rec.ID),
		zap.Int64("job_application_id", ja.ID),
		zap.Int64("siae_id", structure.ID),
	)
	return rec, nil
}

func (s *Service) currentAnnex(ctx context.Context, structure *siae.Siae) (*siae.FinancialAnnex, error) {
	if structure.ConventionID == nil {
		return nil, nil
	}
	annexes, err := s.conventions.FindAnnexes(ctx, *structure.ConventionID)
	if err != nil {
		return nil, err
	}
	return siae.CurrentAnnex(annexes, s.now()), nil
}

// MarkReady queues a NEW or REJECTED record for the next export
func (s *Service) MarkReady(ctx context.Context, id int64) (*employeerecord.EmployeeRecord, error) {
	return s.transition(ctx, id, (*employeerecord.EmployeeRecord).UpdateAsReady)
}

// Disable retires a record so the job application can get a new one
func (s *Service) Disable(ctx context.Context, id int64) (*employeerecord.EmployeeRecord, error) {
	return s.transition(ctx, id, (*employeerecord.EmployeeRecord).UpdateAsDisabled)
}

func (s *Service) transition(ctx context.Context, id int64, fn func(*employeerecord.EmployeeRecord) error) (*employeerecord.EmployeeRecord, error) {
	rec, err := s.records.Transition(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, rec)
	return rec, nil
}

// publish dispatches the pending events of rec. Handler failures are logged
// by the bus and never undo the saved transition.
func (s *Service) publish(ctx context.Context, records ...*employeerecord.EmployeeRecord) {
	if s.events == nil {
		return
	}
	for _, rec := range records {
		events := rec.PullDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.events.Publish(ctx, events...); err != nil {
			logger.L(ctx).Warn("Failed to publish employee record events",
				zap.Int64("employee_record_id", rec.ID), zap.Error(err))
		}
	}
}

// IsNoMembership reports whether err means the caller has no membership
func IsNoMembership(err error) bool {
	var de *shared.DomainError
	return errors.As(err, &de) && de == ErrNoMembership
}

func batchKey(prefix, name string) string {
	return fmt.Sprintf("%s%s", prefix, name)
}
