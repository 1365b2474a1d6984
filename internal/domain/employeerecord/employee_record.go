package employeerecord

import (
	"fmt"
	"strings"
	"time"

	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/jobapplication"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
)

// EmployeeRecord is one submission of a hire to the ASP.
// It is only mutated through its UpdateAs* methods and never deleted.
type EmployeeRecord struct {
	shared.BaseAggregateRoot
	JobApplicationID     int64
	SiaeID               int64
	Siret                string
	AspID                *int64
	ApprovalNumber       string
	FinancialAnnexNumber string
	AssetProperty        string
	Status               Status
	BatchFile            string
	BatchLine            int
	ProcessingCode       string
	ProcessingLabel      string
	ArchivedJSON         string
	Payload              Payload
}

// Source gathers what an employee record is built from
type Source struct {
	JobApplication *jobapplication.JobApplication
	Approval       *jobapplication.Approval
	JobSeeker      *identity.User
	Siae           *siae.Siae
	FinancialAnnex *siae.FinancialAnnex
}

// FromJobApplication creates a NEW employee record for an accepted job
// application of a structure conventioned by the ASP
func FromJobApplication(src Source) (*EmployeeRecord, error) {
	ja := src.JobApplication
	if ja == nil || src.JobSeeker == nil || src.Siae == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Job application, job seeker and structure are required")
	}
	if !ja.IsAccepted() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot create an employee record for a job application in %s state", ja.State))
	}
	if src.Approval == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Job application has no approval")
	}
	if !src.Siae.Kind.IsASPManaged() {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Structures of kind %s do not submit employee records", src.Siae.Kind))
	}
	if src.FinancialAnnex == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Structure has no valid financial annex")
	}

	r := &EmployeeRecord{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		JobApplicationID:     ja.ID,
		SiaeID:               src.Siae.ID,
		Siret:                src.Siae.Siret,
		AspID:                src.Siae.AspID,
		ApprovalNumber:       src.Approval.Number,
		FinancialAnnexNumber: src.FinancialAnnex.NumberPrefix(),
		AssetProperty:        src.Siae.AssetProperty(),
		Status:               StatusNew,
		Payload:              buildPayload(src),
	}
	return r, nil
}

func buildPayload(src Source) Payload {
	u := src.JobSeeker
	return Payload{
		Person: Person{
			PassIAE:   src.Approval.Number,
			ItouID:    JobSeekerHash(u.ID),
			Title:     string(u.Title),
			LastName:  strings.ToUpper(u.LastName),
			FirstName: strings.ToUpper(u.FirstName),
			Birthdate: u.Birthdate,
		},
		Address: Address{
			Phone:         u.Phone,
			Email:         u.Email,
			LaneNumber:    u.LaneNumber,
			LaneExtension: u.LaneExtension,
			LaneType:      u.LaneType,
			LaneName:      u.LaneName,
			InseeCode:     u.InseeCode,
			PostCode:      u.PostCode,
		},
		Situation: Situation{
			OrientedBy:     orientedBy(src.JobApplication.SenderKind),
			EducationLevel: u.EducationLevel,
		},
	}
}

func orientedBy(kind jobapplication.SenderKind) string {
	switch kind {
	case jobapplication.SenderKindPrescriber:
		return "PRESCRIPTEUR"
	case jobapplication.SenderKindSiaeStaff:
		return "EMPLOYEUR"
	default:
		return "CANDIDAT"
	}
}

// UpdatePayload replaces the payload snapshot after a profile correction.
// Only allowed while the record has not been sent.
func (r *EmployeeRecord) UpdatePayload(p Payload) error {
	if r.Status != StatusNew && r.Status != StatusRejected {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update employee record data in %s status", r.Status))
	}
	r.Payload = p
	r.UpdatedAt = time.Now()
	return nil
}

// UpdateAsReady marks the record eligible for the next export batch.
// Transitions from NEW or REJECTED to READY.
func (r *EmployeeRecord) UpdateAsReady() error {
	if !r.Status.CanTransitionTo(StatusReady) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark employee record as ready in %s status", r.Status))
	}
	if missing := r.Payload.MissingFields(); len(missing) > 0 {
		return shared.NewDomainError("INVALID_INPUT", "Incomplete job seeker profile, missing: "+strings.Join(missing, ", "))
	}

	r.Status = StatusReady
	r.BatchFile = ""
	r.BatchLine = 0
	r.ProcessingCode = ""
	r.ProcessingLabel = ""
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewEmployeeRecordReadyEvent(r))

	return nil
}

// UpdateAsSent records the export file and the line of the record in it.
// Transitions from READY to SENT.
func (r *EmployeeRecord) UpdateAsSent(filename string, line int) error {
	if !r.Status.CanTransitionTo(StatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark employee record as sent in %s status", r.Status))
	}
	if !IsValidBatchFileName(filename) {
		return shared.NewDomainError("INVALID_INPUT", "Invalid export file name: "+filename)
	}
	if line < 1 {
		return shared.NewDomainError("INVALID_INPUT", "Export file line number must be positive")
	}

	r.Status = StatusSent
	r.BatchFile = filename
	r.BatchLine = line
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewEmployeeRecordSentEvent(r))

	return nil
}

// UpdateAsAccepted stores the ASP processing result verbatim.
// Transitions from SENT to PROCESSED; a second acceptance fails since it
// means the ASP replied twice for the same line.
func (r *EmployeeRecord) UpdateAsAccepted(code, label, archivedJSON string) error {
	if r.Status == StatusProcessed {
		return shared.NewDomainError("INVALID_STATE", "Employee record is already processed")
	}
	if !r.Status.CanTransitionTo(StatusProcessed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark employee record as accepted in %s status", r.Status))
	}

	r.Status = StatusProcessed
	r.ProcessingCode = code
	r.ProcessingLabel = label
	r.ArchivedJSON = archivedJSON
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewEmployeeRecordProcessedEvent(r))

	return nil
}

// UpdateAsRejected stores the ASP error verbatim for display.
// Transitions from SENT to REJECTED.
func (r *EmployeeRecord) UpdateAsRejected(code, label string) error {
	if !r.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark employee record as rejected in %s status", r.Status))
	}

	r.Status = StatusRejected
	r.ProcessingCode = code
	r.ProcessingLabel = label
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewEmployeeRecordRejectedEvent(r))

	return nil
}

// UpdateAsDisabled retires the record so that a new one may be created for
// the same job application.
// Transitions from NEW, REJECTED or PROCESSED to DISABLED.
func (r *EmployeeRecord) UpdateAsDisabled() error {
	if !r.Status.CanTransitionTo(StatusDisabled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot disable employee record in %s status", r.Status))
	}

	r.Status = StatusDisabled
	r.UpdatedAt = time.Now()

	r.AddDomainEvent(NewEmployeeRecordDisabledEvent(r))

	return nil
}

// IsRetired reports whether the record no longer claims its job application
func (r *EmployeeRecord) IsRetired() bool {
	return r.Status == StatusDisabled
}
