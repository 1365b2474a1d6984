package employeerecord

import "github.com/itou/backend/internal/domain/shared"

// Aggregate type constant for EmployeeRecord
const AggregateTypeEmployeeRecord = "EmployeeRecord"

// Event type constants for EmployeeRecord
const (
	EventTypeEmployeeRecordReady     = "EmployeeRecordReady"
	EventTypeEmployeeRecordSent      = "EmployeeRecordSent"
	EventTypeEmployeeRecordProcessed = "EmployeeRecordProcessed"
	EventTypeEmployeeRecordRejected  = "EmployeeRecordRejected"
	EventTypeEmployeeRecordDisabled  = "EmployeeRecordDisabled"
)

// EmployeeRecordReadyEvent is raised when a record joins the export queue
type EmployeeRecordReadyEvent struct {
	shared.BaseDomainEvent
	JobApplicationID int64 `json:"job_application_id"`
	SiaeID           int64 `json:"siae_id"`
}

// NewEmployeeRecordReadyEvent creates a new EmployeeRecordReadyEvent
func NewEmployeeRecordReadyEvent(r *EmployeeRecord) *EmployeeRecordReadyEvent {
	return &EmployeeRecordReadyEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeEmployeeRecordReady, AggregateTypeEmployeeRecord, r.ID),
		JobApplicationID: r.JobApplicationID,
		SiaeID:           r.SiaeID,
	}
}

// EventType returns the event type name
func (e *EmployeeRecordReadyEvent) EventType() string {
	return EventTypeEmployeeRecordReady
}

// EmployeeRecordSentEvent is raised when a record is written to an export file
type EmployeeRecordSentEvent struct {
	shared.BaseDomainEvent
	SiaeID    int64  `json:"siae_id"`
	BatchFile string `json:"batch_file"`
	BatchLine int    `json:"batch_line"`
}

// NewEmployeeRecordSentEvent creates a new EmployeeRecordSentEvent
func NewEmployeeRecordSentEvent(r *EmployeeRecord) *EmployeeRecordSentEvent {
	return &EmployeeRecordSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeRecordSent, AggregateTypeEmployeeRecord, r.ID),
		SiaeID:          r.SiaeID,
		BatchFile:       r.BatchFile,
		BatchLine:       r.BatchLine,
	}
}

// EventType returns the event type name
func (e *EmployeeRecordSentEvent) EventType() string {
	return EventTypeEmployeeRecordSent
}

// EmployeeRecordProcessedEvent is raised when the ASP accepts a record
type EmployeeRecordProcessedEvent struct {
	shared.BaseDomainEvent
	SiaeID         int64  `json:"siae_id"`
	ProcessingCode string `json:"processing_code"`
}

// NewEmployeeRecordProcessedEvent creates a new EmployeeRecordProcessedEvent
func NewEmployeeRecordProcessedEvent(r *EmployeeRecord) *EmployeeRecordProcessedEvent {
	return &EmployeeRecordProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmployeeRecordProcessed, AggregateTypeEmployeeRecord, r.ID),
		SiaeID:          r.SiaeID,
		ProcessingCode:  r.ProcessingCode,
	}
}

// EventType returns the event type name
func (e *EmployeeRecordProcessedEvent) EventType() string {
	return EventTypeEmployeeRecordProcessed
}

// EmployeeRecordRejectedEvent is raised when the ASP rejects a record
type EmployeeRecordRejectedEvent struct {
	shared.BaseDomainEvent
	SiaeID           int64  `json:"siae_id"`
	JobApplicationID int64  `json:"job_application_id"`
	ApprovalNumber   string `json:"approval_number"`
	ProcessingCode   string `json:"processing_code"`
	ProcessingLabel  string `json:"processing_label"`
}

// NewEmployeeRecordRejectedEvent creates a new EmployeeRecordRejectedEvent
func NewEmployeeRecordRejectedEvent(r *EmployeeRecord) *EmployeeRecordRejectedEvent {
	return &EmployeeRecordRejectedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeEmployeeRecordRejected, AggregateTypeEmployeeRecord, r.ID),
		SiaeID:           r.SiaeID,
		JobApplicationID: r.JobApplicationID,
		ApprovalNumber:   r.ApprovalNumber,
		ProcessingCode:   r.ProcessingCode,
		ProcessingLabel:  r.ProcessingLabel,
	}
}

// EventType returns the event type name
func (e *EmployeeRecordRejectedEvent) EventType() string {
	return EventTypeEmployeeRecordRejected
}

// EmployeeRecordDisabledEvent is raised when a record is retired
type EmployeeRecordDisabledEvent struct {
	shared.BaseDomainEvent
	JobApplicationID int64 `json:"job_application_id"`
}

// NewEmployeeRecordDisabledEvent creates a new EmployeeRecordDisabledEvent
func NewEmployeeRecordDisabledEvent(r *EmployeeRecord) *EmployeeRecordDisabledEvent {
	return &EmployeeRecordDisabledEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeEmployeeRecordDisabled, AggregateTypeEmployeeRecord, r.ID),
		JobApplicationID: r.JobApplicationID,
	}
}

// EventType returns the event type name
func (e *EmployeeRecordDisabledEvent) EventType() string {
	return EventTypeEmployeeRecordDisabled
}
