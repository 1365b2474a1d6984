package jobapplication

import (
	"time"

	"github.com/itou/backend/internal/domain/shared"
)

// State is the state of a job application
type State string

const (
	StateNew        State = "NEW"
	StateProcessing State = "PROCESSING"
	StateAccepted   State = "ACCEPTED"
	StateRefused    State = "REFUSED"
	StateCancelled  State = "CANCELLED"
)

// SenderKind tells who sent the application
type SenderKind string

const (
	SenderKindJobSeeker  SenderKind = "JOB_SEEKER"
	SenderKindPrescriber SenderKind = "PRESCRIBER"
	SenderKindSiaeStaff  SenderKind = "SIAE_STAFF"
)

// JobApplication is an application of a job seeker to a structure
type JobApplication struct {
	shared.BaseEntity
	JobSeekerID                    int64
	ToSiaeID                       int64
	SenderID                       int64
	SenderKind                     SenderKind
	SenderPrescriberOrganizationID *int64
	State                          State
	ApprovalID                     *int64
	HiringStartAt                  *time.Time
}

// IsAccepted reports whether the job seeker was hired
func (j *JobApplication) IsAccepted() bool {
	return j.State == StateAccepted
}

// Approval is a PASS IAE delivered to a job seeker
type Approval struct {
	ID      int64
	Number  string
	UserID  int64
	StartAt time.Time
	EndAt   time.Time
}

// IsValidAt reports whether the approval covers the given instant
func (a *Approval) IsValidAt(now time.Time) bool {
	return !now.Before(a.StartAt) && now.Before(a.EndAt)
}
