package employeerecord

import (
	"strings"

	"github.com/itou/backend/internal/domain/shared"
)

// Status is the submission status of an employee record
type Status string

const (
	StatusNew       Status = "NEW"
	StatusReady     Status = "READY"     // Eligible for the next export batch
	StatusSent      Status = "SENT"      // Exported, waiting for the ASP reply
	StatusRejected  Status = "REJECTED"  // Rejected by the ASP, correctable
	StatusProcessed Status = "PROCESSED" // Accepted by the ASP
	StatusDisabled  Status = "DISABLED"  // Retired, kept for audit
)

// AllStatuses lists every status in workflow order
func AllStatuses() []Status {
	return []Status{StatusNew, StatusReady, StatusSent, StatusRejected, StatusProcessed, StatusDisabled}
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusReady, StatusSent, StatusRejected, StatusProcessed, StatusDisabled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusNew:
		return target == StatusReady || target == StatusDisabled
	case StatusReady:
		return target == StatusSent
	case StatusSent:
		return target == StatusProcessed || target == StatusRejected
	case StatusRejected:
		return target == StatusReady || target == StatusDisabled
	case StatusProcessed:
		return target == StatusDisabled
	case StatusDisabled:
		return false
	}
	return false
}

// ParseStatus parses a status whatever its case ("rEjEcTeD" is REJECTED)
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "Unknown employee record status: "+raw)
	}
	return s, nil
}
