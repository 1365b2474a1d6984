package employeerecord

import (
	"context"

	"github.com/itou/backend/internal/domain/shared"
)

// ListFilter restricts a listing to some structures and optionally a status
type ListFilter struct {
	SiaeIDs []int64
	Status  *Status
	Page    shared.Page
}

// Repository defines the interface for employee record persistence
type Repository interface {
	// Create stores a new record. Fails with ErrAlreadyExists when the job
	// application already has a record that is not retired.
	Create(ctx context.Context, r *EmployeeRecord) error
	// FindByID finds a record by ID
	FindByID(ctx context.Context, id int64) (*EmployeeRecord, error)
	// Transition locks the record row, applies fn and saves the result in
	// one transaction. Nothing is saved when fn fails.
	Transition(ctx context.Context, id int64, fn func(r *EmployeeRecord) error) (*EmployeeRecord, error)
	// List lists records of the filter structures, most recent first
	List(ctx context.Context, filter ListFilter) ([]EmployeeRecord, int64, error)
	// FindReady returns up to limit READY records, oldest first
	FindReady(ctx context.Context, limit int) ([]EmployeeRecord, error)
	// FindByBatchFile returns the records sent in an export file
	FindByBatchFile(ctx context.Context, filename string) ([]EmployeeRecord, error)
	// SaveAll saves several records in one transaction
	SaveAll(ctx context.Context, records []*EmployeeRecord) error
}
