package jobapplication

import "context"

// Repository defines the interface for job application persistence
type Repository interface {
	// FindByID finds a job application by ID
	FindByID(ctx context.Context, id int64) (*JobApplication, error)
	// FindApproval finds an approval by ID
	FindApproval(ctx context.Context, id int64) (*Approval, error)
}
