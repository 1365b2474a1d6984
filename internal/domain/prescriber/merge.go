package prescriber

import (
	"context"
	"fmt"

	"github.com/itou/backend/internal/domain/shared"
)

// MergeCounts summarizes what a merge moves from the source organization
type MergeCounts struct {
	JobApplications int64
	Members         int64
	Diagnoses       int64
	Invitations     int64
}

// CheckMergeIDs fails when source and destination are the same organization
func CheckMergeIDs(fromID, toID int64) error {
	if fromID == toID {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("Unable to use the same organization as source and destination (ID %d).", fromID))
	}
	return nil
}

// OrganizationRepository defines the interface for prescriber organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id int64) (*Organization, error)
	// CountMergeable counts the rows a merge of fromID into toID would move
	CountMergeable(ctx context.Context, fromID, toID int64) (*MergeCounts, error)
	// MergeInto moves every row of fromID to toID and deletes fromID,
	// all or nothing
	MergeInto(ctx context.Context, fromID, toID int64) error
}
