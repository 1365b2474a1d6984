// Package prescriber holds prescriber organization use cases
package prescriber

import (
	"context"

	"github.com/itou/backend/internal/domain/prescriber"
	"go.uber.org/zap"
)

// MergeResult describes a completed merge
type MergeResult struct {
	From   string
	To     string
	Counts prescriber.MergeCounts
}

// MergeService merges duplicate prescriber organizations
type MergeService struct {
	organizations prescriber.OrganizationRepository
	logger        *zap.Logger
}

// NewMergeService creates a new MergeService
func NewMergeService(organizations prescriber.OrganizationRepository, logger *zap.Logger) *MergeService {
	return &MergeService{organizations: organizations, logger: logger}
}

// Merge moves job applications, members, diagnoses and invitations of
// fromID to toID, then deletes fromID. Nothing changes on failure.
func (s *MergeService) Merge(ctx context.Context, fromID, toID int64) (*MergeResult, error) {
	if err := prescriber.CheckMergeIDs(fromID, toID); err != nil {
		return nil, err
	}

	from, err := s.organizations.FindByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.organizations.FindByID(ctx, toID)
	if err != nil {
		return nil, err
	}

	counts, err := s.organizations.CountMergeable(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("from", from.String()), zap.String("to", to.String()))
	log.Info("Merging prescriber organizations",
		zap.Int64("job_applications", counts.JobApplications),
		zap.Int64("members", counts.Members),
		zap.Int64("diagnoses", counts.Diagnoses),
		zap.Int64("invitations", counts.Invitations),
	)

	if err := s.organizations.MergeInto(ctx, fromID, toID); err != nil {
		log.Error("Merge failed, nothing was changed", zap.Error(err))
		return nil, err
	}

	log.Info("Prescriber organizations merged")
	return &MergeResult{From: from.String(), To: to.String(), Counts: *counts}, nil
}
