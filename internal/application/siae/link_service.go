package siae

import (
	"context"
	"time"

	"github.com/itou/backend/internal/domain/siae"
	"go.uber.org/zap"
)

// LinkResult counts the outcome of LinkSiaes
type LinkResult struct {
	Checked  int
	Linked   int
	NotFound int
}

// LinkService links structures to their ASP counterpart
type LinkService struct {
	siaes  siae.SiaeRepository
	logger *zap.Logger
}

// NewLinkService creates a new LinkService
func NewLinkService(siaes siae.SiaeRepository, logger *zap.Logger) *LinkService {
	return &LinkService{siaes: siaes, logger: logger}
}

// LinkSiaes sets the ASP id of every structure without one whose SIRET is
// known to the export. With dryRun nothing is written.
func (s *LinkService) LinkSiaes(ctx context.Context, vs *VueStructure, dryRun bool) (*LinkResult, error) {
	unlinked, err := s.siaes.FindWithoutAspID(ctx)
	if err != nil {
		return nil, err
	}

	result := &LinkResult{Checked: len(unlinked)}
	for i := range unlinked {
		structure := &unlinked[i]
		aspID, ok := vs.SiretToAspID[structure.Siret]
		if !ok {
			result.NotFound++
			continue
		}

		s.logger.Info("Linking structure to ASP",
			zap.Int64("siae_id", structure.ID),
			zap.String("siret", structure.Siret),
			zap.Int64("asp_id", aspID),
			zap.Bool("dry_run", dryRun),
		)
		result.Linked++
		if dryRun {
			continue
		}
		structure.LinkToASP(aspID)
		if err := s.siaes.Update(ctx, structure); err != nil {
			return result, err
		}
	}

	s.logger.Info("Structures linked to ASP",
		zap.Int("checked", result.Checked),
		zap.Int("linked", result.Linked),
		zap.Int("not_found", result.NotFound),
	)
	return result, nil
}

// RefreshResult counts convention activity changes
type RefreshResult struct {
	Checked     int
	Deactivated int
	Reactivated int
}

// ConventionService keeps convention activity in sync with the annexes
type ConventionService struct {
	conventions siae.ConventionRepository
	logger      *zap.Logger
}

// NewConventionService creates a new ConventionService
func NewConventionService(conventions siae.ConventionRepository, logger *zap.Logger) *ConventionService {
	return &ConventionService{conventions: conventions, logger: logger}
}

// RefreshAll recomputes the activity of every convention at now
func (s *ConventionService) RefreshAll(ctx context.Context, now time.Time) (*RefreshResult, error) {
	conventions, err := s.conventions.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{Checked: len(conventions)}
	for i := range conventions {
		c := &conventions[i]
		annexes, err := s.conventions.FindAnnexes(ctx, c.ID)
		if err != nil {
			return result, err
		}
		if !c.RefreshActivity(annexes, now) {
			continue
		}
		if err := s.conventions.Update(ctx, c); err != nil {
			return result, err
		}
		if c.IsActive {
			result.Reactivated++
		} else {
			result.Deactivated++
		}
		s.logger.Info("Convention activity changed",
			zap.Int64("convention_id", c.ID),
			zap.Int64("asp_id", c.AspID),
			zap.Bool("is_active", c.IsActive),
		)
	}
	return result, nil
}
