package persistence

import (
	"context"

	"github.com/itou/backend/internal/domain/prescriber"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements prescriber.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id int64) (*prescriber.Organization, error) {
	var model models.PrescriberOrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create stores an organization
func (r *GormOrganizationRepository) Create(ctx context.Context, o *prescriber.Organization) error {
	model := models.PrescriberOrganizationModelFromDomain(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	o.ID = model.ID
	return nil
}

// CountMergeable counts the rows a merge of fromID into toID would move.
// Members already in the destination are not counted.
func (r *GormOrganizationRepository) CountMergeable(ctx context.Context, fromID, toID int64) (*prescriber.MergeCounts, error) {
	db := r.db.WithContext(ctx)
	counts := &prescriber.MergeCounts{}

	if err := db.Model(&models.JobApplicationModel{}).
		Where("sender_prescriber_organization_id = ?", fromID).
		Count(&counts.JobApplications).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.PrescriberMembershipModel{}).
		Where("organization_id = ?", fromID).
		Where("user_id NOT IN (?)", destinationMembers(db, toID)).
		Count(&counts.Members).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.EligibilityDiagnosisModel{}).
		Where("author_prescriber_organization_id = ?", fromID).
		Count(&counts.Diagnoses).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.PrescriberInvitationModel{}).
		Where("organization_id = ?", fromID).
		Count(&counts.Invitations).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// MergeInto moves job applications, members, diagnoses and invitations of
// fromID to toID, then deletes fromID. Source memberships of users already
// in the destination are deleted. Everything runs in one transaction.
func (r *GormOrganizationRepository) MergeInto(ctx context.Context, fromID, toID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.JobApplicationModel{}).
			Where("sender_prescriber_organization_id = ?", fromID).
			Update("sender_prescriber_organization_id", toID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PrescriberMembershipModel{}).
			Where("organization_id = ?", fromID).
			Where("user_id NOT IN (?)", destinationMembers(tx, toID)).
			Update("organization_id", toID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.EligibilityDiagnosisModel{}).
			Where("author_prescriber_organization_id = ?", fromID).
			Update("author_prescriber_organization_id", toID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.PrescriberInvitationModel{}).
			Where("organization_id = ?", fromID).
			Update("organization_id", toID).Error; err != nil {
			return err
		}

		if err := tx.Where("organization_id = ?", fromID).
			Delete(&models.PrescriberMembershipModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.PrescriberOrganizationModel{}, "id = ?", fromID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func destinationMembers(db *gorm.DB, toID int64) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&models.PrescriberMembershipModel{}).
		Select("user_id").
		Where("organization_id = ?", toID)
}
