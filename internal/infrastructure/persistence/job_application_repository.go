package persistence

import (
	"context"

	"github.com/itou/backend/internal/domain/jobapplication"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormJobApplicationRepository implements jobapplication.Repository using GORM
type GormJobApplicationRepository struct {
	db *gorm.DB
}

// NewGormJobApplicationRepository creates a new GormJobApplicationRepository
func NewGormJobApplicationRepository(db *gorm.DB) *GormJobApplicationRepository {
	return &GormJobApplicationRepository{db: db}
}

// FindByID finds a job application by ID
func (r *GormJobApplicationRepository) FindByID(ctx context.Context, id int64) (*jobapplication.JobApplication, error) {
	var model models.JobApplicationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindApproval finds an approval by ID
func (r *GormJobApplicationRepository) FindApproval(ctx context.Context, id int64) (*jobapplication.Approval, error) {
	var model models.ApprovalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}
