package models

import (
	"time"

	"github.com/itou/backend/internal/domain/jobapplication"
)

// ApprovalModel is the persistence model for PASS IAE approvals
type ApprovalModel struct {
	ID      int64     `gorm:"primaryKey;autoIncrement"`
	Number  string    `gorm:"type:varchar(12);not null;uniqueIndex"`
	UserID  int64     `gorm:"not null;index"`
	StartAt time.Time `gorm:"type:date;not null"`
	EndAt   time.Time `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (ApprovalModel) TableName() string {
	return "approvals"
}

// ToDomain converts the persistence model to a domain Approval
func (m *ApprovalModel) ToDomain() *jobapplication.Approval {
	return &jobapplication.Approval{
		ID:      m.ID,
		Number:  m.Number,
		UserID:  m.UserID,
		StartAt: m.StartAt,
		EndAt:   m.EndAt,
	}
}

// JobApplicationModel is the persistence model for job applications
type JobApplicationModel struct {
	BaseModel
	JobSeekerID                    int64                     `gorm:"not null;index"`
	ToSiaeID                       int64                     `gorm:"not null;index"`
	SenderID                       int64                     `gorm:"not null"`
	SenderKind                     jobapplication.SenderKind `gorm:"type:varchar(20);not null"`
	SenderPrescriberOrganizationID *int64                    `gorm:"index"`
	State                          jobapplication.State      `gorm:"type:varchar(20);not null"`
	ApprovalID                     *int64
	HiringStartAt                  *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (JobApplicationModel) TableName() string {
	return "job_applications"
}

// ToDomain converts the persistence model to a domain JobApplication
func (m *JobApplicationModel) ToDomain() *jobapplication.JobApplication {
	return &jobapplication.JobApplication{
		BaseEntity:                     m.BaseModel.ToDomain(),
		JobSeekerID:                    m.JobSeekerID,
		ToSiaeID:                       m.ToSiaeID,
		SenderID:                       m.SenderID,
		SenderKind:                     m.SenderKind,
		SenderPrescriberOrganizationID: m.SenderPrescriberOrganizationID,
		State:                          m.State,
		ApprovalID:                     m.ApprovalID,
		HiringStartAt:                  m.HiringStartAt,
	}
}
