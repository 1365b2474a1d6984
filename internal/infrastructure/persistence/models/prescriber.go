package models

import (
	"time"

	"github.com/itou/backend/internal/domain/prescriber"
)

// PrescriberOrganizationModel is the persistence model for prescriber organizations
type PrescriberOrganizationModel struct {
	BaseModel
	Siret string                      `gorm:"type:varchar(14)"`
	Name  string                      `gorm:"type:varchar(255);not null"`
	Kind  prescriber.OrganizationKind `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (PrescriberOrganizationModel) TableName() string {
	return "prescriber_organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *PrescriberOrganizationModel) ToDomain() *prescriber.Organization {
	return &prescriber.Organization{
		BaseEntity: m.BaseModel.ToDomain(),
		Siret:      m.Siret,
		Name:       m.Name,
		Kind:       m.Kind,
	}
}

// PrescriberOrganizationModelFromDomain creates a persistence model from a domain Organization
func PrescriberOrganizationModelFromDomain(o *prescriber.Organization) *PrescriberOrganizationModel {
	m := &PrescriberOrganizationModel{Siret: o.Siret, Name: o.Name, Kind: o.Kind}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// PrescriberMembershipModel links users to prescriber organizations
type PrescriberMembershipModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         int64     `gorm:"not null;uniqueIndex:uq_prescriber_membership"`
	OrganizationID int64     `gorm:"not null;uniqueIndex:uq_prescriber_membership;index"`
	IsAdmin        bool      `gorm:"not null;default:false"`
	IsActive       bool      `gorm:"not null;default:true"`
	JoinedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PrescriberMembershipModel) TableName() string {
	return "prescriber_memberships"
}

// PrescriberInvitationModel is an invitation to join an organization
type PrescriberInvitationModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"type:varchar(254);not null"`
	OrganizationID int64     `gorm:"not null;index"`
	SenderID       int64     `gorm:"not null"`
	SentAt         time.Time `gorm:"not null"`
	Accepted       bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PrescriberInvitationModel) TableName() string {
	return "prescriber_invitations"
}

// EligibilityDiagnosisModel records who assessed a job seeker's eligibility
type EligibilityDiagnosisModel struct {
	ID                             int64     `gorm:"primaryKey;autoIncrement"`
	JobSeekerID                    int64     `gorm:"not null;index"`
	AuthorID                       int64     `gorm:"not null"`
	AuthorKind                     string    `gorm:"type:varchar(20);not null"`
	AuthorPrescriberOrganizationID *int64    `gorm:"index"`
	AuthorSiaeID                   *int64    `gorm:"index"`
	CreatedAt                      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (EligibilityDiagnosisModel) TableName() string {
	return "eligibility_diagnoses"
}
