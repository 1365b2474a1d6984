package models

import (
	"time"

	"github.com/itou/backend/internal/domain/siae"
)

// SiaeModel is the persistence model for the Siae domain entity.
type SiaeModel struct {
	BaseModel
	Siret        string      `gorm:"type:varchar(14);not null;uniqueIndex:uq_siae_siret_kind"`
	Naf          string      `gorm:"type:varchar(5)"`
	Kind         siae.Kind   `gorm:"type:varchar(6);not null;uniqueIndex:uq_siae_siret_kind"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Brand        string      `gorm:"type:varchar(255)"`
	Phone        string      `gorm:"type:varchar(20)"`
	Email        string      `gorm:"type:varchar(254)"`
	AuthEmail    string      `gorm:"type:varchar(254)"`
	Website      string      `gorm:"type:varchar(200)"`
	Source       siae.Source `gorm:"type:varchar(20);not null"`
	AspID        *int64      `gorm:"index"`
	AddressLine1 string      `gorm:"column:address_line_1;type:varchar(255)"`
	AddressLine2 string      `gorm:"column:address_line_2;type:varchar(255)"`
	PostCode     string      `gorm:"type:varchar(5)"`
	City         string      `gorm:"type:varchar(255)"`
	Department   string      `gorm:"type:varchar(3);index"`
	Coordinates
	ConventionID *int64 `gorm:"index"`
}

// TableName returns the table name for GORM
func (SiaeModel) TableName() string {
	return "siaes"
}

// ToDomain converts the persistence model to a domain Siae
func (m *SiaeModel) ToDomain() *siae.Siae {
	return &siae.Siae{
		BaseEntity:   m.BaseModel.ToDomain(),
		Siret:        m.Siret,
		Naf:          m.Naf,
		Kind:         m.Kind,
		Name:         m.Name,
		Brand:        m.Brand,
		Phone:        m.Phone,
		Email:        m.Email,
		AuthEmail:    m.AuthEmail,
		Website:      m.Website,
		Source:       m.Source,
		AspID:        m.AspID,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		PostCode:     m.PostCode,
		City:         m.City,
		Department:   m.Department,
		Coords:       m.Coordinates.ToDomain(),
		ConventionID: m.ConventionID,
	}
}

// SiaeModelFromDomain creates a persistence model from a domain Siae
func SiaeModelFromDomain(s *siae.Siae) *SiaeModel {
	m := &SiaeModel{
		Siret:        s.Siret,
		Naf:          s.Naf,
		Kind:         s.Kind,
		Name:         s.Name,
		Brand:        s.Brand,
		Phone:        s.Phone,
		Email:        s.Email,
		AuthEmail:    s.AuthEmail,
		Website:      s.Website,
		Source:       s.Source,
		AspID:        s.AspID,
		AddressLine1: s.AddressLine1,
		AddressLine2: s.AddressLine2,
		PostCode:     s.PostCode,
		City:         s.City,
		Department:   s.Department,
		Coordinates:  CoordinatesFromDomain(s.Coords),
		ConventionID: s.ConventionID,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// SiaeMembershipModel links users to structures
type SiaeMembershipModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	UserID   int64     `gorm:"not null;uniqueIndex:uq_siae_membership"`
	SiaeID   int64     `gorm:"not null;uniqueIndex:uq_siae_membership;index"`
	IsAdmin  bool      `gorm:"not null;default:false"`
	IsActive bool      `gorm:"not null;default:true"`
	JoinedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SiaeMembershipModel) TableName() string {
	return "siae_memberships"
}

// SiaeMembershipModelFromDomain creates a persistence model from a domain Membership
func SiaeMembershipModelFromDomain(m *siae.Membership) *SiaeMembershipModel {
	return &SiaeMembershipModel{
		ID:       m.ID,
		UserID:   m.UserID,
		SiaeID:   m.SiaeID,
		IsAdmin:  m.IsAdmin,
		IsActive: m.IsActive,
		JoinedAt: m.JoinedAt,
	}
}

// ConventionModel is the persistence model for SIAE conventions
type ConventionModel struct {
	BaseModel
	Kind           siae.Kind `gorm:"type:varchar(6);not null;uniqueIndex:uq_convention_asp_kind"`
	SiretSignature string    `gorm:"type:varchar(14);not null"`
	IsActive       bool      `gorm:"not null;default:true"`
	DeactivatedAt  *time.Time
	ReactivatedAt  *time.Time
	ReactivatedBy  *int64
	AspID          int64 `gorm:"not null;uniqueIndex:uq_convention_asp_kind"`
}

// TableName returns the table name for GORM
func (ConventionModel) TableName() string {
	return "siae_conventions"
}

// ToDomain converts the persistence model to a domain Convention
func (m *ConventionModel) ToDomain() *siae.Convention {
	return &siae.Convention{
		BaseEntity:     m.BaseModel.ToDomain(),
		Kind:           m.Kind,
		SiretSignature: m.SiretSignature,
		IsActive:       m.IsActive,
		DeactivatedAt:  m.DeactivatedAt,
		ReactivatedAt:  m.ReactivatedAt,
		ReactivatedBy:  m.ReactivatedBy,
		AspID:          m.AspID,
	}
}

// ConventionModelFromDomain creates a persistence model from a domain Convention
func ConventionModelFromDomain(c *siae.Convention) *ConventionModel {
	m := &ConventionModel{
		Kind:           c.Kind,
		SiretSignature: c.SiretSignature,
		IsActive:       c.IsActive,
		DeactivatedAt:  c.DeactivatedAt,
		ReactivatedAt:  c.ReactivatedAt,
		ReactivatedBy:  c.ReactivatedBy,
		AspID:          c.AspID,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// FinancialAnnexModel is the persistence model for financial annexes
type FinancialAnnexModel struct {
	BaseModel
	Number           string          `gorm:"type:varchar(17);not null;uniqueIndex"`
	ConventionNumber string          `gorm:"type:varchar(19)"`
	State            siae.AnnexState `gorm:"type:varchar(20);not null"`
	StartAt          time.Time       `gorm:"not null"`
	EndAt            time.Time       `gorm:"not null"`
	ConventionID     int64           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (FinancialAnnexModel) TableName() string {
	return "siae_financial_annexes"
}

// ToDomain converts the persistence model to a domain FinancialAnnex
func (m *FinancialAnnexModel) ToDomain() siae.FinancialAnnex {
	return siae.FinancialAnnex{
		BaseEntity:       m.BaseModel.ToDomain(),
		Number:           m.Number,
		ConventionNumber: m.ConventionNumber,
		State:            m.State,
		StartAt:          m.StartAt,
		EndAt:            m.EndAt,
		ConventionID:     m.ConventionID,
	}
}
