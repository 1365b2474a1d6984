package models

import (
	"time"

	"github.com/itou/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Username       string            `gorm:"type:varchar(150);not null;uniqueIndex"`
	Email          string            `gorm:"type:varchar(254);uniqueIndex"`
	PasswordHash   string            `gorm:"type:varchar(255);not null"`
	Kind           identity.UserKind `gorm:"type:varchar(20);not null"`
	Title          identity.Title    `gorm:"type:varchar(3)"`
	FirstName      string            `gorm:"type:varchar(150)"`
	LastName       string            `gorm:"type:varchar(150)"`
	Birthdate      *time.Time        `gorm:"type:date"`
	Phone          string            `gorm:"type:varchar(20)"`
	IsActive       bool              `gorm:"not null;default:true"`
	LastLoginAt    *time.Time
	LaneNumber     string `gorm:"type:varchar(10)"`
	LaneExtension  string `gorm:"type:varchar(10)"`
	LaneType       string `gorm:"type:varchar(10)"`
	LaneName       string `gorm:"type:varchar(255)"`
	PostCode       string `gorm:"type:varchar(5)"`
	InseeCode      string `gorm:"type:varchar(5)"`
	City           string `gorm:"type:varchar(255)"`
	EducationLevel string `gorm:"type:varchar(2)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Kind:           m.Kind,
		Title:          m.Title,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Birthdate:      m.Birthdate,
		Phone:          m.Phone,
		IsActive:       m.IsActive,
		LastLoginAt:    m.LastLoginAt,
		LaneNumber:     m.LaneNumber,
		LaneExtension:  m.LaneExtension,
		LaneType:       m.LaneType,
		LaneName:       m.LaneName,
		PostCode:       m.PostCode,
		InseeCode:      m.InseeCode,
		City:           m.City,
		EducationLevel: m.EducationLevel,
	}
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Kind:           u.Kind,
		Title:          u.Title,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Birthdate:      u.Birthdate,
		Phone:          u.Phone,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		LaneNumber:     u.LaneNumber,
		LaneExtension:  u.LaneExtension,
		LaneType:       u.LaneType,
		LaneName:       u.LaneName,
		PostCode:       u.PostCode,
		InseeCode:      u.InseeCode,
		City:           u.City,
		EducationLevel: u.EducationLevel,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// TokenModel is the persistence model for API tokens
type TokenModel struct {
	Key       string    `gorm:"type:varchar(40);primaryKey"`
	UserID    int64     `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TokenModel) TableName() string {
	return "auth_tokens"
}

// ToDomain converts the persistence model to a domain APIToken
func (m *TokenModel) ToDomain() *identity.APIToken {
	return &identity.APIToken{Key: m.Key, UserID: m.UserID, CreatedAt: m.CreatedAt}
}

// TokenModelFromDomain creates a persistence model from a domain APIToken
func TokenModelFromDomain(t *identity.APIToken) *TokenModel {
	return &TokenModel{Key: t.Key, UserID: t.UserID, CreatedAt: t.CreatedAt}
}
