package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/itou/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserKind tells which side of the platform a user acts for
type UserKind string

const (
	UserKindJobSeeker  UserKind = "JOB_SEEKER"
	UserKindPrescriber UserKind = "PRESCRIBER"
	UserKindSiaeStaff  UserKind = "SIAE_STAFF"
	UserKindItouStaff  UserKind = "ITOU_STAFF"
)

// IsValid checks if the kind is a known UserKind
func (k UserKind) IsValid() bool {
	switch k {
	case UserKindJobSeeker, UserKindPrescriber, UserKindSiaeStaff, UserKindItouStaff:
		return true
	}
	return false
}

// Title is the civility used by the ASP ("civilite")
type Title string

const (
	TitleM   Title = "M"
	TitleMme Title = "MME"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is an account of the platform. Job seekers also carry the profile
// data (birthdate, address in ASP "hexa" format, education level) needed to
// build employee records.
type User struct {
	shared.BaseEntity
	Username     string
	Email        string
	PasswordHash string
	Kind         UserKind
	Title        Title
	FirstName    string
	LastName     string
	Birthdate    *time.Time
	Phone        string
	IsActive     bool
	LastLoginAt  *time.Time

	// Job seeker profile
	LaneNumber     string
	LaneExtension  string
	LaneType       string
	LaneName       string
	PostCode       string
	InseeCode      string
	City           string
	EducationLevel string
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9@._+-]{3,150}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// NewUser creates an active user with a hashed password
func NewUser(kind UserKind, username, email, password string) (*User, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown user kind: "+string(kind))
	}
	username = strings.TrimSpace(username)
	if !usernameRegex.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Username must be 3 to 150 letters, digits or @.+-_")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   username,
		Email:      email,
		Kind:       kind,
		IsActive:   true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_INPUT", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword compares a clear text password with the stored hash
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.IsActive
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(now time.Time) {
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// FullName returns "First Last"
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsJobSeeker reports whether the user is a job seeker
func (u *User) IsJobSeeker() bool {
	return u.Kind == UserKindJobSeeker
}
