package prescriber

import (
	"fmt"
	"strings"
	"time"

	"github.com/itou/backend/internal/domain/shared"
)

// OrganizationKind is the kind of prescriber organization
type OrganizationKind string

const (
	KindPoleEmploi OrganizationKind = "PE"
	KindCAP        OrganizationKind = "CAP_EMPLOI"
	KindML         OrganizationKind = "ML"
	KindDepartment OrganizationKind = "DEPT"
	KindOther      OrganizationKind = "OTHER"
)

// Organization is a prescriber organization
type Organization struct {
	shared.BaseEntity
	Siret string
	Name  string
	Kind  OrganizationKind
}

// String returns "ID <id> - SIRET <siret> - <name>"
func (o *Organization) String() string {
	return fmt.Sprintf("ID %d - SIRET %s - %s", o.ID, o.Siret, o.Name)
}

// NewOrganization creates an organization
func NewOrganization(name, siret string, kind OrganizationKind) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Organization name cannot be empty")
	}
	return &Organization{
		BaseEntity: shared.NewBaseEntity(),
		Siret:      siret,
		Name:       name,
		Kind:       kind,
	}, nil
}

// Membership links a user to a prescriber organization
type Membership struct {
	ID             int64
	UserID         int64
	OrganizationID int64
	IsAdmin        bool
	IsActive       bool
	JoinedAt       time.Time
}

// Invitation invites an email address to join an organization
type Invitation struct {
	ID             int64
	Email          string
	OrganizationID int64
	SenderID       int64
	SentAt         time.Time
	Accepted       bool
}
