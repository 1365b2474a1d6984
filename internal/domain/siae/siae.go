package siae

import (
	"strings"
	"time"

	"github.com/itou/backend/internal/domain/geo"
	"github.com/itou/backend/internal/domain/shared"
)

// Kind is the legal form of a structure
type Kind string

const (
	KindEI   Kind = "EI"   // Entreprise d'insertion
	KindAI   Kind = "AI"   // Association intermédiaire
	KindACI  Kind = "ACI"  // Atelier chantier d'insertion
	KindETTI Kind = "ETTI" // Entreprise de travail temporaire d'insertion
	KindEITI Kind = "EITI" // Entreprise d'insertion par le travail indépendant
	KindGEIQ Kind = "GEIQ" // Groupement d'employeurs pour l'insertion et la qualification
	KindRQ   Kind = "RQ"   // Régie de quartier
)

// IsValid checks if the kind is a known Kind
func (k Kind) IsValid() bool {
	switch k {
	case KindEI, KindAI, KindACI, KindETTI, KindEITI, KindGEIQ, KindRQ:
		return true
	}
	return false
}

// IsASPManaged reports whether structures of this kind are conventioned by
// the ASP and therefore submit employee records
func (k Kind) IsASPManaged() bool {
	switch k {
	case KindEI, KindAI, KindACI, KindETTI, KindEITI:
		return true
	}
	return false
}

// ParseKinds converts raw values, rejecting unknown kinds
func ParseKinds(values []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(values))
	for _, v := range values {
		k := Kind(strings.ToUpper(strings.TrimSpace(v)))
		if !k.IsValid() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown structure kind: "+v)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Source tells where a structure record comes from
type Source string

const (
	SourceASP          Source = "ASP"
	SourceGEIQ         Source = "GEIQ"
	SourceUserCreated  Source = "USER_CREATED"
	SourceStaffCreated Source = "STAFF_CREATED"
)

// Siae is a "structure d'insertion par l'activité économique"
type Siae struct {
	shared.BaseEntity
	Siret        string
	Naf          string
	Kind         Kind
	Name         string
	Brand        string
	Phone        string
	Email        string
	AuthEmail    string
	Website      string
	Source       Source
	AspID        *int64
	AddressLine1 string
	AddressLine2 string
	PostCode     string
	City         string
	Department   string
	Coords       *geo.Point
	ConventionID *int64
}

// NewSiae creates a structure after validating its identifiers
func NewSiae(siret, naf string, kind Kind, name string, source Source) (*Siae, error) {
	if err := ValidateSIRET(siret); err != nil {
		return nil, err
	}
	if naf != "" {
		if err := ValidateNAF(naf); err != nil {
			return nil, err
		}
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown structure kind: "+string(kind))
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Structure name cannot be empty")
	}
	return &Siae{
		BaseEntity: shared.NewBaseEntity(),
		Siret:      siret,
		Naf:        naf,
		Kind:       kind,
		Name:       strings.TrimSpace(name),
		Source:     source,
	}, nil
}

// DisplayName returns the brand ("enseigne") when set, the legal name otherwise
func (s *Siae) DisplayName() string {
	if s.Brand != "" {
		return s.Brand
	}
	return s.Name
}

// AssetProperty is the ASP "mesure" code of the structure kind, e.g. ACI_DC
func (s *Siae) AssetProperty() string {
	return string(s.Kind) + "_DC"
}

// LinkToASP records the stable ASP identifier of the structure
func (s *Siae) LinkToASP(aspID int64) {
	s.AspID = &aspID
	s.UpdatedAt = time.Now()
}

// HasAspID reports whether the structure is linked to its ASP counterpart
func (s *Siae) HasAspID() bool {
	return s.AspID != nil
}
