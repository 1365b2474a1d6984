package employeerecord

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Person is the "personnePhysique" part of the ASP payload
type Person struct {
	PassIAE   string     `json:"pass_iae"`
	ItouID    string     `json:"itou_id"`
	Title     string     `json:"title"`
	LastName  string     `json:"last_name"`
	FirstName string     `json:"first_name"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
}

// Address is the "adresse" part of the ASP payload, in "hexa" format
type Address struct {
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LaneNumber    string `json:"lane_number"`
	LaneExtension string `json:"lane_extension"`
	LaneType      string `json:"lane_type"`
	LaneName      string `json:"lane_name"`
	InseeCode     string `json:"insee_code"`
	PostCode      string `json:"post_code"`
}

// Situation is the "situationSalarie" part of the ASP payload
type Situation struct {
	OrientedBy     string `json:"oriented_by"`
	EducationLevel string `json:"education_level"`
	IsEmployed     bool   `json:"is_employed"`
}

// Payload is the snapshot of job seeker data needed to build the
// administrative file
type Payload struct {
	Person    Person    `json:"person"`
	Address   Address   `json:"address"`
	Situation Situation `json:"situation"`
}

// MissingFields lists the required fields left empty, using the ASP names
func (p Payload) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("passIae", p.Person.PassIAE)
	check("civilite", p.Person.Title)
	check("nomUsage", p.Person.LastName)
	check("prenom", p.Person.FirstName)
	if p.Person.Birthdate == nil {
		missing = append(missing, "dateNaissance")
	}
	check("adrLibelleVoie", p.Address.LaneName)
	check("codepostalcur", p.Address.PostCode)
	check("codeinseecom", p.Address.InseeCode)
	return missing
}

// JobSeekerHash builds the 30 characters "idItou" sent to the ASP in place
// of the internal user ID
func JobSeekerHash(jobSeekerID int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("itou-job-seeker-%d", jobSeekerID)))
	return hex.EncodeToString(sum[:])[:30]
}
