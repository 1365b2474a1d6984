package employeerecord

import (
	"encoding/json"

	"github.com/itou/backend/internal/domain/employeerecord"
)

// aspDateLayout is the date format of the ASP exchange files
const aspDateLayout = "02/01/2006"

// =============================================================================
// ASP exchange format
// =============================================================================

// PersonnePhysique is the person block of an ASP line
type PersonnePhysique struct {
	PassIae       string  `json:"passIae"`
	IDItou        string  `json:"idItou"`
	Civilite      string  `json:"civilite"`
	NomUsage      string  `json:"nomUsage"`
	Prenom        string  `json:"prenom"`
	DateNaissance *string `json:"dateNaissance"`
}

// Adresse is the address block of an ASP line
type Adresse struct {
	AdrTelephone      string `json:"adrTelephone"`
	AdrMail           string `json:"adrMail"`
	AdrNumeroVoie     string `json:"adrNumeroVoie"`
	CodeExtensionVoie string `json:"codeextensionvoie"`
	CodeTypeVoie      string `json:"codetypevoie"`
	AdrLibelleVoie    string `json:"adrLibelleVoie"`
	CodeInseeCom      string `json:"codeinseecom"`
	CodePostalCur     string `json:"codepostalcur"`
}

// SituationSalarie is the employment situation block of an ASP line
type SituationSalarie struct {
	Orienteur       string `json:"orienteur"`
	NiveauFormation string `json:"niveauFormation"`
	SalarieEnEmploi bool   `json:"salarieEnEmploi"`
}

// EmployeeRecordResponse is an employee record as exposed by the API and
// written in export files
type EmployeeRecordResponse struct {
	PassIae          string           `json:"passIae"`
	NumLigne         *int             `json:"numLigne"`
	TypeMouvement    string           `json:"typeMouvement"`
	Siret            string           `json:"siret"`
	Mesure           string           `json:"mesure"`
	NumeroAnnexe     string           `json:"numeroAnnexe"`
	PersonnePhysique PersonnePhysique `json:"personnePhysique"`
	Adresse          Adresse          `json:"adresse"`
	SituationSalarie SituationSalarie `json:"situationSalarie"`
}

// MovementCreation is the only movement type sent for now
const MovementCreation = "C"

// ToResponse maps a record to its ASP representation
func ToResponse(r *employeerecord.EmployeeRecord) EmployeeRecordResponse {
	p := r.Payload
	var birthdate *string
	if p.Person.Birthdate != nil {
		s := p.Person.Birthdate.Format(aspDateLayout)
		birthdate = &s
	}
	var line *int
	if r.BatchLine > 0 {
		l := r.BatchLine
		line = &l
	}

	return EmployeeRecordResponse{
		PassIae:       r.ApprovalNumber,
		NumLigne:      line,
		TypeMouvement: MovementCreation,
		Siret:         r.Siret,
		Mesure:        r.AssetProperty,
		NumeroAnnexe:  r.FinancialAnnexNumber,
		PersonnePhysique: PersonnePhysique{
			PassIae:       p.Person.PassIAE,
			IDItou:        p.Person.ItouID,
			Civilite:      p.Person.Title,
			NomUsage:      p.Person.LastName,
			Prenom:        p.Person.FirstName,
			DateNaissance: birthdate,
		},
		Adresse: Adresse{
			AdrTelephone:      p.Address.Phone,
			AdrMail:           p.Address.Email,
			AdrNumeroVoie:     p.Address.LaneNumber,
			CodeExtensionVoie: p.Address.LaneExtension,
			CodeTypeVoie:      p.Address.LaneType,
			AdrLibelleVoie:    p.Address.LaneName,
			CodeInseeCom:      p.Address.InseeCode,
			CodePostalCur:     p.Address.PostCode,
		},
		SituationSalarie: SituationSalarie{
			Orienteur:       p.Situation.OrientedBy,
			NiveauFormation: p.Situation.EducationLevel,
			SalarieEnEmploi: p.Situation.IsEmployed,
		},
	}
}

// ToResponses maps records to their ASP representation
func ToResponses(records []employeerecord.EmployeeRecord) []EmployeeRecordResponse {
	out := make([]EmployeeRecordResponse, len(records))
	for i := range records {
		out[i] = ToResponse(&records[i])
	}
	return out
}

// BatchFile is the body of an export file
type BatchFile struct {
	MsgInformatif *string                  `json:"msgInformatif"`
	TelID         *int64                   `json:"telId"`
	Lignes        []EmployeeRecordResponse `json:"lignesTelechargement"`
}

// ReplyLine is one line of an agency reply
type ReplyLine struct {
	EmployeeRecordResponse
	CodeTraitement    string `json:"codeTraitement"`
	LibelleTraitement string `json:"libelleTraitement"`
}

// ReplyFile is the body of an agency reply. Lines are kept raw so each one
// can be archived as received.
type ReplyFile struct {
	MsgInformatif *string           `json:"msgInformatif"`
	TelID         *int64            `json:"telId"`
	Lignes        []json.RawMessage `json:"lignesTelechargement"`
}

// ListQuery holds the API listing parameters
type ListQuery struct {
	Status string
	Page   int
}

// ExportResult describes one uploaded batch
type ExportResult struct {
	FileName string `json:"file_name"`
	Key      string `json:"key"`
	Lines    int    `json:"lines"`
}

// ReplyResult summarizes a processed reply
type ReplyResult struct {
	BatchFile string `json:"batch_file"`
	Accepted  int    `json:"accepted"`
	Rejected  int    `json:"rejected"`
	Skipped   int    `json:"skipped"`
}
