package siae

import (
	"regexp"

	"github.com/itou/backend/internal/domain/shared"
)

var (
	siretRegex       = regexp.MustCompile(`^\d{14}$`)
	nafRegex         = regexp.MustCompile(`^\d{4}[A-Z]$`)
	annexNumberRegex = regexp.MustCompile(`^(ACI|EI|AI|ETTI|EITI)\d{2}[A-Z\d]\d{6}A\d{1,2}M\d{1,2}$`)
)

// MaxAnnexNumberLength is the column size of a financial annex number
const MaxAnnexNumberLength = 17

// ValidateSIRET checks a SIRET is made of exactly 14 digits
func ValidateSIRET(siret string) error {
	if !siretRegex.MatchString(siret) {
		return shared.NewDomainError("INVALID_INPUT", "Le numéro SIRET doit être composé de 14 chiffres: "+siret)
	}
	return nil
}

// ValidateNAF checks a NAF code is 4 digits followed by an uppercase letter
func ValidateNAF(naf string) error {
	if !nafRegex.MatchString(naf) {
		return shared.NewDomainError("INVALID_INPUT", "Le code NAF doit être composé de 4 chiffres et d'une lettre: "+naf)
	}
	return nil
}

// ValidateFinancialAnnexNumber checks the format of an ASP financial annex
// number, e.g. EI59V182019A1M1
func ValidateFinancialAnnexNumber(number string) error {
	if len(number) > MaxAnnexNumberLength || !annexNumberRegex.MatchString(number) {
		return shared.NewDomainError("INVALID_INPUT", "Numéro d'annexe financière invalide: "+number)
	}
	return nil
}

// Siren returns the first 9 digits of a SIRET, identifying the legal unit
func Siren(siret string) string {
	if len(siret) < 9 {
		return siret
	}
	return siret[:9]
}
