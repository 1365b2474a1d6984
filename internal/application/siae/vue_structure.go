// Package siae holds the structure use cases: reconciliation with the ASP
// "Vue Structure" export, convention activity and geographic search.
package siae

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/infrastructure/csvimport"
)

// Vue Structure columns
const (
	colSiret          = "structure_siret_actualise"
	colSiretSignature = "structure_siret_signature"
	colAspID          = "structure_id_siae"
	colAuthEmail      = "structure_adresse_mail_corresp_technique"
	colNaf            = "structure_code_naf"
	colName           = "structure_denomination"
	colStreetNum      = "structure_adresse_gestion_numero"
	colStreetNumExtra = "structure_adresse_gestion_cplt_num_voie"
	colStreetType     = "structure_adresse_gestion_type_voie"
	colStreetName     = "structure_adresse_gestion_nom_voie"
	colPostCode       = "structure_adresse_gestion_cp"
	colCity           = "structure_adresse_gestion_commune"
	colPhone          = "structure_adresse_gestion_telephone"
)

var requiredColumns = []string{
	colSiret, colSiretSignature, colAspID, colAuthEmail, colNaf, colName,
	colStreetNum, colStreetNumExtra, colStreetType, colStreetName,
	colPostCode, colCity, colPhone,
}

// VueStructureRow is one structure of the ASP export
type VueStructureRow struct {
	Siret          string `csv:"structure_siret_actualise" validate:"siret"`
	SiretSignature string `csv:"structure_siret_signature" validate:"siret"`
	AspID          int64  `csv:"structure_id_siae" validate:"gt=0"`
	AuthEmail      string `csv:"structure_adresse_mail_corresp_technique" validate:"auth_email"`
	Naf            string `csv:"structure_code_naf" validate:"naf"`
	Name           string `csv:"structure_denomination"`
	StreetNum      string `csv:"structure_adresse_gestion_numero"`
	StreetNumExtra string `csv:"structure_adresse_gestion_cplt_num_voie"`
	StreetType     string `csv:"structure_adresse_gestion_type_voie"`
	StreetName     string `csv:"structure_adresse_gestion_nom_voie"`
	PostCode       string `csv:"structure_adresse_gestion_cp"`
	City           string `csv:"structure_adresse_gestion_commune"`
	Phone          string `csv:"structure_adresse_gestion_telephone"`
}

// Address returns the street address line of the row
func (r VueStructureRow) Address() string {
	parts := []string{r.StreetNum, r.StreetNumExtra, r.StreetType, r.StreetName}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// VueStructure is a loaded export with its lookups
type VueStructure struct {
	Rows                  []VueStructureRow
	AspIDToRow            map[int64]VueStructureRow
	AspIDToSiretSignature map[int64]string
	// SiretToAspID maps both current and signature SIRETs; a current SIRET
	// always wins over a signature
	SiretToAspID map[string]int64
}

// newRowValidator registers the SIRET and NAF checks of the domain
func newRowValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("csv")
	})
	_ = v.RegisterValidation("siret", func(fl validator.FieldLevel) bool {
		return siae.ValidateSIRET(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("naf", func(fl validator.FieldLevel) bool {
		return siae.ValidateNAF(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("auth_email", func(fl validator.FieldLevel) bool {
		email := fl.Field().String()
		return strings.Contains(email, "@") && !strings.ContainsAny(email, " \t")
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		row := sl.Current().Interface().(VueStructureRow)
		if siae.Siren(row.Siret) != siae.Siren(row.SiretSignature) {
			sl.ReportError(row.Siret, colSiret, "Siret", "same_siren", "")
		}
	}, VueStructureRow{})
	return v
}

// LoadVueStructure parses the semicolon separated export. The line after
// the header describes the columns and is skipped. Rows without technical
// email are dropped; any other invalid row aborts the whole load.
func LoadVueStructure(r io.Reader) (*VueStructure, error) {
	parser, err := csvimport.NewParser(r, csvimport.WithDelimiter(';'), csvimport.WithSkippedRows(1))
	if err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders(requiredColumns); len(missing) > 0 {
		return nil, fmt.Errorf("vue structure: missing columns %s", strings.Join(missing, ", "))
	}

	validate := newRowValidator()
	var rows []VueStructureRow
	for {
		raw, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if raw.IsEmpty() || raw.Get(colAuthEmail) == "" {
			continue
		}

		row, err := parseRow(raw)
		if err != nil {
			return nil, err
		}
		if err := validate.Struct(row); err != nil {
			return nil, rowValidationError(raw, err)
		}
		rows = append(rows, row)
	}

	return BuildVueStructure(rows)
}

func parseRow(raw *csvimport.Row) (VueStructureRow, error) {
	aspID, err := strconv.ParseInt(raw.Get(colAspID), 10, 64)
	if err != nil {
		return VueStructureRow{}, csvimport.NewRowErrorWithValue(raw.Line, colAspID,
			csvimport.ErrCodeInvalidFormat, "ASP id must be an integer", raw.Get(colAspID))
	}
	return VueStructureRow{
		Siret:          raw.Get(colSiret),
		SiretSignature: raw.Get(colSiretSignature),
		AspID:          aspID,
		AuthEmail:      raw.Get(colAuthEmail),
		Naf:            raw.Get(colNaf),
		Name:           raw.Get(colName),
		StreetNum:      raw.Get(colStreetNum),
		StreetNumExtra: raw.Get(colStreetNumExtra),
		StreetType:     raw.Get(colStreetType),
		StreetName:     raw.Get(colStreetName),
		PostCode:       raw.Get(colPostCode),
		City:           raw.Get(colCity),
		Phone:          raw.Get(colPhone),
	}, nil
}

func rowValidationError(raw *csvimport.Row, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return csvimport.NewRowError(raw.Line, "", csvimport.ErrCodeInvalidFormat, err.Error())
	}
	fe := fieldErrs[0]
	column := fe.Field()
	code := csvimport.ErrCodeInvalidFormat
	var message string
	switch fe.Tag() {
	case "siret":
		message = "invalid SIRET"
	case "naf":
		message = "invalid NAF code"
	case "auth_email":
		message = "invalid technical email"
	case "same_siren":
		code = csvimport.ErrCodeInconsistent
		message = "current SIRET and signature SIRET have different SIREN"
	default:
		message = "invalid value"
	}
	return csvimport.NewRowErrorWithValue(raw.Line, column, code, message, raw.Get(column))
}

// BuildVueStructure computes the lookups of already validated rows
func BuildVueStructure(rows []VueStructureRow) (*VueStructure, error) {
	vs := &VueStructure{
		Rows:                  rows,
		AspIDToRow:            make(map[int64]VueStructureRow, len(rows)),
		AspIDToSiretSignature: make(map[int64]string, len(rows)),
		SiretToAspID:          make(map[string]int64, 2*len(rows)),
	}
	for _, row := range rows {
		if _, dup := vs.AspIDToRow[row.AspID]; dup {
			return nil, fmt.Errorf("vue structure: duplicate ASP id %d", row.AspID)
		}
		vs.AspIDToRow[row.AspID] = row
		vs.AspIDToSiretSignature[row.AspID] = row.SiretSignature
	}
	for _, row := range rows {
		vs.SiretToAspID[row.Siret] = row.AspID
	}
	for _, row := range rows {
		if _, ok := vs.SiretToAspID[row.SiretSignature]; !ok {
			vs.SiretToAspID[row.SiretSignature] = row.AspID
		}
	}
	return vs, nil
}
