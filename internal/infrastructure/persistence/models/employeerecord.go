package models

import (
	"encoding/json"
	"fmt"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/shared"
)

// EmployeeRecordModel is the persistence model for employee records.
// At most one row per job application may have a status other than
// DISABLED; the partial unique index lives in the migrations.
type EmployeeRecordModel struct {
	BaseModel
	JobApplicationID     int64                 `gorm:"not null;index"`
	SiaeID               int64                 `gorm:"not null;index"`
	Siret                string                `gorm:"type:varchar(14);not null"`
	AspID                *int64                `gorm:"column:asp_id"`
	ApprovalNumber       string                `gorm:"type:varchar(12);not null"`
	FinancialAnnexNumber string                `gorm:"type:varchar(17)"`
	AssetProperty        string                `gorm:"type:varchar(10)"`
	Status               employeerecord.Status `gorm:"type:varchar(10);not null;index"`
	BatchFile            *string               `gorm:"column:asp_batch_file;type:varchar(27)"`
	BatchLine            *int                  `gorm:"column:asp_batch_line"`
	ProcessingCode       string                `gorm:"column:asp_processing_code;type:text"`
	ProcessingLabel      string                `gorm:"column:asp_processing_label;type:text"`
	ArchivedJSON         *string               `gorm:"column:archived_json;type:jsonb"`
	PayloadJSON          string                `gorm:"column:payload;type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (EmployeeRecordModel) TableName() string {
	return "employee_records"
}

// ToDomain converts the persistence model to a domain EmployeeRecord
func (m *EmployeeRecordModel) ToDomain() (*employeerecord.EmployeeRecord, error) {
	r := &employeerecord.EmployeeRecord{
		BaseAggregateRoot:    shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		JobApplicationID:     m.JobApplicationID,
		SiaeID:               m.SiaeID,
		Siret:                m.Siret,
		AspID:                m.AspID,
		ApprovalNumber:       m.ApprovalNumber,
		FinancialAnnexNumber: m.FinancialAnnexNumber,
		AssetProperty:        m.AssetProperty,
		Status:               m.Status,
		ProcessingCode:       m.ProcessingCode,
		ProcessingLabel:      m.ProcessingLabel,
	}
	if m.ArchivedJSON != nil {
		r.ArchivedJSON = *m.ArchivedJSON
	}
	if m.BatchFile != nil {
		r.BatchFile = *m.BatchFile
	}
	if m.BatchLine != nil {
		r.BatchLine = *m.BatchLine
	}
	if m.PayloadJSON != "" {
		if err := json.Unmarshal([]byte(m.PayloadJSON), &r.Payload); err != nil {
			return nil, fmt.Errorf("decode employee record %d payload: %w", m.ID, err)
		}
	}
	return r, nil
}

// EmployeeRecordModelFromDomain creates a persistence model from a domain EmployeeRecord.
// Empty batch fields are stored as NULL so that the (file, line) unique
// index only applies to sent records.
func EmployeeRecordModelFromDomain(r *employeerecord.EmployeeRecord) (*EmployeeRecordModel, error) {
	payload, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode employee record payload: %w", err)
	}
	m := &EmployeeRecordModel{
		JobApplicationID:     r.JobApplicationID,
		SiaeID:               r.SiaeID,
		Siret:                r.Siret,
		AspID:                r.AspID,
		ApprovalNumber:       r.ApprovalNumber,
		FinancialAnnexNumber: r.FinancialAnnexNumber,
		AssetProperty:        r.AssetProperty,
		Status:               r.Status,
		ProcessingCode:       r.ProcessingCode,
		ProcessingLabel:      r.ProcessingLabel,
		PayloadJSON:          string(payload),
	}
	if r.BatchFile != "" {
		file := r.BatchFile
		m.BatchFile = &file
	}
	if r.ArchivedJSON != "" {
		archived := r.ArchivedJSON
		m.ArchivedJSON = &archived
	}
	if r.BatchLine != 0 {
		line := r.BatchLine
		m.BatchLine = &line
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m, nil
}
