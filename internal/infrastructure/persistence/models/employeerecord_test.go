package models

import (
	"sync"
	"testing"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestEmployeeRecordModel_ProcessingColumnsAreUnbounded(t *testing.T) {
	s, err := schema.Parse(&EmployeeRecordModel{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, name := range []string{"ProcessingCode", "ProcessingLabel"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.Equal(t, schema.DataType("text"), field.DataType, name)
		assert.Zero(t, field.Size, name)
	}
}

func TestEmployeeRecordModelFromDomain(t *testing.T) {
	t.Run("stores unsent batch fields as NULL", func(t *testing.T) {
		r := &employeerecord.EmployeeRecord{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			JobApplicationID:  7,
			SiaeID:            3,
			ApprovalNumber:    "999990000001",
			Status:            employeerecord.StatusReady,
		}

		m, err := EmployeeRecordModelFromDomain(r)
		require.NoError(t, err)
		assert.Nil(t, m.BatchFile)
		assert.Nil(t, m.BatchLine)
		assert.Nil(t, m.ArchivedJSON)
		assert.NotEmpty(t, m.PayloadJSON)
	})

	t.Run("keeps the batch position and agency reply", func(t *testing.T) {
		r := &employeerecord.EmployeeRecord{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			Status:            employeerecord.StatusProcessed,
			BatchFile:         "RIAE_FS_20210510130000.json",
			BatchLine:         12,
			ProcessingCode:    "0000",
			ProcessingLabel:   "La ligne de la fiche salarié a été enregistrée avec succès.",
			ArchivedJSON:      `{"numLigne":12}`,
		}
		r.ID = 41

		m, err := EmployeeRecordModelFromDomain(r)
		require.NoError(t, err)
		require.NotNil(t, m.BatchFile)
		require.NotNil(t, m.BatchLine)
		assert.Equal(t, "RIAE_FS_20210510130000.json", *m.BatchFile)
		assert.Equal(t, 12, *m.BatchLine)
		assert.Equal(t, int64(41), m.ID)

		back, err := m.ToDomain()
		require.NoError(t, err)
		assert.Equal(t, r.BatchFile, back.BatchFile)
		assert.Equal(t, r.BatchLine, back.BatchLine)
		assert.Equal(t, r.ProcessingLabel, back.ProcessingLabel)
		assert.Equal(t, r.ArchivedJSON, back.ArchivedJSON)
		assert.Empty(t, back.GetDomainEvents())
	})
}

func TestEmployeeRecordModel_ToDomain_CorruptPayload(t *testing.T) {
	m := &EmployeeRecordModel{BaseModel: BaseModel{ID: 5}, PayloadJSON: "{not json"}

	_, err := m.ToDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee record 5 payload")
}

func TestCoordinates(t *testing.T) {
	assert.Nil(t, Coordinates{}.ToDomain())

	lon := -2.4747713
	assert.Nil(t, Coordinates{Longitude: &lon}.ToDomain())

	p := CoordinatesFromDomain(Coordinates{Longitude: &lon, Latitude: &lon}.ToDomain())
	require.NotNil(t, p.Latitude)
	assert.Equal(t, lon, *p.Latitude)
	assert.Equal(t, Coordinates{}, CoordinatesFromDomain(nil))
}
