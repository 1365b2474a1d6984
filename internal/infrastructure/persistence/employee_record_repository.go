package persistence

import (
	"context"
	"fmt"

	"github.com/itou/backend/internal/domain/employeerecord"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEmployeeRecordRepository implements employeerecord.Repository using GORM
type GormEmployeeRecordRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRecordRepository creates a new GormEmployeeRecordRepository
func NewGormEmployeeRecordRepository(db *gorm.DB) *GormEmployeeRecordRepository {
	return &GormEmployeeRecordRepository{db: db}
}

// Create stores a new record. The partial unique index on
// job_application_id turns a second active claim into ErrAlreadyExists.
func (r *GormEmployeeRecordRepository) Create(ctx context.Context, rec *employeerecord.EmployeeRecord) error {
	model, err := models.EmployeeRecordModelFromDomain(rec)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	rec.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds a record by ID
func (r *GormEmployeeRecordRepository) FindByID(ctx context.Context, id int64) (*employeerecord.EmployeeRecord, error) {
	var model models.EmployeeRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

// Transition loads the record with SELECT ... FOR UPDATE, applies fn and
// saves the result before the lock is released.
func (r *GormEmployeeRecordRepository) Transition(ctx context.Context, id int64, fn func(rec *employeerecord.EmployeeRecord) error) (*employeerecord.EmployeeRecord, error) {
	var rec *employeerecord.EmployeeRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.EmployeeRecordModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&model, "id = ?", id).Error; err != nil {
			return translateError(err)
		}

		loaded, err := model.ToDomain()
		if err != nil {
			return err
		}
		if err := fn(loaded); err != nil {
			return err
		}

		if err := save(tx, loaded); err != nil {
			return err
		}
		rec = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List lists records of the filter structures, most recent first
func (r *GormEmployeeRecordRepository) List(ctx context.Context, filter employeerecord.ListFilter) ([]employeerecord.EmployeeRecord, int64, error) {
	if len(filter.SiaeIDs) == 0 {
		return []employeerecord.EmployeeRecord{}, 0, nil
	}

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("siae_id IN ?", filter.SiaeIDs)
		if filter.Status != nil {
			db = db.Where("status = ?", string(*filter.Status))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeRecordModel{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EmployeeRecordModel
	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").Order("id DESC").
		Offset(filter.Page.Offset()).
		Limit(filter.Page.Size).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records, err := toDomainRecords(rows)
	return records, total, err
}

// FindReady returns up to limit READY records, oldest first
func (r *GormEmployeeRecordRepository) FindReady(ctx context.Context, limit int) ([]employeerecord.EmployeeRecord, error) {
	var rows []models.EmployeeRecordModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(employeerecord.StatusReady)).
		Order("updated_at").Order("id").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(rows)
}

// FindByBatchFile returns the records sent in an export file, by line
func (r *GormEmployeeRecordRepository) FindByBatchFile(ctx context.Context, filename string) ([]employeerecord.EmployeeRecord, error) {
	var rows []models.EmployeeRecordModel
	if err := r.db.WithContext(ctx).
		Where("asp_batch_file = ?", filename).
		Order("asp_batch_line").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRecords(rows)
}

// SaveAll saves several records in one transaction
func (r *GormEmployeeRecordRepository) SaveAll(ctx context.Context, records []*employeerecord.EmployeeRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := save(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func save(tx *gorm.DB, rec *employeerecord.EmployeeRecord) error {
	model, err := models.EmployeeRecordModelFromDomain(rec)
	if err != nil {
		return err
	}
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("save employee record %d: %w", rec.ID, translateError(result.Error))
	}
	return nil
}

func toDomainRecords(rows []models.EmployeeRecordModel) ([]employeerecord.EmployeeRecord, error) {
	records := make([]employeerecord.EmployeeRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, nil
}
