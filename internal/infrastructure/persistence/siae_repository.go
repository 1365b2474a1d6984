package persistence

import (
	"context"

	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/domain/siae"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSiaeRepository implements siae.SiaeRepository using GORM and PostGIS
type GormSiaeRepository struct {
	db *gorm.DB
}

// NewGormSiaeRepository creates a new GormSiaeRepository
func NewGormSiaeRepository(db *gorm.DB) *GormSiaeRepository {
	return &GormSiaeRepository{db: db}
}

// FindByID finds a structure by ID
func (r *GormSiaeRepository) FindByID(ctx context.Context, id int64) (*siae.Siae, error) {
	var model models.SiaeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindWithoutAspID lists structures of ASP managed kinds not linked to the ASP yet
func (r *GormSiaeRepository) FindWithoutAspID(ctx context.Context) ([]siae.Siae, error) {
	var rows []models.SiaeModel
	if err := r.db.WithContext(ctx).
		Where("asp_id IS NULL AND kind IN ?", aspManagedKinds()).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]siae.Siae, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Update updates a structure
func (r *GormSiaeRepository) Update(ctx context.Context, s *siae.Siae) error {
	result := r.db.WithContext(ctx).Save(models.SiaeModelFromDomain(s))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Within returns geocoded structures within RadiusKm of the center, nearest
// first. Distances are annotated with the haversine distance.
func (r *GormSiaeRepository) Within(ctx context.Context, filter siae.SearchFilter) ([]siae.LocatedSiae, error) {
	center := "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography"
	query := r.db.WithContext(ctx).
		Model(&models.SiaeModel{}).
		Where("coords IS NOT NULL").
		Where("ST_DWithin(coords, "+center+", ?)", filter.Center.Lon, filter.Center.Lat, filter.RadiusKm*1000)

	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, k := range filter.Kinds {
			kinds[i] = string(k)
		}
		query = query.Where("kind IN ?", kinds)
	}
	if len(filter.Departments) > 0 {
		query = query.Where("department IN ?", filter.Departments)
	}
	if len(filter.PostCodes) > 0 {
		query = query.Where("post_code IN ?", filter.PostCodes)
	}

	var rows []models.SiaeModel
	if err := query.
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ST_Distance(coords, " + center + "), id",
			Vars:               []any{filter.Center.Lon, filter.Center.Lat},
			WithoutParentheses: true,
		}}).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]siae.LocatedSiae, 0, len(rows))
	for i := range rows {
		s := rows[i].ToDomain()
		located := siae.LocatedSiae{Siae: *s}
		if s.Coords != nil {
			located.DistanceKm = filter.Center.DistanceKm(*s.Coords)
		}
		result = append(result, located)
	}
	return result, nil
}

// DistinctCities lists one structure per (city, department) pair
func (r *GormSiaeRepository) DistinctCities(ctx context.Context) ([]siae.CityDepartment, error) {
	var rows []siae.CityDepartment
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (city, department) city, department, siret, name
		FROM siaes
		WHERE city <> '' AND department <> ''
		ORDER BY city, department, id`).
		Scan(&rows).Error
	return rows, err
}

func aspManagedKinds() []string {
	return []string{
		string(siae.KindEI), string(siae.KindAI), string(siae.KindACI),
		string(siae.KindETTI), string(siae.KindEITI),
	}
}

// GormMembershipRepository implements siae.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// ActiveSiaeIDs returns the structures where the user holds an active membership
func (r *GormMembershipRepository) ActiveSiaeIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&models.SiaeMembershipModel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("siae_id").
		Pluck("siae_id", &ids).Error
	return ids, err
}

// AdminUserIDs returns the active administrators of a structure
func (r *GormMembershipRepository) AdminUserIDs(ctx context.Context, siaeID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&models.SiaeMembershipModel{}).
		Where("siae_id = ? AND is_admin = ? AND is_active = ?", siaeID, true, true).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Create stores a membership
func (r *GormMembershipRepository) Create(ctx context.Context, m *siae.Membership) error {
	model := models.SiaeMembershipModelFromDomain(m)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	m.ID = model.ID
	return nil
}

// GormConventionRepository implements siae.ConventionRepository using GORM
type GormConventionRepository struct {
	db *gorm.DB
}

// NewGormConventionRepository creates a new GormConventionRepository
func NewGormConventionRepository(db *gorm.DB) *GormConventionRepository {
	return &GormConventionRepository{db: db}
}

// FindByID finds a convention by ID
func (r *GormConventionRepository) FindByID(ctx context.Context, id int64) (*siae.Convention, error) {
	var model models.ConventionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAnnexes lists the financial annexes of a convention, latest start first
func (r *GormConventionRepository) FindAnnexes(ctx context.Context, conventionID int64) ([]siae.FinancialAnnex, error) {
	var rows []models.FinancialAnnexModel
	if err := r.db.WithContext(ctx).
		Where("convention_id = ?", conventionID).
		Order("start_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	annexes := make([]siae.FinancialAnnex, len(rows))
	for i := range rows {
		annexes[i] = rows[i].ToDomain()
	}
	return annexes, nil
}

// FindAll lists every convention
func (r *GormConventionRepository) FindAll(ctx context.Context) ([]siae.Convention, error) {
	var rows []models.ConventionModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]siae.Convention, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Update updates a convention
func (r *GormConventionRepository) Update(ctx context.Context, c *siae.Convention) error {
	result := r.db.WithContext(ctx).Save(models.ConventionModelFromDomain(c))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
