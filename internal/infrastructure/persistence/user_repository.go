package persistence

import (
	"context"
	"strings"

	"github.com/itou/backend/internal/domain/identity"
	"github.com/itou/backend/internal/domain/shared"
	"github.com/itou/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// Update updates an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	result := r.db.WithContext(ctx).Save(models.UserModelFromDomain(user))
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByLogin finds a user by username or email, case-insensitively
func (r *GormUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" {
		return nil, shared.ErrNotFound
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(username) = ? OR LOWER(email) = ?", login, login).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds users by IDs
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []int64) ([]identity.User, error) {
	if len(ids) == 0 {
		return []identity.User{}, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

// GormTokenRepository implements identity.TokenRepository using GORM
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GormTokenRepository
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// FindByKey finds a token by key
func (r *GormTokenRepository) FindByKey(ctx context.Context, key string) (*identity.APIToken, error) {
	if key == "" {
		return nil, shared.ErrNotFound
	}
	var model models.TokenModel
	if err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the token owned by a user
func (r *GormTokenRepository) FindByUserID(ctx context.Context, userID int64) (*identity.APIToken, error) {
	var model models.TokenModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create stores a token. A second token for the same user fails with
// shared.ErrAlreadyExists.
func (r *GormTokenRepository) Create(ctx context.Context, token *identity.APIToken) error {
	return translateError(r.db.WithContext(ctx).Create(models.TokenModelFromDomain(token)).Error)
}
