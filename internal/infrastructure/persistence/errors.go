package persistence

import (
	"errors"

	"github.com/itou/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}
