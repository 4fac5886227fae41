package postgres

import (
	"errors"
	"fmt"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"gorm.io/gorm"
)

// translate maps gorm errors onto domain sentinels, keeping the original in the chain.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, errorz.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, errorz.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
