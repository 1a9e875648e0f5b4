package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/tallyboard/tallyboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter column names.
const (
	columnGreen  = "green_count"
	columnYellow = "yellow_count"
)

// IncrementGreen atomically adds one to the user's green counter and returns
// the new value.
func (s *Store) IncrementGreen(ctx context.Context, userID uint64) (uint64, error) {
	return s.increment(ctx, userID, columnGreen)
}

// IncrementYellow atomically adds one to the user's yellow counter and
// returns the new value.
func (s *Store) IncrementYellow(ctx context.Context, userID uint64) (uint64, error) {
	return s.increment(ctx, userID, columnYellow)
}

// increment applies a single-statement increment and reads the new value back
// through a RETURNING clause. There is no read-modify-write window, so
// concurrent increments for the same user are never lost.
func (s *Store) increment(ctx context.Context, userID uint64, column string) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("store: not initialized")
	}

	user := models.User{ID: userID}
	result := s.db.WithContext(ctx).
		Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: column}}}).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("store: increment %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	if column == columnGreen {
		return user.GreenCount, nil
	}
	return user.YellowCount, nil
}

// ResetCounts atomically sets both counters to zero in a single statement, so
// concurrent readers see either the old pair or (0, 0), never a mix.
func (s *Store) ResetCounts(ctx context.Context, userID uint64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store: not initialized")
	}

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]any{
			columnGreen:  0,
			columnYellow: 0,
		})
	if result.Error != nil {
		return fmt.Errorf("store: reset counters: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCounts returns the user's current counter values.
func (s *Store) GetCounts(ctx context.Context, userID uint64) (uint64, uint64, error) {
	if s == nil || s.db == nil {
		return 0, 0, fmt.Errorf("store: not initialized")
	}

	var user models.User
	errFind := s.db.WithContext(ctx).Select(columnGreen, columnYellow).First(&user, userID).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, fmt.Errorf("store: get counters: %w", errFind)
	}
	return user.GreenCount, user.YellowCount, nil
}
