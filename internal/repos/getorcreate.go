package repos

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// getOrCreate is the one check-then-create primitive shared by the catalog,
// the exercise bank and the learning records. It leans on a storage-level
// unique constraint: the insert runs with ON CONFLICT DO NOTHING, and a
// losing insert resolves to the already-existing row instead of an error.
//
// Returns the stored row and whether this call created it.
func getOrCreate[T any](ctx context.Context, tx *gorm.DB, row *T, conflictCols []clause.Column, where string, args ...interface{}) (*T, bool, error) {
	res := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: conflictCols, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return row, true, nil
	}

	// Lost the race (or the row predates us): read the winner.
	var existing T
	if err := tx.WithContext(ctx).Where(where, args...).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("conflict row lookup failed: %w", err)
	}
	return &existing, false, nil
}
