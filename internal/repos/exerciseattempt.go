package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

// ExerciseAttemptRepo only appends. No update or delete methods exist on
// purpose: the attempt table is an order-sensitive log.
type ExerciseAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ExerciseAttempt) (*types.ExerciseAttempt, error)
	ListByLearningRecordID(ctx context.Context, tx *gorm.DB, learningRecordID uuid.UUID) ([]*types.ExerciseAttempt, error)
}

type exerciseAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseAttemptRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseAttemptRepo {
	return &exerciseAttemptRepo{db: db, log: baseLog.With("repo", "ExerciseAttemptRepo")}
}

func (r *exerciseAttemptRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ExerciseAttempt) (*types.ExerciseAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *exerciseAttemptRepo) ListByLearningRecordID(ctx context.Context, tx *gorm.DB, learningRecordID uuid.UUID) ([]*types.ExerciseAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ExerciseAttempt
	if learningRecordID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("learning_record_id = ?", learningRecordID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
