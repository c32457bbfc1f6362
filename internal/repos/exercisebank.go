package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

type ExerciseBankRepo interface {
	ListByVocabularyID(ctx context.Context, tx *gorm.DB, vocabularyID uuid.UUID) ([]*types.ExerciseBankItem, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ExerciseBankItem) ([]*types.ExerciseBankItem, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	RecomputeSuccessRate(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID) error
}

type exerciseBankRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExerciseBankRepo(db *gorm.DB, baseLog *logger.Logger) ExerciseBankRepo {
	return &exerciseBankRepo{db: db, log: baseLog.With("repo", "ExerciseBankRepo")}
}

func (r *exerciseBankRepo) ListByVocabularyID(ctx context.Context, tx *gorm.DB, vocabularyID uuid.UUID) ([]*types.ExerciseBankItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ExerciseBankItem
	if vocabularyID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("vocabulary_id = ?", vocabularyID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *exerciseBankRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ExerciseBankItem) ([]*types.ExerciseBankItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.ExerciseBankItem{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.TimesUsed == 0 {
			row.TimesUsed = 1
		}
	}
	// Concurrent first-time generators race on (vocabulary_id, exercise_type);
	// the unique index decides the winner and losers keep the stored rows.
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "vocabulary_id"}, {Name: "exercise_type"}},
			DoNothing: true,
		}).
		Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *exerciseBankRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ExerciseBankItem{}).
		Where("id IN ?", ids).
		UpdateColumn("times_used", gorm.Expr("times_used + 1")).Error
}

// RecomputeSuccessRate derives the rate from the full attempt log instead of
// patching a cached scalar, so concurrent attempts from different learners
// cannot corrupt it.
func (r *exerciseBankRepo) RecomputeSuccessRate(ctx context.Context, tx *gorm.DB, exerciseID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if exerciseID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Exec(`
		UPDATE exercise_bank_item
		SET success_rate = COALESCE((
			SELECT AVG(CASE WHEN is_correct THEN 1.0 ELSE 0.0 END)
			FROM exercise_attempt
			WHERE exercise_attempt.exercise_id = ?
		), 0)
		WHERE id = ?`, exerciseID, exerciseID).Error
}
