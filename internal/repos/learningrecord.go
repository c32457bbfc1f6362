package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

type LearningRecordRepo interface {
	CreateOrGet(ctx context.Context, tx *gorm.DB, row *types.LearningRecord) (*types.LearningRecord, bool, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) (*types.LearningRecord, error)
	ListDue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]*types.LearningRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.LearningRecord, error)
	ApplySessionResult(ctx context.Context, tx *gorm.DB, update *SessionResultUpdate) error
	DeleteByIDForUser(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) (int64, error)
}

// SessionResultUpdate carries one practice session's effect on a record.
// Counter fields are deltas applied with arithmetic UPDATEs; counters only
// ever accumulate.
type SessionResultUpdate struct {
	RecordID           uuid.UUID
	MasteryState       string
	NextReviewAt       time.Time
	LastReviewedAt     time.Time
	ExercisesCompleted int
	ExercisesCorrect   int
	PronunciationPlays int
}

type learningRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningRecordRepo(db *gorm.DB, baseLog *logger.Logger) LearningRecordRepo {
	return &learningRecordRepo{db: db, log: baseLog.With("repo", "LearningRecordRepo")}
}

func (r *learningRecordRepo) CreateOrGet(ctx context.Context, tx *gorm.DB, row *types.LearningRecord) (*types.LearningRecord, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.VocabularyID == uuid.Nil {
		return nil, false, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return getOrCreate(ctx, transaction, row,
		[]clause.Column{{Name: "user_id"}, {Name: "vocabulary_id"}},
		"user_id = ? AND vocabulary_id = ?", row.UserID, row.VocabularyID)
}

func (r *learningRecordRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) (*types.LearningRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var row types.LearningRecord
	err := transaction.WithContext(ctx).
		Preload("Vocabulary").
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *learningRecordRepo) ListDue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time, limit int) ([]*types.LearningRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LearningRecord
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Preload("Vocabulary").
		Where("user_id = ? AND next_review_at <= ?", userID, now).
		Order("next_review_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *learningRecordRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.LearningRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LearningRecord
	if userID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).
		Preload("Vocabulary").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *learningRecordRepo) ApplySessionResult(ctx context.Context, tx *gorm.DB, update *SessionResultUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if update == nil || update.RecordID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.LearningRecord{}).
		Where("id = ?", update.RecordID).
		UpdateColumns(map[string]interface{}{
			"mastery_state":       update.MasteryState,
			"next_review_at":      update.NextReviewAt,
			"last_reviewed_at":    update.LastReviewedAt,
			"review_count":        gorm.Expr("review_count + 1"),
			"exercises_completed": gorm.Expr("exercises_completed + ?", update.ExercisesCompleted),
			"exercises_correct":   gorm.Expr("exercises_correct + ?", update.ExercisesCorrect),
			"pronunciation_plays": gorm.Expr("pronunciation_plays + ?", update.PronunciationPlays),
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *learningRecordRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.LearningRecord{})
	return res.RowsAffected, res.Error
}
