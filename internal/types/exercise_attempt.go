package types

import (
	"time"
	"github.com/google/uuid"
)

// ExerciseAttempt is an append-only log entry. Rows are never updated or
// deleted; per-exercise success rates are aggregated from this table.
type ExerciseAttempt struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LearningRecordID uuid.UUID         `gorm:"type:uuid;not null;index" json:"learning_record_id"`
	LearningRecord   *LearningRecord   `gorm:"constraint:OnDelete:CASCADE;foreignKey:LearningRecordID;references:ID" json:"learning_record,omitempty"`
	// Nil for fallback exercises, which have no bank row.
	ExerciseID       *uuid.UUID        `gorm:"type:uuid;index" json:"exercise_id,omitempty"`
	Exercise         *ExerciseBankItem `gorm:"foreignKey:ExerciseID;references:ID" json:"exercise,omitempty"`
	ExerciseType     string            `gorm:"column:exercise_type;not null" json:"exercise_type"`
	IsCorrect        bool              `gorm:"column:is_correct;not null" json:"is_correct"`
	TimeTakenSeconds int               `gorm:"column:time_taken_seconds;not null;default:0" json:"time_taken_seconds"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
}

func (ExerciseAttempt) TableName() string { return "exercise_attempt" }
