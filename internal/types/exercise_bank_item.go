package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ExerciseTypeMeaningCheck = "meaning_check"
	ExerciseTypeContextCheck = "context_check"
)

// ExerciseBankItem is a generated practice exercise cached for reuse across
// learners. A vocabulary item counts as cached once it has at least
// MinCachedExercises items.
type ExerciseBankItem struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	VocabularyID  uuid.UUID             `gorm:"type:uuid;not null;index:idx_vocabulary_exercise_type,unique" json:"vocabulary_id"`
	Vocabulary    *VocabularyDefinition `gorm:"constraint:OnDelete:CASCADE;foreignKey:VocabularyID;references:ID" json:"vocabulary,omitempty"`
	ExerciseType  string                `gorm:"column:exercise_type;not null;index:idx_vocabulary_exercise_type,unique" json:"exercise_type"`
	Question      string                `gorm:"column:question;not null" json:"question"`
	CorrectAnswer string                `gorm:"column:correct_answer;not null" json:"correct_answer"`
	// Exactly 4 options, exactly one of which equals CorrectAnswer.
	Options       datatypes.JSON        `gorm:"type:jsonb;column:options;not null" json:"options"`
	Explanation   string                `gorm:"column:explanation" json:"explanation"`
	Difficulty    string                `gorm:"column:difficulty" json:"difficulty"`
	TimesUsed     int                   `gorm:"column:times_used;not null;default:1" json:"times_used"`
	// SuccessRate is recomputed from the attempt log, never incrementally
	// patched in application code.
	SuccessRate   float64               `gorm:"column:success_rate;not null;default:0" json:"success_rate"`
	CreatedAt     time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"not null" json:"updated_at"`
}

// MinCachedExercises is the bank's cache threshold: fewer rows than this for
// a vocabulary item triggers regeneration.
const MinCachedExercises = 2

func (ExerciseBankItem) TableName() string { return "exercise_bank_item" }
