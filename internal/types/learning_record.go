package types

import (
	"time"
	"github.com/google/uuid"
)

// LearningRecord is one learner's personal progress on one vocabulary item
// ("saved vocabulary"). Unique per (user, vocabulary); a second save resolves
// to the existing row instead of erroring.
type LearningRecord struct {
	ID                 uuid.UUID             `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID             `gorm:"type:uuid;not null;index:idx_user_vocabulary,unique" json:"user_id"`
	User               *User                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	VocabularyID       uuid.UUID             `gorm:"type:uuid;not null;index:idx_user_vocabulary,unique" json:"vocabulary_id"`
	Vocabulary         *VocabularyDefinition `gorm:"constraint:OnDelete:CASCADE;foreignKey:VocabularyID;references:ID" json:"vocabulary,omitempty"`
	MasteryState       string                `gorm:"column:mastery_state;not null;default:'new'" json:"mastery_state"`
	NextReviewAt       time.Time             `gorm:"column:next_review_at;not null;index" json:"next_review_at"`
	LastReviewedAt     *time.Time            `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	ReviewCount        int                   `gorm:"column:review_count;not null;default:0" json:"review_count"`
	ExercisesCompleted int                   `gorm:"column:exercises_completed;not null;default:0" json:"exercises_completed"`
	ExercisesCorrect   int                   `gorm:"column:exercises_correct;not null;default:0" json:"exercises_correct"`
	PronunciationPlays int                   `gorm:"column:pronunciation_plays;not null;default:0" json:"pronunciation_plays"`
	// Which activity produced the save (essay correction, reading, manual).
	SourceType         string                `gorm:"column:source_type" json:"source_type"`
	SourceRef          string                `gorm:"column:source_ref" json:"source_ref"`
	ExampleSentence    string                `gorm:"column:example_sentence" json:"example_sentence"`
	CreatedAt          time.Time             `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time             `gorm:"not null" json:"updated_at"`
}

func (LearningRecord) TableName() string { return "learning_record" }
