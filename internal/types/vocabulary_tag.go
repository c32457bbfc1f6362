package types

import (
	"time"
	"github.com/google/uuid"
)

type VocabularyTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (VocabularyTag) TableName() string { return "vocabulary_tag" }
