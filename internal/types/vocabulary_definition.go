package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// VocabularyDefinition is the shared, deduplicated catalog row for one term.
// At most one row exists per normalized term; every learner reuses it.
type VocabularyDefinition struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	NormalizedTerm   string         `gorm:"column:normalized_term;not null;uniqueIndex" json:"normalized_term"`
	Term             string         `gorm:"column:term;not null" json:"term"`
	Definition       string         `gorm:"column:definition;not null" json:"definition"`
	Translation      string         `gorm:"column:translation" json:"translation"`
	Pronunciation    string         `gorm:"column:pronunciation" json:"pronunciation"`
	WordClass        string         `gorm:"column:word_class" json:"word_class"`
	Collocations     datatypes.JSON `gorm:"type:jsonb;column:collocations" json:"collocations,omitempty"`
	Synonyms         datatypes.JSON `gorm:"type:jsonb;column:synonyms" json:"synonyms,omitempty"`
	RelatedWords     datatypes.JSON `gorm:"type:jsonb;column:related_words" json:"related_words,omitempty"`
	UsageNotes       string         `gorm:"column:usage_notes" json:"usage_notes"`
	ExampleSentences datatypes.JSON `gorm:"type:jsonb;column:example_sentences" json:"example_sentences,omitempty"`
	Level            string         `gorm:"column:level" json:"level"`
	// TimesUsed counts resolve calls, including the creating one. Incremented
	// with an atomic UPDATE, never read-modify-write.
	TimesUsed        int            `gorm:"column:times_used;not null;default:1" json:"times_used"`
	Tags             []*VocabularyTag `gorm:"many2many:vocabulary_definition_tag;" json:"tags,omitempty"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (VocabularyDefinition) TableName() string { return "vocabulary_definition" }
