package services

import (
	"context"
)

// ContentGenerator is the boundary to the external LLM. Implementations are
// non-deterministic, slow and allowed to fail; callers own the fallback path
// and must never let a generator error surface to the learner.
type ContentGenerator interface {
	GenerateDefinition(ctx context.Context, term string, hints DefinitionHints) (*GeneratedDefinition, error)
	GenerateExercises(ctx context.Context, term, definition, example string) ([]GeneratedExercise, error)
	ModelName() string
}

// DefinitionHints is whatever context the caller already has about the term.
// All fields optional; they seed the prompt and the fallback definition.
type DefinitionHints struct {
	SentenceContext string
	WordClass       string
	Definition      string
	Translation     string
	Level           string
}

type GeneratedDefinition struct {
	Definition       string   `json:"definition"`
	Translation      string   `json:"translation"`
	Pronunciation    string   `json:"pronunciation"`
	WordClass        string   `json:"word_class"`
	Collocations     []string `json:"collocations"`
	Synonyms         []string `json:"synonyms"`
	RelatedWords     []string `json:"related_words"`
	UsageNotes       string   `json:"usage_notes"`
	ExampleSentences []string `json:"example_sentences"`
}

type GeneratedExercise struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options"`
	Explanation   string   `json:"explanation"`
}

// ValidExercise checks the draft invariant: a known type, a question, and
// exactly 4 options of which exactly one equals the correct answer.
func ValidExercise(ex GeneratedExercise) bool {
	if ex.Question == "" || ex.CorrectAnswer == "" {
		return false
	}
	if len(ex.Options) != 4 {
		return false
	}
	matches := 0
	for _, opt := range ex.Options {
		if opt == ex.CorrectAnswer {
			matches++
		}
	}
	return matches == 1
}
