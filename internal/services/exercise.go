package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	apperrors "github.com/yungbote/lingobridge-backend/internal/pkg/errors"
	"github.com/yungbote/lingobridge-backend/internal/repos"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

const (
	// ExerciseSourceDatabase marks exercises served from the shared bank.
	ExerciseSourceDatabase = "database"
	// ExerciseSourceGenerated marks exercises produced during this call,
	// whether by the generator or by the deterministic fallback.
	ExerciseSourceGenerated = "ai_generated"
)

type AttemptInput struct {
	LearningRecordID uuid.UUID
	ExerciseID       *uuid.UUID
	ExerciseType     string
	IsCorrect        bool
	TimeTakenSeconds int
}

type ExerciseService interface {
	// ResolveExercises serves the practice exercises for one vocabulary item,
	// preferring the shared bank and generating (or synthesizing) on a miss.
	// The second return value is the source tag for the client.
	ResolveExercises(ctx context.Context, userID, vocabularyID uuid.UUID, term, definition, example string) ([]*types.ExerciseBankItem, string, error)
	// RecordAttempt appends to the attempt log and refreshes the referenced
	// exercise's success rate from that log.
	RecordAttempt(ctx context.Context, userID uuid.UUID, in *AttemptInput) error
}

type exerciseService struct {
	db          *gorm.DB
	log         *logger.Logger
	bankRepo    repos.ExerciseBankRepo
	attemptRepo repos.ExerciseAttemptRepo
	recordRepo  repos.LearningRecordRepo
	aiLogRepo   repos.AICallLogRepo
	generator   ContentGenerator
}

func NewExerciseService(db *gorm.DB, log *logger.Logger, bankRepo repos.ExerciseBankRepo, attemptRepo repos.ExerciseAttemptRepo, recordRepo repos.LearningRecordRepo, aiLogRepo repos.AICallLogRepo, generator ContentGenerator) ExerciseService {
	return &exerciseService{
		db:          db,
		log:         log.With("service", "ExerciseService"),
		bankRepo:    bankRepo,
		attemptRepo: attemptRepo,
		recordRepo:  recordRepo,
		aiLogRepo:   aiLogRepo,
		generator:   generator,
	}
}

func (s *exerciseService) ResolveExercises(ctx context.Context, userID, vocabularyID uuid.UUID, term, definition, example string) ([]*types.ExerciseBankItem, string, error) {
	if vocabularyID == uuid.Nil {
		return nil, "", fmt.Errorf("%w: vocabulary id is required", apperrors.ErrInvalidArgument)
	}

	existing, err := s.bankRepo.ListByVocabularyID(ctx, nil, vocabularyID)
	if err != nil {
		return nil, "", err
	}
	if len(existing) >= types.MinCachedExercises {
		ids := make([]uuid.UUID, 0, len(existing))
		for _, item := range existing {
			ids = append(ids, item.ID)
		}
		if err := s.bankRepo.IncrementUsage(ctx, nil, ids); err != nil {
			return nil, "", err
		}
		for _, item := range existing {
			item.TimesUsed++
		}
		return existing, ExerciseSourceDatabase, nil
	}

	started := time.Now()
	drafts, genErr := s.generator.GenerateExercises(ctx, term, definition, example)
	s.logAICall(ctx, userID, vocabularyID, "generate_exercises", started, genErr)

	if genErr != nil {
		s.log.Warn("Exercise generation failed, serving fallback exercises",
			"vocabulary_id", vocabularyID, "term", term, "error", genErr)
		return fallbackExercises(vocabularyID, term, definition, example), ExerciseSourceGenerated, nil
	}

	rows := make([]*types.ExerciseBankItem, 0, len(drafts))
	for _, draft := range drafts {
		rows = append(rows, &types.ExerciseBankItem{
			VocabularyID:  vocabularyID,
			ExerciseType:  draft.Type,
			Question:      draft.Question,
			CorrectAnswer: draft.CorrectAnswer,
			Options:       jsonStrings(draft.Options),
			Explanation:   draft.Explanation,
		})
	}
	if _, err := s.bankRepo.CreateBatch(ctx, nil, rows); err != nil {
		return nil, "", err
	}
	// Re-read so a lost insert race still hands out the canonical rows.
	stored, err := s.bankRepo.ListByVocabularyID(ctx, nil, vocabularyID)
	if err != nil {
		return nil, "", err
	}
	return stored, ExerciseSourceGenerated, nil
}

func (s *exerciseService) RecordAttempt(ctx context.Context, userID uuid.UUID, in *AttemptInput) error {
	if in == nil || in.LearningRecordID == uuid.Nil {
		return fmt.Errorf("%w: learning record id is required", apperrors.ErrInvalidArgument)
	}

	record, err := s.recordRepo.GetByIDForUser(ctx, nil, in.LearningRecordID, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return apperrors.ErrNotFound
	}

	attempt := &types.ExerciseAttempt{
		UserID:           userID,
		LearningRecordID: record.ID,
		ExerciseID:       in.ExerciseID,
		ExerciseType:     in.ExerciseType,
		IsCorrect:        in.IsCorrect,
		TimeTakenSeconds: in.TimeTakenSeconds,
	}
	if _, err := s.attemptRepo.Create(ctx, nil, attempt); err != nil {
		return err
	}

	if in.ExerciseID != nil && *in.ExerciseID != uuid.Nil {
		if err := s.bankRepo.RecomputeSuccessRate(ctx, nil, *in.ExerciseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *exerciseService) logAICall(ctx context.Context, userID, vocabularyID uuid.UUID, callType string, started time.Time, callErr error) {
	row := &types.AICallLog{
		CallType:   callType,
		Model:      s.generator.ModelName(),
		DurationMS: time.Since(started).Milliseconds(),
		Success:    callErr == nil,
	}
	if userID != uuid.Nil {
		row.UserID = &userID
	}
	if vocabularyID != uuid.Nil {
		row.VocabularyID = &vocabularyID
	}
	if callErr != nil {
		row.Error = callErr.Error()
	}
	if err := s.aiLogRepo.Create(ctx, nil, row); err != nil {
		s.log.Warn("AI call log write failed", "call_type", callType, "error", err)
	}
}

// fallbackExercises synthesizes two deterministic exercises from content we
// already hold, so practice keeps working while the generator is down. They
// carry no ID and are never written to the bank: without a real generator
// behind them they are not worth reusing.
func fallbackExercises(vocabularyID uuid.UUID, term, definition, example string) []*types.ExerciseBankItem {
	if term == "" {
		term = "word"
	}
	if definition == "" {
		definition = fmt.Sprintf("The meaning of %q.", term)
	}

	meaning := &types.ExerciseBankItem{
		VocabularyID:  vocabularyID,
		ExerciseType:  types.ExerciseTypeMeaningCheck,
		Question:      fmt.Sprintf("What does %q mean?", term),
		CorrectAnswer: definition,
		Options: jsonStrings([]string{
			definition,
			fmt.Sprintf("The opposite of %q.", term),
			fmt.Sprintf("A formal synonym for %q with a negative tone.", term),
			fmt.Sprintf("An outdated spelling of %q.", term),
		}),
		Explanation: fmt.Sprintf("%q means: %s", term, definition),
		TimesUsed:   1,
	}

	sentence := example
	if sentence == "" || !strings.Contains(strings.ToLower(sentence), strings.ToLower(term)) {
		sentence = fmt.Sprintf("I learned the word %s today.", term)
	}
	blanked := blankOutTerm(sentence, term)

	context := &types.ExerciseBankItem{
		VocabularyID:  vocabularyID,
		ExerciseType:  types.ExerciseTypeContextCheck,
		Question:      fmt.Sprintf("Fill in the blank: %s", blanked),
		CorrectAnswer: term,
		Options: jsonStrings([]string{
			term,
			term + "s",
			"un" + term,
			strings.ToUpper(term[:1]) + term[1:] + "ly",
		}),
		Explanation: fmt.Sprintf("The sentence uses %q: %s", term, sentence),
		TimesUsed:   1,
	}

	return []*types.ExerciseBankItem{meaning, context}
}

// blankOutTerm replaces the first case-insensitive occurrence of term.
func blankOutTerm(sentence, term string) string {
	lower := strings.ToLower(sentence)
	idx := strings.Index(lower, strings.ToLower(term))
	if idx < 0 {
		return sentence + " _____"
	}
	return sentence[:idx] + "_____" + sentence[idx+len(term):]
}
