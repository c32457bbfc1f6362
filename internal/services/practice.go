package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lingobridge-backend/internal/logger"
	"github.com/yungbote/lingobridge-backend/internal/mastery"
	apperrors "github.com/yungbote/lingobridge-backend/internal/pkg/errors"
	"github.com/yungbote/lingobridge-backend/internal/repos"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

type SaveVocabularyInput struct {
	Term            string
	WordClass       string
	Original        string
	ExampleSentence string
	SourceType      string
	SourceRef       string
	Definition      string
	Translation     string
	Explanation     string
	Tags            []string
	Level           string
}

type SessionResultInput struct {
	LearningRecordID    uuid.UUID
	ExercisesCompleted  int
	ExercisesCorrect    int
	PronunciationPlayed bool
}

type SessionResultOutcome struct {
	MasteryState       string    `json:"mastery_state"`
	NextReviewAt       time.Time `json:"next_review_at"`
	SuccessRatePercent int       `json:"success_rate_percent"`
}

type PracticeService interface {
	// SaveVocabulary resolves the shared definition and creates the caller's
	// learning record for it. Saving a term twice is a no-op; the bool return
	// reports whether this call created the record.
	SaveVocabulary(ctx context.Context, userID uuid.UUID, in *SaveVocabularyInput) (*types.LearningRecord, bool, error)
	ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*types.LearningRecord, error)
	ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.LearningRecord, error)
	// SubmitSessionResult applies one completed practice session through the
	// mastery scheduler and persists the transition.
	SubmitSessionResult(ctx context.Context, userID uuid.UUID, in *SessionResultInput) (*SessionResultOutcome, error)
	DeleteRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) error
}

type practiceService struct {
	db         *gorm.DB
	log        *logger.Logger
	vocabSvc   VocabularyService
	recordRepo repos.LearningRecordRepo
}

func NewPracticeService(db *gorm.DB, log *logger.Logger, vocabSvc VocabularyService, recordRepo repos.LearningRecordRepo) PracticeService {
	return &practiceService{
		db:         db,
		log:        log.With("service", "PracticeService"),
		vocabSvc:   vocabSvc,
		recordRepo: recordRepo,
	}
}

func (s *practiceService) SaveVocabulary(ctx context.Context, userID uuid.UUID, in *SaveVocabularyInput) (*types.LearningRecord, bool, error) {
	if userID == uuid.Nil {
		return nil, false, apperrors.ErrUnauthorized
	}
	if in == nil || NormalizeTerm(in.Term) == "" {
		return nil, false, fmt.Errorf("%w: term is required", apperrors.ErrInvalidArgument)
	}

	hints := DefinitionHints{
		SentenceContext: firstNonEmpty(in.ExampleSentence, in.Original),
		WordClass:       in.WordClass,
		Definition:      in.Definition,
		Translation:     firstNonEmpty(in.Translation, in.Explanation),
		Level:           in.Level,
	}
	def, err := s.vocabSvc.ResolveDefinition(ctx, userID, in.Term, hints, in.Tags)
	if err != nil {
		return nil, false, err
	}

	record := &types.LearningRecord{
		UserID:          userID,
		VocabularyID:    def.ID,
		MasteryState:    string(mastery.StateNew),
		// Immediately due, so a fresh save shows up in the next practice run.
		NextReviewAt:    time.Now().UTC(),
		SourceType:      in.SourceType,
		SourceRef:       in.SourceRef,
		ExampleSentence: in.ExampleSentence,
	}
	stored, created, err := s.recordRepo.CreateOrGet(ctx, nil, record)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("%w: could not resolve learning record", apperrors.ErrInvalidArgument)
	}
	stored.Vocabulary = def
	return stored, created, nil
}

func (s *practiceService) ListDue(ctx context.Context, userID uuid.UUID, limit int) ([]*types.LearningRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.recordRepo.ListDue(ctx, nil, userID, time.Now().UTC(), limit)
}

func (s *practiceService) ListSaved(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.LearningRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	return s.recordRepo.ListByUser(ctx, nil, userID, limit, offset)
}

func (s *practiceService) SubmitSessionResult(ctx context.Context, userID uuid.UUID, in *SessionResultInput) (*SessionResultOutcome, error) {
	if userID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if in == nil || in.LearningRecordID == uuid.Nil {
		return nil, fmt.Errorf("%w: learning record id is required", apperrors.ErrInvalidArgument)
	}
	if in.ExercisesCompleted < 0 || in.ExercisesCorrect < 0 || in.ExercisesCorrect > in.ExercisesCompleted {
		return nil, fmt.Errorf("%w: exercise counts are inconsistent", apperrors.ErrInvalidArgument)
	}

	record, err := s.recordRepo.GetByIDForUser(ctx, nil, in.LearningRecordID, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.ErrNotFound
	}

	successRate := 0.0
	if in.ExercisesCompleted > 0 {
		successRate = float64(in.ExercisesCorrect) / float64(in.ExercisesCompleted)
	}

	// The review count gate uses the pre-session count; the increment happens
	// in the same UPDATE that stores the transition.
	decision := mastery.Schedule(mastery.State(record.MasteryState), successRate, record.ReviewCount)

	now := time.Now().UTC()
	nextReviewAt := now.Add(decision.ReviewIn)

	pronPlays := 0
	if in.PronunciationPlayed {
		pronPlays = 1
	}
	update := &repos.SessionResultUpdate{
		RecordID:           record.ID,
		MasteryState:       string(decision.Next),
		NextReviewAt:       nextReviewAt,
		LastReviewedAt:     now,
		ExercisesCompleted: in.ExercisesCompleted,
		ExercisesCorrect:   in.ExercisesCorrect,
		PronunciationPlays: pronPlays,
	}
	if err := s.recordRepo.ApplySessionResult(ctx, nil, update); err != nil {
		return nil, err
	}

	return &SessionResultOutcome{
		MasteryState:       string(decision.Next),
		NextReviewAt:       nextReviewAt,
		SuccessRatePercent: int(math.Round(successRate * 100)),
	}, nil
}

func (s *practiceService) DeleteRecord(ctx context.Context, userID uuid.UUID, recordID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}
	affected, err := s.recordRepo.DeleteByIDForUser(ctx, nil, recordID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
