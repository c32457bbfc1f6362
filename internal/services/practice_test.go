package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/yungbote/lingobridge-backend/internal/pkg/errors"
	"github.com/yungbote/lingobridge-backend/internal/mastery"
	"github.com/yungbote/lingobridge-backend/internal/types"
)

func TestSaveVocabularyIsIdempotentPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	in := &SaveVocabularyInput{
		Term:            "Resilient",
		ExampleSentence: "She stayed resilient through the storm.",
		SourceType:      "essay_correction",
		SourceRef:       "essay-42",
	}
	first, created, err := env.practice.SaveVocabulary(ctx, userID, in)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	if !created {
		t.Fatalf("first save: want created=true")
	}
	if first.MasteryState != string(mastery.StateNew) {
		t.Fatalf("initial state: want=%q got=%q", mastery.StateNew, first.MasteryState)
	}
	if first.Vocabulary == nil || first.Vocabulary.NormalizedTerm != "resilient" {
		t.Fatalf("save did not resolve the shared definition: %+v", first.Vocabulary)
	}

	second, created, err := env.practice.SaveVocabulary(ctx, userID, in)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if created {
		t.Fatalf("second save: want created=false")
	}
	if second.ID != first.ID {
		t.Fatalf("second save record id: want=%s got=%s", first.ID, second.ID)
	}

	var records int64
	if err := env.db.Model(&types.LearningRecord{}).Where("user_id = ?", userID).Count(&records).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if records != 1 {
		t.Fatalf("record rows: want=1 got=%d", records)
	}
}

func TestSaveVocabularySharesDefinitionAcrossUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	in := &SaveVocabularyInput{Term: "ubiquitous"}
	first, _, err := env.practice.SaveVocabulary(ctx, uuid.New(), in)
	if err != nil {
		t.Fatalf("first user save: %v", err)
	}
	second, created, err := env.practice.SaveVocabulary(ctx, uuid.New(), in)
	if err != nil {
		t.Fatalf("second user save: %v", err)
	}
	if !created {
		t.Fatalf("second user save: want its own record created")
	}
	if first.VocabularyID != second.VocabularyID {
		t.Fatalf("vocabulary ids differ across users: %s vs %s", first.VocabularyID, second.VocabularyID)
	}
	if env.gen.defCalls != 1 {
		t.Fatalf("generator calls: want=1 got=%d", env.gen.defCalls)
	}
}

func TestSaveVocabularyValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.practice.SaveVocabulary(ctx, uuid.Nil, &SaveVocabularyInput{Term: "x"}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("nil user: want ErrUnauthorized, got %v", err)
	}
	if _, _, err := env.practice.SaveVocabulary(ctx, uuid.New(), &SaveVocabularyInput{Term: "   "}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("blank term: want ErrInvalidArgument, got %v", err)
	}
}

func TestListDueReturnsOnlyDueOrderedByReviewTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	terms := []struct {
		term string
		due  time.Time
	}{
		{"alpha", now.Add(-2 * time.Hour)},
		{"beta", now.Add(-30 * time.Minute)},
		{"gamma", now.Add(48 * time.Hour)},
	}
	for _, item := range terms {
		def := seedVocabulary(t, env, item.term)
		row := &types.LearningRecord{
			UserID:       userID,
			VocabularyID: def.ID,
			MasteryState: "new",
			NextReviewAt: item.due,
		}
		if _, _, err := env.recordRepo.CreateOrGet(ctx, nil, row); err != nil {
			t.Fatalf("seed record %q: %v", item.term, err)
		}
	}

	due, err := env.practice.ListDue(ctx, userID, 10)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("due records: want=2 got=%d", len(due))
	}
	if due[0].Vocabulary == nil || due[0].Vocabulary.NormalizedTerm != "alpha" {
		t.Fatalf("due order: want alpha first, got %+v", due[0].Vocabulary)
	}
	if due[1].Vocabulary == nil || due[1].Vocabulary.NormalizedTerm != "beta" {
		t.Fatalf("due order: want beta second, got %+v", due[1].Vocabulary)
	}

	one, err := env.practice.ListDue(ctx, userID, 1)
	if err != nil {
		t.Fatalf("list due limit 1: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("due records with limit: want=1 got=%d", len(one))
	}
}

func submitSession(t *testing.T, env *testEnv, userID, recordID uuid.UUID, completed, correct int) *SessionResultOutcome {
	t.Helper()
	outcome, err := env.practice.SubmitSessionResult(context.Background(), userID, &SessionResultInput{
		LearningRecordID:    recordID,
		ExercisesCompleted:  completed,
		ExercisesCorrect:    correct,
		PronunciationPlayed: true,
	})
	if err != nil {
		t.Fatalf("submit session: %v", err)
	}
	return outcome
}

func TestSubmitSessionResultWalksThePromotionLadder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	record, _, err := env.practice.SaveVocabulary(ctx, userID, &SaveVocabularyInput{Term: "resilient"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Session 1: new + excellent promotes to learning.
	outcome := submitSession(t, env, userID, record.ID, 5, 5)
	if outcome.MasteryState != string(mastery.StateLearning) {
		t.Fatalf("session 1 state: want=%q got=%q", mastery.StateLearning, outcome.MasteryState)
	}
	if outcome.SuccessRatePercent != 100 {
		t.Fatalf("session 1 success rate: want=100 got=%d", outcome.SuccessRatePercent)
	}

	// Session 2: excellent again, but only one prior review; the promotion
	// gate holds it at learning.
	outcome = submitSession(t, env, userID, record.ID, 5, 5)
	if outcome.MasteryState != string(mastery.StateLearning) {
		t.Fatalf("session 2 state: want=%q got=%q", mastery.StateLearning, outcome.MasteryState)
	}

	// Session 3: two prior reviews clears the gate; learning promotes to
	// practiced.
	outcome = submitSession(t, env, userID, record.ID, 5, 5)
	if outcome.MasteryState != string(mastery.StatePracticed) {
		t.Fatalf("session 3 state: want=%q got=%q", mastery.StatePracticed, outcome.MasteryState)
	}

	// Session 4: practiced + excellent with 3 prior reviews stays below the
	// mastered gate.
	outcome = submitSession(t, env, userID, record.ID, 5, 5)
	if outcome.MasteryState != string(mastery.StatePracticed) {
		t.Fatalf("session 4 state: want=%q got=%q", mastery.StatePracticed, outcome.MasteryState)
	}

	// Session 5: four prior reviews promotes to mastered.
	outcome = submitSession(t, env, userID, record.ID, 5, 5)
	if outcome.MasteryState != string(mastery.StateMastered) {
		t.Fatalf("session 5 state: want=%q got=%q", mastery.StateMastered, outcome.MasteryState)
	}

	var stored types.LearningRecord
	if err := env.db.Where("id = ?", record.ID).First(&stored).Error; err != nil {
		t.Fatalf("reread record: %v", err)
	}
	if stored.ReviewCount != 5 {
		t.Fatalf("review count: want=5 got=%d", stored.ReviewCount)
	}
	if stored.ExercisesCompleted != 25 || stored.ExercisesCorrect != 25 {
		t.Fatalf("exercise counters: want=25/25 got=%d/%d", stored.ExercisesCompleted, stored.ExercisesCorrect)
	}
	if stored.PronunciationPlays != 5 {
		t.Fatalf("pronunciation plays: want=5 got=%d", stored.PronunciationPlays)
	}
	if stored.LastReviewedAt == nil {
		t.Fatalf("last reviewed at was not set")
	}
}

func TestSubmitSessionResultPoorSessionResets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	def := seedVocabulary(t, env, "resilient")

	row := &types.LearningRecord{
		UserID:       userID,
		VocabularyID: def.ID,
		MasteryState: string(mastery.StatePracticed),
		NextReviewAt: time.Now().UTC(),
		ReviewCount:  6,
	}
	record, _, err := env.recordRepo.CreateOrGet(ctx, nil, row)
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}

	before := time.Now().UTC()
	outcome := submitSession(t, env, userID, record.ID, 5, 1)
	if outcome.MasteryState != string(mastery.StateNew) {
		t.Fatalf("poor session state: want=%q got=%q", mastery.StateNew, outcome.MasteryState)
	}
	in := outcome.NextReviewAt.Sub(before)
	if in < 29*time.Minute || in > 31*time.Minute {
		t.Fatalf("poor session review delay: want ~30m got %s", in)
	}

	// Counters survive the reset; they only accumulate.
	var stored types.LearningRecord
	if err := env.db.Where("id = ?", record.ID).First(&stored).Error; err != nil {
		t.Fatalf("reread record: %v", err)
	}
	if stored.ReviewCount != 7 {
		t.Fatalf("review count after reset: want=7 got=%d", stored.ReviewCount)
	}
}

func TestSubmitSessionResultValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	record, _, err := env.practice.SaveVocabulary(ctx, userID, &SaveVocabularyInput{Term: "resilient"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err = env.practice.SubmitSessionResult(ctx, userID, &SessionResultInput{
		LearningRecordID:   record.ID,
		ExercisesCompleted: 3,
		ExercisesCorrect:   4,
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("correct > completed: want ErrInvalidArgument, got %v", err)
	}

	_, err = env.practice.SubmitSessionResult(ctx, uuid.New(), &SessionResultInput{
		LearningRecordID:   record.ID,
		ExercisesCompleted: 3,
		ExercisesCorrect:   3,
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign record: want ErrNotFound, got %v", err)
	}
}

func TestDeleteRecordAllowsResaving(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	record, _, err := env.practice.SaveVocabulary(ctx, userID, &SaveVocabularyInput{Term: "resilient"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := env.practice.DeleteRecord(ctx, userID, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := env.practice.DeleteRecord(ctx, userID, record.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}

	resaved, created, err := env.practice.SaveVocabulary(ctx, userID, &SaveVocabularyInput{Term: "resilient"})
	if err != nil {
		t.Fatalf("resave: %v", err)
	}
	if !created {
		t.Fatalf("resave: want a fresh record after deletion")
	}
	if resaved.ID == record.ID {
		t.Fatalf("resave reused the deleted record id")
	}
	if resaved.MasteryState != string(mastery.StateNew) {
		t.Fatalf("resaved state: want=%q got=%q", mastery.StateNew, resaved.MasteryState)
	}
}

func TestDeleteRecordIgnoresOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()

	record, _, err := env.practice.SaveVocabulary(ctx, owner, &SaveVocabularyInput{Term: "resilient"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := env.practice.DeleteRecord(ctx, uuid.New(), record.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("foreign delete: want ErrNotFound, got %v", err)
	}

	var count int64
	if err := env.db.Model(&types.LearningRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("record survived foreign delete: want=1 got=%d", count)
	}
}
